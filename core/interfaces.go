package core

import "context"

// Logger is the minimal structured-logging interface every package in this
// module depends on. telemetry.Logger implements it; tests may substitute
// NoOpLogger.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})
}

// NoOpLogger discards everything. Useful as a default in constructors and
// in tests that don't care about log output.
type NoOpLogger struct{}

func (NoOpLogger) Info(string, map[string]interface{})  {}
func (NoOpLogger) Warn(string, map[string]interface{})  {}
func (NoOpLogger) Error(string, map[string]interface{}) {}
func (NoOpLogger) Debug(string, map[string]interface{}) {}

// Span represents one telemetry span bracketing a pipeline stage.
type Span interface {
	End()
	SetAttribute(key string, value interface{})
	RecordError(err error)
}

// Telemetry is the optional tracing/metrics facade the orchestrator and
// adapters use to bracket blocking operations.
type Telemetry interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
	RecordMetric(name string, value float64, labels map[string]string)
}

// NoOpTelemetry is the default Telemetry when none is configured.
type NoOpTelemetry struct{}

func (NoOpTelemetry) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noOpSpan{}
}
func (NoOpTelemetry) RecordMetric(string, float64, map[string]string) {}

type noOpSpan struct{}

func (noOpSpan) End()                               {}
func (noOpSpan) SetAttribute(string, interface{})   {}
func (noOpSpan) RecordError(error)                  {}
