package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/deplai/scanctl/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry wraps an OpenTelemetry tracer/meter pair behind core.Telemetry,
// so the orchestrator and adapters can bracket every stage with a span
// without depending on otel directly.
type Telemetry struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger *Logger
}

var _ core.Telemetry = (*Telemetry)(nil)

// NewTelemetry builds a Telemetry backed by the stdout span exporter, the
// same zero-configuration default the teacher framework ships. A real
// deployment swaps in an OTLP exporter via SetTracerProvider before
// NewTelemetry is called.
func NewTelemetry(serviceName string) (*Telemetry, func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return &Telemetry{
		tracer: tp.Tracer(serviceName),
		meter:  otel.GetMeterProvider().Meter(serviceName),
		logger: NewLogger(serviceName),
	}, tp.Shutdown, nil
}

// StartSpan starts a span named for the pipeline stage.
func (t *Telemetry) StartSpan(ctx context.Context, name string) (context.Context, core.Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &otelSpan{span: span}
}

// RecordMetric emits a float64 counter-style metric with label pairs.
func (t *Telemetry) RecordMetric(name string, value float64, labels map[string]string) {
	counter, err := t.meter.Float64Counter(name)
	if err != nil {
		return
	}
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	counter.Add(context.Background(), value, metric.WithAttributes(attrs...))
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() { s.span.End() }
func (s *otelSpan) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(attribute.String(key, toString(value)))
}
func (s *otelSpan) RecordError(err error) { s.span.RecordError(err) }

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// IsKubernetes reports whether the process is running inside a Kubernetes
// pod, matching the auto-detection the logger performs for output format.
func IsKubernetes() bool {
	return os.Getenv("KUBERNETES_SERVICE_HOST") != ""
}
