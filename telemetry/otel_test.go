package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTelemetryStartsAndEndsSpan(t *testing.T) {
	telem, shutdown, err := NewTelemetry("test-service")
	require.NoError(t, err)
	defer shutdown(context.Background())

	ctx, span := telem.StartSpan(context.Background(), "unit.test")
	assert.NotNil(t, ctx)
	span.SetAttribute("tool", "semgrep")
	span.RecordError(nil)
	span.End()
}

func TestRecordMetricDoesNotPanic(t *testing.T) {
	telem, shutdown, err := NewTelemetry("test-service")
	require.NoError(t, err)
	defer shutdown(context.Background())

	assert.NotPanics(t, func() {
		telem.RecordMetric("scanctl.adapter.duration_ms", 12.5, map[string]string{"tool": "semgrep"})
	})
}

func TestIsKubernetesReflectsEnv(t *testing.T) {
	t.Setenv("KUBERNETES_SERVICE_HOST", "")
	assert.False(t, IsKubernetes())

	t.Setenv("KUBERNETES_SERVICE_HOST", "10.0.0.1")
	assert.True(t, IsKubernetes())
}
