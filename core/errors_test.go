package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineErrorWrapsAndUnwraps(t *testing.T) {
	inner := errors.New("connection reset")
	err := NewPipelineError("orchestrator.runSAST", "tool", inner)

	assert.Contains(t, err.Error(), "connection reset")
	assert.Contains(t, err.Error(), "orchestrator.runSAST")
	assert.True(t, errors.Is(err, inner))
}

func TestPipelineErrorWithIDIncludesIt(t *testing.T) {
	err := &PipelineError{Op: "lifecycle.Update", ID: "entity-42", Err: errors.New("timeout")}
	assert.Contains(t, err.Error(), "entity-42")
}

func TestPipelineErrorFallsBackToMessage(t *testing.T) {
	err := &PipelineError{Message: "no details available"}
	assert.Equal(t, "no details available", err.Error())
}

func TestIsScopeViolationHelper(t *testing.T) {
	wrapped := NewPipelineError("scope.Validate", "scope", ErrScopeViolation)
	assert.True(t, IsScopeViolation(wrapped))
	assert.False(t, IsScopeViolation(errors.New("unrelated")))
}

func TestSystemFindingIsAlwaysLowHighConfidence(t *testing.T) {
	f := SystemFinding("semgrep", "semgrep-execution-error", "semgrep execution failed", "", nil)
	assert.Equal(t, CategorySystem, f.Category)
	assert.Equal(t, SeverityLow, f.Severity)
	assert.Equal(t, ConfidenceHigh, f.Confidence)
	assert.Equal(t, 1, f.Occurrences)
}
