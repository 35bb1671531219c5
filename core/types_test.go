package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityLess(t *testing.T) {
	assert.True(t, SeverityLow.Less(SeverityMedium))
	assert.True(t, SeverityHigh.Less(SeverityCritical))
	assert.False(t, SeverityCritical.Less(SeverityLow))
	assert.False(t, SeverityHigh.Less(SeverityHigh))
}

func TestDefaultScopePolicyIsLocalhostOnly(t *testing.T) {
	policy := DefaultScopePolicy()
	assert.Contains(t, policy.AllowedDASTHosts, "localhost")
	assert.Contains(t, policy.AllowedDASTHosts, "127.0.0.1")
	assert.Empty(t, policy.AllowedRepoPrefixes)
	assert.True(t, policy.SafeMode)
}
