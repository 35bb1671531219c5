package gatekeeper

import (
	"errors"
	"testing"

	"github.com/deplai/scanctl/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampRejectsDASTWithNoAllowedHosts(t *testing.T) {
	plan := core.ExecutionPlan{RunDAST: true}
	policy := &core.ScopePolicy{AllowedDASTHosts: nil}

	_, err := Clamp(plan, policy)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrPlanRejected))
}

func TestClampCapsMaxRequestsToScopeCeiling(t *testing.T) {
	plan := core.ExecutionPlan{Limits: core.Limits{MaxRequests: 500, MaxRuntimeSeconds: 60}}
	policy := &core.ScopePolicy{MaxRequests: 100, AllowedDASTHosts: []string{"example.com"}}

	clamped, err := Clamp(plan, policy)
	require.NoError(t, err)
	assert.Equal(t, 100, clamped.Limits.MaxRequests)
	assert.Equal(t, 60, clamped.Limits.MaxRuntimeSeconds, "runtime limit is left untouched by the gatekeeper")
}

func TestClampNeverRaisesMaxRequests(t *testing.T) {
	plan := core.ExecutionPlan{Limits: core.Limits{MaxRequests: 10}}
	policy := &core.ScopePolicy{MaxRequests: 100, AllowedDASTHosts: []string{"example.com"}}

	clamped, err := Clamp(plan, policy)
	require.NoError(t, err)
	assert.Equal(t, 10, clamped.Limits.MaxRequests, "a plan already under the ceiling is passed through unchanged")
}
