// Package gatekeeper clamps a Planner-produced ExecutionPlan against the
// immutable ScopePolicy. It never expands rights, only narrows or rejects
// them.
package gatekeeper

import "github.com/deplai/scanctl/core"

// Clamp enforces scope policy on plan. It returns an error wrapping
// core.ErrPlanRejected when DAST is requested but no domains are allowed;
// otherwise it returns a plan with max_requests capped at the scope
// ceiling. The runtime limit is left untouched — the orchestrator enforces
// it directly.
func Clamp(plan core.ExecutionPlan, policy *core.ScopePolicy) (core.ExecutionPlan, error) {
	if plan.RunDAST && len(policy.AllowedDASTHosts) == 0 {
		return core.ExecutionPlan{}, &PlanRejectedError{Reason: "DAST requested but no domains allowed"}
	}

	if plan.Limits.MaxRequests > policy.MaxRequests {
		plan.Limits.MaxRequests = policy.MaxRequests
	}

	return plan, nil
}

// PlanRejectedError is returned when the Gatekeeper refuses a plan outright.
type PlanRejectedError struct {
	Reason string
}

func (e *PlanRejectedError) Error() string { return e.Reason }
func (e *PlanRejectedError) Unwrap() error { return core.ErrPlanRejected }
