// Package remediation requests an optional, per-entity fix suggestion from
// the same text-completion port the Planner uses. It is never invoked
// automatically: the specification's non-goals forbid producing fixes
// without explicit opt-in.
package remediation

import (
	"context"
	"fmt"

	"github.com/deplai/scanctl/core"
	"github.com/deplai/scanctl/planner"
)

// Adapter requests fix suggestions through a TextCompletionPort.
type Adapter struct {
	port   planner.TextCompletionPort
	logger core.Logger
}

// New builds a remediation Adapter around a TextCompletionPort.
func New(port planner.TextCompletionPort, logger core.Logger) *Adapter {
	if logger == nil {
		logger = core.NoOpLogger{}
	}
	return &Adapter{port: port, logger: logger}
}

// Suggest asks the model for a remediation note for a single entity. A
// failure is logged and produces an empty string, never an error that
// would affect the overall scan result.
func (a *Adapter) Suggest(ctx context.Context, entity core.FindingEntity) string {
	prompt := fmt.Sprintf(
		"Suggest a concise, actionable remediation for this security finding.\nTitle: %s\nCategory: %s\nSeverity: %s\nWeakness: %s\n",
		entity.Title, entity.Category, entity.Severity, entity.Weakness,
	)

	suggestion, err := a.port.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("remediation suggestion failed", map[string]interface{}{
			"entity_id": entity.EntityID, "error": err.Error(),
		})
		return ""
	}
	return suggestion
}
