package planner

import "context"

// TextCompletionPort is the narrow boundary through which the Planner (and
// the Remediator) reach an external language model. Neither component
// knows the vendor behind it; a concrete implementation wraps a single
// HTTP-based text-completion API.
type TextCompletionPort interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
