package remediation

import (
	"context"
	"errors"
	"testing"

	"github.com/deplai/scanctl/core"
	"github.com/stretchr/testify/assert"
)

type stubPort struct {
	response string
	err      error
}

func (s *stubPort) Complete(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func TestSuggestReturnsModelResponse(t *testing.T) {
	port := &stubPort{response: "Parameterize the SQL query."}
	adapter := New(port, nil)

	entity := core.FindingEntity{EntityID: "e1", Title: "SQL injection", Category: core.CategorySAST, Severity: core.SeverityHigh, Weakness: "sql-injection"}
	suggestion := adapter.Suggest(context.Background(), entity)
	assert.Equal(t, "Parameterize the SQL query.", suggestion)
}

func TestSuggestReturnsEmptyOnPortFailure(t *testing.T) {
	port := &stubPort{err: errors.New("model unavailable")}
	adapter := New(port, nil)

	entity := core.FindingEntity{EntityID: "e1"}
	suggestion := adapter.Suggest(context.Background(), entity)
	assert.Empty(t, suggestion)
}
