package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/deplai/scanctl/core"
)

// Option configures a ModelBacked planner.
type Option func(*ModelBacked)

// WithMaxRetries overrides the number of model-call attempts (default 2,
// i.e. one retry after the first failure).
func WithMaxRetries(n int) Option {
	return func(m *ModelBacked) { m.maxRetries = n }
}

// WithLogger attaches a logger used to record fall-through events.
func WithLogger(logger core.Logger) Option {
	return func(m *ModelBacked) { m.logger = logger }
}

// ModelBacked is the optional, model-driven planner. It always defers to
// Baseline first and can only narrow the resulting plan.
type ModelBacked struct {
	port       TextCompletionPort
	maxRetries int
	logger     core.Logger
}

// New builds a ModelBacked planner around a TextCompletionPort.
func New(port TextCompletionPort, opts ...Option) *ModelBacked {
	m := &ModelBacked{port: port, maxRetries: 2, logger: core.NoOpLogger{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type modelPlanJSON struct {
	RunSAST *bool  `json:"run_sast"`
	RunSCA  *bool  `json:"run_sca"`
	RunDAST *bool  `json:"run_dast"`
	Reason  string `json:"reason"`
	Limits  *struct {
		MaxRuntimeSeconds interface{} `json:"max_runtime_seconds"`
		MaxRequests       interface{} `json:"max_requests"`
	} `json:"limits"`
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
var firstObject = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON pulls JSON out of a model response: first a fenced code
// block, else the first {...} region found in the text.
func extractJSON(text string) (string, bool) {
	if m := fencedBlock.FindStringSubmatch(text); len(m) == 2 {
		return m[1], true
	}
	if m := firstObject.FindString(text); m != "" {
		return m, true
	}
	return "", false
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		var i int
		if _, err := fmt.Sscanf(n, "%d", &i); err == nil {
			return i, true
		}
	}
	return 0, false
}

func truthy(b *bool) bool {
	return b != nil && *b
}

// Plan runs the deterministic baseline, then attempts to reduce it with the
// model. Any failure of the model path — timeout, malformed JSON, missing
// fields — returns the baseline plan unchanged.
func (m *ModelBacked) Plan(ctx context.Context, agentCtx core.AgentContext) core.ExecutionPlan {
	base := Baseline(agentCtx)

	prompt := buildPrompt(agentCtx)

	parsed, err := m.callWithRetry(ctx, prompt)
	if err != nil {
		m.logger.Warn("planner falling back to baseline", map[string]interface{}{"error": err.Error()})
		return base
	}

	model, ok := parseModelPlan(parsed)
	if !ok {
		m.logger.Warn("planner: could not parse model response, using baseline", nil)
		return base
	}

	return mergePlans(base, model, agentCtx)
}

func (m *ModelBacked) callWithRetry(ctx context.Context, prompt string) (string, error) {
	attempts := m.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	op := func() (string, error) {
		return m.port.Complete(ctx, prompt)
	}

	result, err := backoff.Retry(ctx, op,
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
	)
	if err != nil {
		return "", err
	}
	return result, nil
}

func parseModelPlan(text string) (modelPlanJSON, bool) {
	raw, ok := extractJSON(text)
	if !ok {
		return modelPlanJSON{}, false
	}
	var p modelPlanJSON
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return modelPlanJSON{}, false
	}
	if p.RunSAST == nil || p.RunSCA == nil || p.RunDAST == nil || p.Limits == nil {
		return modelPlanJSON{}, false
	}
	if p.Limits.MaxRuntimeSeconds == nil || p.Limits.MaxRequests == nil {
		return modelPlanJSON{}, false
	}
	return p, true
}

// mergePlans applies the "model can only reduce rights" policy: each
// boolean is base AND model; limits are elementwise min; is_pr and
// !has_public_endpoint invariants are re-asserted regardless of what the
// model said.
func mergePlans(base core.ExecutionPlan, model modelPlanJSON, agentCtx core.AgentContext) core.ExecutionPlan {
	runSAST := base.RunSAST && truthy(model.RunSAST)
	runSCA := base.RunSCA && truthy(model.RunSCA)
	runDAST := base.RunDAST && truthy(model.RunDAST)

	if agentCtx.IsPR || !agentCtx.HasPublicEndpoint {
		runDAST = false
	}

	limits := base.Limits
	if modelRuntime, ok := toInt(model.Limits.MaxRuntimeSeconds); ok && modelRuntime < limits.MaxRuntimeSeconds {
		limits.MaxRuntimeSeconds = modelRuntime
	}
	if modelRequests, ok := toInt(model.Limits.MaxRequests); ok && modelRequests < limits.MaxRequests {
		limits.MaxRequests = modelRequests
	}

	reason := base.Reason
	if strings.TrimSpace(model.Reason) != "" {
		reason = model.Reason
	}

	return core.ExecutionPlan{
		RunSAST: runSAST,
		RunSCA:  runSCA,
		RunDAST: runDAST,
		Reason:  reason,
		Limits:  limits,
	}
}

func buildPrompt(ctx core.AgentContext) string {
	return fmt.Sprintf(`You are a security scan planner. Given the repository context below, respond with
strict JSON only, matching exactly this shape:
{"run_sast": bool, "run_sca": bool, "run_dast": bool, "reason": string, "limits": {"max_runtime_seconds": int, "max_requests": int}}

Context:
languages=%v frameworks=%v dependencies=%v is_pr=%v has_public_endpoint=%v changed_files=%v
Requested at: %s`,
		ctx.Languages, ctx.Frameworks, ctx.Dependencies, ctx.IsPR, ctx.HasPublicEndpoint, ctx.ChangedFiles,
		time.Now().UTC().Format(time.RFC3339))
}
