// Package planner converts an AgentContext into an ExecutionPlan, via a
// deterministic baseline that is always available and an optional
// model-backed planner that may only reduce the rights the baseline grants.
package planner

import "github.com/deplai/scanctl/core"

// recognizedEcosystemLanguages lists languages whose presence implies a
// package ecosystem even when no explicit dependency manifest was listed.
var recognizedEcosystemLanguages = map[string]bool{
	"python":     true,
	"javascript": true,
	"typescript": true,
	"go":         true,
	"java":       true,
	"ruby":       true,
	"php":        true,
	"rust":       true,
}

// Baseline produces the deterministic fallback ExecutionPlan. It is always
// called first and is the plan returned unchanged whenever the model-backed
// planner fails, times out, or is not configured.
func Baseline(ctx core.AgentContext) core.ExecutionPlan {
	runSAST := len(ctx.Languages) > 0
	runSCA := len(ctx.Dependencies) > 0 || hasRecognizedEcosystem(ctx.Languages)
	runDAST := ctx.HasPublicEndpoint && !ctx.IsPR

	limits := core.Limits{MaxRuntimeSeconds: 900, MaxRequests: 1000}
	if ctx.IsPR {
		limits = core.Limits{MaxRuntimeSeconds: 300, MaxRequests: 200}
	}

	return core.ExecutionPlan{
		RunSAST: runSAST,
		RunSCA:  runSCA,
		RunDAST: runDAST,
		Reason:  "fallback_planner_baseline",
		Limits:  limits,
	}
}

func hasRecognizedEcosystem(languages []string) bool {
	for _, l := range languages {
		if recognizedEcosystemLanguages[normalizeLang(l)] {
			return true
		}
	}
	return false
}

func normalizeLang(l string) string {
	out := make([]byte, 0, len(l))
	for i := 0; i < len(l); i++ {
		c := l[i]
		if c >= 'A' && c <= 'Z' {
			c = c - 'A' + 'a'
		}
		out = append(out, c)
	}
	return string(out)
}
