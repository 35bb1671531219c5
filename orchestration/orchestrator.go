// Package orchestration implements the plan-driven dispatch of analyzer
// adapters with per-stage fault isolation, the heart of the scan pipeline.
package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/deplai/scanctl/analyzers"
	"github.com/deplai/scanctl/core"
	"github.com/deplai/scanctl/dedup"
	"github.com/deplai/scanctl/gatekeeper"
	"github.com/deplai/scanctl/normalize"
	"github.com/deplai/scanctl/planner"
	"github.com/deplai/scanctl/scope"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a logger for stage-level diagnostics.
func WithLogger(logger core.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithTelemetry attaches a telemetry facade; each adapter invocation is
// bracketed in its own span.
func WithTelemetry(t core.Telemetry) Option {
	return func(o *Orchestrator) { o.telemetry = t }
}

// WithModelPlanner swaps in a model-backed planner; without one, only the
// deterministic baseline runs.
func WithModelPlanner(m *planner.ModelBacked) Option {
	return func(o *Orchestrator) { o.modelPlanner = m }
}

// WithSASTBinary overrides the default "semgrep" binary name.
func WithSASTBinary(bin string) Option {
	return func(o *Orchestrator) { o.sastBinary = bin }
}

// WithSBOMBinary overrides the default "cyclonedx-py" binary name.
func WithSBOMBinary(bin string) Option {
	return func(o *Orchestrator) { o.sbomBinary = bin }
}

// WithSCABinary overrides the default "grype" binary name.
func WithSCABinary(bin string) Option {
	return func(o *Orchestrator) { o.scaBinary = bin }
}

// WithDASTBinary overrides the default "nuclei" binary name.
func WithDASTBinary(bin string) Option {
	return func(o *Orchestrator) { o.dastBinary = bin }
}

// Orchestrator is the plan-driven dispatcher. Construct with New and
// options, then call Run once per scan.
type Orchestrator struct {
	logger       core.Logger
	telemetry    core.Telemetry
	modelPlanner *planner.ModelBacked

	sastBinary, sbomBinary, scaBinary, dastBinary string
}

// New builds an Orchestrator with sensible zero-configuration defaults:
// NoOp logging/telemetry and the real analyzer binary names.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:    core.NoOpLogger{},
		telemetry: core.NoOpTelemetry{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the full nine-step orchestration algorithm described in the
// specification and returns the run's result. The only error it returns is
// a synchronous programmer error — a missing run_id or a missing scan
// target — since every expected operational failure (scope violations,
// clone failures, tool crashes) is folded into the result's status and
// SYSTEM findings instead.
func (o *Orchestrator) Run(ctx context.Context, input core.RunInput, plan *core.ExecutionPlan, policy *core.ScopePolicy) (core.RunResult, error) {
	ctx, span := o.telemetry.StartSpan(ctx, "orchestrator.run")
	defer span.End()

	// Step 1: validate mandatory fields.
	if input.RunID == "" {
		return core.RunResult{}, core.ErrMissingRunID
	}
	if input.RepoPath == "" && input.DAST.TargetURL == "" {
		return core.RunResult{}, core.ErrMissingTarget
	}

	var tools []string
	var findings []core.Finding

	// Step 2: construct plan if absent.
	if plan == nil {
		agentCtx := buildAgentContext(input)
		base := planner.Baseline(agentCtx)
		if o.modelPlanner != nil {
			base = o.modelPlanner.Plan(ctx, agentCtx)
		}
		plan = &base
	}

	// Step 3: construct default scope if absent.
	if policy == nil {
		policy = core.DefaultScopePolicy()
	}

	clamped, err := gatekeeper.Clamp(*plan, policy)
	if err != nil {
		o.logger.Warn("gatekeeper rejected plan", map[string]interface{}{"run_id": input.RunID, "error": err.Error()})
		return core.RunResult{
			RunID:  input.RunID,
			Status: core.StatusBlocked,
			Tools:  tools,
			Findings: []core.Finding{
				core.SystemFinding("gatekeeper", "plan-rejected", err.Error(), "", nil),
			},
		}, nil
	}
	plan = &clamped

	var ws workspace
	// Step 4 & 5: validate repo scope, resolve workspace.
	if input.RepoPath != "" {
		if err := scope.ValidateRepoScope(input.RepoPath, policy); err != nil {
			return core.RunResult{
				RunID:  input.RunID,
				Status: core.StatusBlocked,
				Tools:  tools,
				Findings: []core.Finding{
					core.SystemFinding("scope", "repo-scope-violation", err.Error(), input.RepoPath, nil),
				},
			}, nil
		}

		ws, err = resolveWorkspace(ctx, input.RepoPath)
		if err != nil {
			return core.RunResult{
				RunID:  input.RunID,
				Status: core.StatusFailed,
				Tools:  tools,
				Findings: []core.Finding{
					core.SystemFinding("workspace", "clone-failed", err.Error(), input.RepoPath, nil),
				},
			}, nil
		}
		defer ws.cleanup() // Step 9: cleanup unconditionally.
	}

	// Step 6: invoke adapters per plan flag, each fault-isolated.
	if plan.RunSAST && ws.Path != "" {
		toolName, fs := o.runSAST(ctx, ws.Path, input.Languages)
		tools = append(tools, toolName)
		findings = append(findings, fs...)
	}

	if plan.RunSCA && ws.Path != "" {
		toolName, fs := o.runSCA(ctx, ws.Path)
		tools = append(tools, toolName)
		findings = append(findings, fs...)
	}

	if plan.RunDAST && input.DAST.TargetURL != "" {
		// Step 7: revalidate target_url against scope before invoking.
		if err := scope.ValidateTargetURL(input.DAST.TargetURL, policy); err != nil {
			return core.RunResult{
				RunID:  input.RunID,
				Status: core.StatusBlocked,
				Tools:  tools,
				Findings: []core.Finding{
					core.SystemFinding("scope", "dast-scope-violation", err.Error(), input.DAST.TargetURL, nil),
				},
			}, nil
		}

		toolName, fs := o.runDAST(ctx, input.DAST.TargetURL, input.DAST.Headers, plan.Limits.MaxRequests)
		tools = append(tools, toolName)
		findings = append(findings, fs...)

		toolName, fs = o.runConfig(ctx, input.DAST.TargetURL)
		tools = append(tools, toolName)
		findings = append(findings, fs...)
	}

	// Step 8: deduplicate.
	deduped := dedup.Dedup(findings)

	return core.RunResult{
		RunID:    input.RunID,
		Status:   core.StatusCompleted,
		Tools:    tools,
		Findings: deduped,
	}, nil
}

func buildAgentContext(input core.RunInput) core.AgentContext {
	return core.AgentContext{
		Repo:              input.RepoPath,
		Languages:         input.Languages,
		Frameworks:        input.Frameworks,
		Dependencies:      input.Dependencies,
		IsPR:              input.IsPR,
		ChangedFiles:      input.ChangedFiles,
		HasPublicEndpoint: input.DAST.TargetURL != "",
	}
}

// runStage wraps a stage invocation so a thrown error never aborts the
// whole pipeline: instead it becomes a SYSTEM finding with
// rule_id = "<tool>-execution-error" and tools gains "<tool>-error".
func (o *Orchestrator) runStage(ctx context.Context, tool string, fn func(context.Context) ([]core.Finding, error)) (string, []core.Finding) {
	ctx, span := o.telemetry.StartSpan(ctx, fmt.Sprintf("orchestrator.%s", tool))
	defer span.End()

	start := time.Now()
	fs, err := safeCall(ctx, fn)
	o.telemetry.RecordMetric("scanctl.adapter.duration_ms", float64(time.Since(start).Milliseconds()), map[string]string{"tool": tool})

	if err != nil {
		span.RecordError(err)
		o.logger.Error("analyzer execution failed", map[string]interface{}{"tool": tool, "error": err.Error()})
		return tool + "-error", []core.Finding{
			core.SystemFinding(tool, tool+"-execution-error", fmt.Sprintf("%s execution failed", tool), "", map[string]interface{}{"error": err.Error()}),
		}
	}
	return tool, fs
}

// safeCall recovers from a panic inside fn and converts it to an error, so
// an unexpected programmer error inside an adapter still surfaces as a
// SYSTEM finding rather than crashing the whole run.
func safeCall(ctx context.Context, fn func(context.Context) ([]core.Finding, error)) (fs []core.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

func (o *Orchestrator) runSAST(ctx context.Context, repoPath string, languages []string) (string, []core.Finding) {
	return o.runStage(ctx, "semgrep", func(ctx context.Context) ([]core.Finding, error) {
		adapter := analyzers.NewSASTAdapter(o.sastBinary)
		out, err := adapter.Run(ctx, repoPath, languages)
		if err != nil {
			return nil, err
		}
		return normalize.SAST("semgrep", out), nil
	})
}

func (o *Orchestrator) runSCA(ctx context.Context, repoPath string) (string, []core.Finding) {
	return o.runStage(ctx, "grype", func(ctx context.Context) ([]core.Finding, error) {
		if !analyzers.HasRecognizedManifest(repoPath) {
			return nil, nil
		}

		sbomAdapter := analyzers.NewSBOMAdapter(o.sbomBinary)
		sbom, err := sbomAdapter.Generate(ctx, repoPath)
		if err != nil {
			return nil, err
		}

		sbomPath, err := writeTempSBOM(sbom)
		if err != nil {
			return nil, err
		}
		defer removeTempFile(sbomPath)

		scaAdapter := analyzers.NewSCAAdapter(o.scaBinary)
		out, err := scaAdapter.Scan(ctx, sbomPath)
		if err != nil {
			return nil, err
		}
		return normalize.SCA("grype", out), nil
	})
}

func (o *Orchestrator) runDAST(ctx context.Context, targetURL string, headers map[string]string, maxRequests int) (string, []core.Finding) {
	return o.runStage(ctx, "nuclei", func(ctx context.Context) ([]core.Finding, error) {
		adapter := analyzers.NewDASTAdapter(o.dastBinary, maxRequests)
		records, err := adapter.Run(ctx, targetURL, headers, analyzers.ProfileCI)
		if err != nil {
			return nil, err
		}
		return normalize.DAST("nuclei", records), nil
	})
}

func (o *Orchestrator) runConfig(ctx context.Context, targetURL string) (string, []core.Finding) {
	return o.runStage(ctx, "config", func(ctx context.Context) ([]core.Finding, error) {
		adapter := analyzers.NewConfigAdapter()
		result := adapter.Check(ctx, targetURL)
		return normalize.Config(result), nil
	})
}
