// Command scanworker is the minimal process entrypoint that reads a run
// input envelope from stdin, executes the scan pipeline, and writes the
// scored result to stdout (optionally POSTing it to a callback URL). The
// container spawner that launches this process and the HTTP control plane
// that feeds it are external collaborators, out of scope for this module.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/deplai/scanctl/callback"
	"github.com/deplai/scanctl/core"
	"github.com/deplai/scanctl/intelligence"
	"github.com/deplai/scanctl/lifecycle"
	"github.com/deplai/scanctl/orchestration"
	"github.com/deplai/scanctl/scoring"
	"github.com/deplai/scanctl/telemetry"
	"github.com/google/uuid"
)

func main() {
	logger := telemetry.NewLogger("scanworker")

	var input core.RunInput
	if err := json.NewDecoder(os.Stdin).Decode(&input); err != nil {
		logger.Error("failed to decode run input", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	if input.RunID == "" {
		input.RunID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	telem, shutdown, err := telemetry.NewTelemetry("scanworker")
	if err != nil {
		logger.Warn("telemetry disabled", map[string]interface{}{"error": err.Error()})
		telem = nil
	}
	if telem != nil {
		defer shutdown(ctx)
	}

	orch := orchestration.New(
		orchestration.WithLogger(logger),
		withTelemetryOption(telem),
	)

	result, err := orch.Run(ctx, input, nil, nil)
	if err != nil {
		logger.Error("orchestrator rejected input", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	store := lifecycle.NewMemoryStore()
	entities, err := intelligence.Build(ctx, store, result.Findings)
	if err != nil {
		logger.Error("intelligence stage failed", map[string]interface{}{"error": err.Error()})
	} else {
		result.Entities = entities
		result.Summary = scoring.Summarize(result.Findings, entities, 10)
	}

	if input.CallbackURL != "" {
		callback.New(logger).Post(ctx, input.CallbackURL, result)
	}

	writeResult(os.Stdout, result)
}

func withTelemetryOption(t *telemetry.Telemetry) orchestration.Option {
	if t == nil {
		return func(*orchestration.Orchestrator) {}
	}
	return orchestration.WithTelemetry(t)
}

func writeResult(w io.Writer, result core.RunResult) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}
