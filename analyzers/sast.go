package analyzers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// SASTAdapter invokes a Semgrep-like binary against a workspace.
type SASTAdapter struct {
	Binary string // defaults to "semgrep"
}

// NewSASTAdapter builds a SASTAdapter using the given binary name (empty
// defaults to "semgrep").
func NewSASTAdapter(binary string) *SASTAdapter {
	if binary == "" {
		binary = "semgrep"
	}
	return &SASTAdapter{Binary: binary}
}

// Run executes the SAST tool against repoPath for the given languages.
// Exit 0 means no findings, exit 1 means findings present (not an error),
// exit >=2 is a real execution failure. Empty or invalid JSON output is
// treated defensively as "no findings".
func (a *SASTAdapter) Run(ctx context.Context, repoPath string, languages []string) (SASTOutput, error) {
	if len(languages) == 0 {
		languages = []string{"python"}
	}

	outputPath := filepath.Join(os.TempDir(), fmt.Sprintf("sast-%s.json", uuid.NewString()))
	defer os.Remove(outputPath)

	args := []string{"scan"}
	for _, lang := range languages {
		args = append(args, fmt.Sprintf("--config=p/%s", lang))
	}
	args = append(args, "--json", "--output", outputPath)

	cmd := exec.CommandContext(ctx, a.Binary, args...)
	cmd.Dir = repoPath
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		if exitErr.ExitCode() >= 2 {
			return SASTOutput{}, fmt.Errorf("sast execution failed (exit %d): %s", exitErr.ExitCode(), stderr.String())
		}
		// exit 1: findings present, not an error.
	} else if err != nil {
		return SASTOutput{}, fmt.Errorf("sast execution failed: %w", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil || len(data) == 0 {
		return SASTOutput{}, nil
	}

	var out SASTOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return SASTOutput{}, nil
	}
	return out, nil
}
