package analyzers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// SBOMAdapter generates a CycloneDX JSON SBOM for a repository root.
type SBOMAdapter struct {
	Binary string // defaults to "cyclonedx-py"
}

// NewSBOMAdapter builds an SBOMAdapter (empty binary defaults to
// "cyclonedx-py").
func NewSBOMAdapter(binary string) *SBOMAdapter {
	if binary == "" {
		binary = "cyclonedx-py"
	}
	return &SBOMAdapter{Binary: binary}
}

// Generate produces the SBOM JSON document. Unlike the SAST/DAST adapters,
// a missing or empty output file is a hard failure: the SBOM is a
// prerequisite input to the SCA adapter, not an optional signal.
//
// No CycloneDX parsing library exists anywhere in the reference corpus for
// this module, so the SBOM document is consumed as plain encoding/json —
// see DESIGN.md.
func (a *SBOMAdapter) Generate(ctx context.Context, repoPath string) (map[string]interface{}, error) {
	outputPath := filepath.Join(os.TempDir(), fmt.Sprintf("sbom-%s.json", uuid.NewString()))
	defer os.Remove(outputPath)

	cmd := exec.CommandContext(ctx, a.Binary, "--format", "json", "--output", outputPath, ".")
	cmd.Dir = repoPath
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("sbom generation failed: %w", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		return nil, fmt.Errorf("sbom generation produced no output")
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("sbom generation: reading output: %w", err)
	}

	var sbom map[string]interface{}
	if err := json.Unmarshal(data, &sbom); err != nil {
		return nil, fmt.Errorf("sbom generation: invalid JSON: %w", err)
	}
	return sbom, nil
}

// SCAAdapter consumes an SBOM and returns the vulnerable-package matches a
// Grype/OSV-like binary reports.
type SCAAdapter struct {
	Binary string // defaults to "grype"
}

// NewSCAAdapter builds an SCAAdapter (empty binary defaults to "grype").
func NewSCAAdapter(binary string) *SCAAdapter {
	if binary == "" {
		binary = "grype"
	}
	return &SCAAdapter{Binary: binary}
}

// Scan invokes the SCA tool against the SBOM file at sbomPath.
func (a *SCAAdapter) Scan(ctx context.Context, sbomPath string) (SCAOutput, error) {
	cmd := exec.CommandContext(ctx, a.Binary, fmt.Sprintf("sbom:%s", sbomPath), "-o", "json")
	out, err := cmd.Output()
	if err != nil {
		return SCAOutput{}, fmt.Errorf("sca execution failed: %w", err)
	}

	if len(out) == 0 {
		return SCAOutput{}, nil
	}

	var result SCAOutput
	if err := json.Unmarshal(out, &result); err != nil {
		return SCAOutput{}, nil
	}
	return result, nil
}

// HasRecognizedManifest reports whether repoPath contains a dependency
// manifest the SCA chain knows how to act on. When none is present the
// orchestrator skips SBOM+SCA with a no-op result rather than invoking the
// scanner against an empty tree.
func HasRecognizedManifest(repoPath string) bool {
	candidates := []string{
		"requirements.txt", "Pipfile", "pyproject.toml",
		"package.json", "go.mod", "pom.xml", "Gemfile",
	}
	for _, c := range candidates {
		if _, err := os.Stat(filepath.Join(repoPath, c)); err == nil {
			return true
		}
	}
	return false
}
