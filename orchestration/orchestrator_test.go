package orchestration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/deplai/scanctl/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakeBinary(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-tool.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func fakeOutputFileBinary(t *testing.T, body string) string {
	return writeFakeBinary(t, `#!/bin/sh
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "--output" ]; then
    out="$arg"
  fi
  prev="$arg"
done
if [ -n "$out" ]; then
  cat > "$out" <<'EOF'
`+body+`
EOF
fi
exit 0
`)
}

func fakeStdoutBinary(t *testing.T, body string) string {
	return writeFakeBinary(t, "#!/bin/sh\ncat <<'EOF'\n"+body+"\nEOF\n")
}

func TestRunRejectsMissingRunID(t *testing.T) {
	o := New()
	_, err := o.Run(context.Background(), core.RunInput{RepoPath: "/workspace/repo"}, nil, nil)
	assert.ErrorIs(t, err, core.ErrMissingRunID)
}

func TestRunRejectsMissingTarget(t *testing.T) {
	o := New()
	_, err := o.Run(context.Background(), core.RunInput{RunID: "run-1"}, nil, nil)
	assert.ErrorIs(t, err, core.ErrMissingTarget)
}

func TestRunBlocksWhenGatekeeperRejectsDAST(t *testing.T) {
	o := New()
	input := core.RunInput{RunID: "run-1", DAST: core.DASTInput{TargetURL: "https://example.com"}}
	plan := &core.ExecutionPlan{RunDAST: true}
	policy := &core.ScopePolicy{AllowedDASTHosts: nil}

	result, err := o.Run(context.Background(), input, plan, policy)
	require.NoError(t, err)
	assert.Equal(t, core.StatusBlocked, result.Status)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "plan-rejected", result.Findings[0].RuleID)
}

func TestRunBlocksOnRepoScopeViolation(t *testing.T) {
	o := New()
	input := core.RunInput{RunID: "run-1", RepoPath: "/etc"}
	plan := &core.ExecutionPlan{}
	policy := &core.ScopePolicy{AllowedRepoPrefixes: []string{"/workspace/"}}

	result, err := o.Run(context.Background(), input, plan, policy)
	require.NoError(t, err)
	assert.Equal(t, core.StatusBlocked, result.Status)
	assert.Equal(t, "repo-scope-violation", result.Findings[0].RuleID)
}

func TestRunCompletesWithFaultIsolatedSAST(t *testing.T) {
	repoDir := t.TempDir()
	failingBinary := writeFakeBinary(t, "#!/bin/sh\nexit 2\n")

	o := New(WithSASTBinary(failingBinary))
	input := core.RunInput{RunID: "run-1", RepoPath: repoDir, Languages: []string{"python"}}
	plan := &core.ExecutionPlan{RunSAST: true}
	policy := &core.ScopePolicy{AllowedRepoPrefixes: []string{repoDir}}

	result, err := o.Run(context.Background(), input, plan, policy)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, result.Status, "a failed analyzer stage degrades to a SYSTEM finding, not a failed run")
	require.Len(t, result.Findings, 1)
	assert.Equal(t, core.CategorySystem, result.Findings[0].Category)
	assert.Equal(t, "semgrep-execution-error", result.Findings[0].RuleID)
	assert.Contains(t, result.Tools, "semgrep-error")
}

func TestRunFullPipelineWithSASTAndSCA(t *testing.T) {
	repoDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "requirements.txt"), []byte("flask==1.0\n"), 0o644))

	sastBin := fakeOutputFileBinary(t, `{"results": [{"check_id": "sql-injection", "path": "app.py", "extra": {"message": "sqli", "severity": "high"}}]}`)
	sbomBin := fakeOutputFileBinary(t, `{"bomFormat": "CycloneDX", "components": []}`)
	scaBin := fakeStdoutBinary(t, `{"matches": [{"vulnerability": {"id": "CVE-2024-1", "severity": "high"}, "artifact": {"name": "flask", "version": "1.0"}}]}`)

	o := New(WithSASTBinary(sastBin), WithSBOMBinary(sbomBin), WithSCABinary(scaBin))
	input := core.RunInput{RunID: "run-1", RepoPath: repoDir, Languages: []string{"python"}}
	plan := &core.ExecutionPlan{RunSAST: true, RunSCA: true}
	policy := &core.ScopePolicy{AllowedRepoPrefixes: []string{repoDir}}

	result, err := o.Run(context.Background(), input, plan, policy)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, result.Status)
	assert.Contains(t, result.Tools, "semgrep")
	assert.Contains(t, result.Tools, "grype")
	require.Len(t, result.Findings, 2)
}
