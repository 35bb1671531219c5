package dedup

import (
	"testing"

	"github.com/deplai/scanctl/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finding(category core.Category, tool, ruleID, file, fingerprint string) core.Finding {
	return core.Finding{
		Category:    category,
		Tool:        tool,
		RuleID:      ruleID,
		Title:       ruleID,
		Severity:    core.SeverityHigh,
		Confidence:  core.ConfidenceMedium,
		File:        file,
		Fingerprint: fingerprint,
		Occurrences: 1,
		Evidence:    map[string]interface{}{"line": 1},
	}
}

func TestDedupTier1ExactFingerprintMerge(t *testing.T) {
	a := finding(core.CategorySAST, "semgrep", "sql-injection", "app.py", "fp-1")
	b := finding(core.CategorySAST, "semgrep", "sql-injection", "app.py", "fp-1")

	out := Dedup([]core.Finding{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Occurrences)
}

func TestDedupTier2IssueLevelMergesAcrossFiles(t *testing.T) {
	a := finding(core.CategorySAST, "semgrep", "sql-injection", "a.py", "fp-a")
	b := finding(core.CategorySAST, "semgrep", "sql-injection", "b.py", "fp-b")

	out := Dedup([]core.Finding{a, b})
	require.Len(t, out, 1, "same category/tool/rule_id collapses regardless of file")
	assert.Equal(t, 2, out[0].Occurrences)
}

func TestDedupPreservesDistinctRules(t *testing.T) {
	a := finding(core.CategorySAST, "semgrep", "sql-injection", "a.py", "fp-a")
	b := finding(core.CategorySAST, "semgrep", "xss", "a.py", "fp-b")

	out := Dedup([]core.Finding{a, b})
	assert.Len(t, out, 2)
}

func TestDedupTier3CrossToolCorrelation(t *testing.T) {
	sast := finding(core.CategorySAST, "semgrep", "sql-injection", "app/login.py", "fp-sast")
	dast := finding(core.CategoryDAST, "nuclei", "sqli-detect", "/login", "fp-dast")

	out := Dedup([]core.Finding{sast, dast})
	require.Len(t, out, 1, "matching vulnerability family and surface across SAST/DAST should correlate")
	assert.Equal(t, core.ConfidenceHigh, out[0].Confidence, "crossing categories escalates confidence to HIGH")
}

func TestDedupTier3DoesNotCorrelateDifferentSurfaces(t *testing.T) {
	sast := finding(core.CategorySAST, "semgrep", "sql-injection", "app/login.py", "fp-sast")
	dast := finding(core.CategoryDAST, "nuclei", "sqli-detect", "/checkout", "fp-dast")

	out := Dedup([]core.Finding{sast, dast})
	assert.Len(t, out, 2)
}

func TestDedupIsIdempotent(t *testing.T) {
	a := finding(core.CategorySAST, "semgrep", "sql-injection", "a.py", "fp-a")
	b := finding(core.CategorySAST, "semgrep", "sql-injection", "b.py", "fp-b")

	once := Dedup([]core.Finding{a, b})
	twice := Dedup(once)
	assert.Equal(t, once, twice)
}
