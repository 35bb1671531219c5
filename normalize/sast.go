// Package normalize maps each analyzer's raw JSON/JSONL output into the
// canonical core.Finding schema. Every function here is a pure function of
// its input: no I/O, no outbound requests, no reading of the source tree
// beyond what the analyzer already reported.
package normalize

import (
	"strings"

	"github.com/deplai/scanctl/analyzers"
	"github.com/deplai/scanctl/core"
)

var validSeverities = map[string]core.Severity{
	"LOW": core.SeverityLow, "MEDIUM": core.SeverityMedium,
	"HIGH": core.SeverityHigh, "CRITICAL": core.SeverityCritical,
}

func normalizeSeverity(raw string, fallback core.Severity) core.Severity {
	if s, ok := validSeverities[strings.ToUpper(raw)]; ok {
		return s
	}
	return fallback
}

// SAST converts a SAST tool's decoded JSON output into canonical Findings.
func SAST(tool string, out analyzers.SASTOutput) []core.Finding {
	findings := make([]core.Finding, 0, len(out.Results))

	for _, r := range out.Results {
		ruleID := r.CheckID
		if ruleID == "" {
			ruleID = "unknown-rule"
		}

		evidence := RedactEvidence(map[string]interface{}{
			"code":       r.Extra.Lines,
			"message":    r.Extra.Message,
			"line_start": r.Start.Line,
			"line_end":   r.End.Line,
		})

		fp := core.SASTFingerprint(tool, ruleID, r.Path, r.Extra.Lines)

		findings = append(findings, core.Finding{
			Category:    core.CategorySAST,
			Tool:        tool,
			RuleID:      ruleID,
			Title:       r.Extra.Message,
			Severity:    normalizeSeverity(r.Extra.Severity, core.SeverityMedium),
			Confidence:  core.ConfidenceHigh,
			File:        r.Path,
			Line:        r.Start.Line,
			Fingerprint: fp,
			Occurrences: 1,
			Evidence:    evidence,
		})
	}

	return findings
}
