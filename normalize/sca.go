package normalize

import (
	"fmt"
	"strings"

	"github.com/deplai/scanctl/analyzers"
	"github.com/deplai/scanctl/core"
)

// keywordSeverity maps vulnerability-description keywords to a severity
// when the tool does not carry one of its own.
var criticalKeywords = []string{"rce", "authentication bypass", "privilege escalation"}
var highKeywords = []string{"dos", "sql injection", "command injection"}

func severityFromKeywords(text string) core.Severity {
	lower := strings.ToLower(text)
	for _, k := range criticalKeywords {
		if strings.Contains(lower, k) {
			return core.SeverityCritical
		}
	}
	for _, k := range highKeywords {
		if strings.Contains(lower, k) {
			return core.SeverityHigh
		}
	}
	return core.SeverityMedium
}

// SCA converts an SCA tool's decoded matches into canonical Findings.
// Fingerprints are computed on (cve_id, package, installed_version) so
// Grype-like and OSV-like backends agree on identity regardless of which
// one produced the match.
func SCA(tool string, out analyzers.SCAOutput) []core.Finding {
	findings := make([]core.Finding, 0, len(out.Matches))

	for _, m := range out.Matches {
		vulnID := m.Vulnerability.ID
		if vulnID == "" {
			vulnID = "UNKNOWN"
		}

		pkg := m.Artifact.Name
		version := m.Artifact.Version

		severity := normalizeSeverity(m.Vulnerability.Severity, "")
		if severity == "" {
			severity = severityFromKeywords(vulnID)
		}

		filePath := "unknown"
		if len(m.Artifact.Locations) > 0 {
			filePath = m.Artifact.Locations[0].Path
		}

		fp := core.SCAFingerprint(tool, vulnID, pkg, version)

		findings = append(findings, core.Finding{
			Category:    core.CategorySCA,
			Tool:        tool,
			RuleID:      vulnID,
			Title:       fmt.Sprintf("%s (%s) has %s", pkg, version, vulnID),
			Severity:    severity,
			Confidence:  core.ConfidenceHigh,
			File:        filePath,
			Fingerprint: fp,
			Occurrences: 1,
			Evidence: map[string]interface{}{
				"package":      pkg,
				"version":      version,
				"type":         m.Artifact.Type,
				"fix_versions": m.Vulnerability.Fix.Versions,
			},
		})
	}

	return findings
}
