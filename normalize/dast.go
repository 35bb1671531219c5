package normalize

import (
	"net/url"
	"strings"

	"github.com/deplai/scanctl/analyzers"
	"github.com/deplai/scanctl/core"
)

// DAST converts a DAST tool's decoded JSONL records into canonical
// Findings. Severity defaults to MEDIUM when the tool omits or mis-states
// it.
func DAST(tool string, records []analyzers.DASTRecord) []core.Finding {
	findings := make([]core.Finding, 0, len(records))

	for _, r := range records {
		if r.MatchedAt == "" {
			continue
		}

		host := r.Host
		path := "/"
		if u, err := url.Parse(r.MatchedAt); err == nil {
			if u.Hostname() != "" {
				host = u.Hostname()
			}
			if u.Path != "" {
				path = u.Path
			}
		}

		templateID := r.TemplateID
		if templateID == "" {
			templateID = "unknown-template"
		}

		fp := core.DASTFingerprint(tool, templateID, host, path, "")

		evidence := map[string]interface{}{
			"url":    r.MatchedAt,
			"method": firstNonEmpty(r.Type, "http"),
			"path":   path,
		}
		if r.Response.Status != 0 {
			evidence["status_code"] = r.Response.Status
		}
		if ct, ok := r.Response.Headers["Content-Type"]; ok {
			evidence["content_type"] = ct
		}

		findings = append(findings, core.Finding{
			Category:    core.CategoryDAST,
			Tool:        tool,
			RuleID:      templateID,
			Title:       firstNonEmpty(r.Info.Name, templateID),
			Severity:    normalizeSeverity(r.Info.Severity, core.SeverityMedium),
			Confidence:  core.ConfidenceHigh,
			File:        path,
			Fingerprint: fp,
			Occurrences: 1,
			Evidence:    evidence,
		})
	}

	return findings
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
