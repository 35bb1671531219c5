package normalize

import (
	"strings"

	"github.com/deplai/scanctl/analyzers"
	"github.com/deplai/scanctl/core"
)

// Config converts a ConfigAdapter result into canonical Findings: one
// SYSTEM finding if the request itself failed, else one CONFIG finding per
// missing security header and one AUTH finding per missing cookie flag.
func Config(result analyzers.ConfigCheckResult) []core.Finding {
	if result.RequestFailed {
		return []core.Finding{
			core.SystemFinding("config", "config-request-failed", "Config check failed to reach target", result.BaseURL,
				map[string]interface{}{"error": result.Error}),
		}
	}

	findings := make([]core.Finding, 0, len(analyzers.SecurityHeaders)+2)

	for _, h := range analyzers.SecurityHeaders {
		if _, present := result.Headers[strings.ToLower(h.Header)]; present {
			continue
		}
		findings = append(findings, core.Finding{
			Category:    core.CategoryConfig,
			Tool:        "config",
			RuleID:      "missing-" + strings.ToLower(h.Header),
			Title:       h.Title,
			Severity:    core.SeverityMedium,
			Confidence:  core.ConfidenceHigh,
			File:        result.BaseURL,
			Fingerprint: "config:header:" + strings.ToLower(h.Header) + ":" + result.BaseURL,
			Occurrences: 1,
			Evidence:    map[string]interface{}{"header": h.Header},
		})
	}

	if result.SetCookieRaw != "" {
		lower := strings.ToLower(result.SetCookieRaw)
		if !strings.Contains(lower, "secure") {
			findings = append(findings, cookieFinding(result.BaseURL, "cookie-missing-secure",
				"Session cookie missing Secure flag", result.SetCookieRaw))
		}
		if !strings.Contains(lower, "httponly") {
			findings = append(findings, cookieFinding(result.BaseURL, "cookie-missing-httponly",
				"Session cookie missing HttpOnly flag", result.SetCookieRaw))
		}
	}

	return findings
}

func cookieFinding(base, ruleID, title, setCookie string) core.Finding {
	return core.Finding{
		Category:    core.CategoryAuth,
		Tool:        "config",
		RuleID:      ruleID,
		Title:       title,
		Severity:    core.SeverityMedium,
		Confidence:  core.ConfidenceHigh,
		File:        base,
		Fingerprint: "config:" + ruleID + ":" + base,
		Occurrences: 1,
		Evidence:    map[string]interface{}{"set-cookie": setCookie},
	}
}
