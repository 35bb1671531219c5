package normalize

import "regexp"

// secretPatterns are the best-effort redaction patterns the specification
// mandates at minimum: generic API-key-style assignments and AWS access
// key prefixes.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api_?key|auth_?token|access_?token|secret|password)\s*[:=]\s*['"][a-zA-Z0-9_\-]{8,}['"]`),
	regexp.MustCompile(`(A3T[A-Z0-9]|AKIA|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[A-Z0-9]{16}`),
}

const redactedPlaceholder = "[REDACTED_SECRET]"

func redactText(text string) string {
	for _, p := range secretPatterns {
		text = p.ReplaceAllString(text, redactedPlaceholder)
	}
	return text
}

// RedactEvidence returns a copy of evidence with any "code" or "message"
// string field passed through secret redaction.
func RedactEvidence(evidence map[string]interface{}) map[string]interface{} {
	clean := make(map[string]interface{}, len(evidence))
	for k, v := range evidence {
		clean[k] = v
	}
	if code, ok := clean["code"].(string); ok {
		clean["code"] = redactText(code)
	}
	if msg, ok := clean["message"].(string); ok {
		clean["message"] = redactText(msg)
	}
	return clean
}
