// Package dedup implements the three-tier deterministic merge engine:
// exact fingerprint, issue-level, then cross-tool SAST/DAST correlation.
package dedup

import (
	"net/url"
	"path"
	"strings"

	"github.com/deplai/scanctl/core"
)

type issueKey struct {
	category core.Category
	tool     string
	ruleID   string
}

var familyTokens = []string{
	"sql", "xss", "auth", "csrf", "ssrf", "rce",
	"command", "deserialization", "tls", "cipher", "crypto",
}

// sameVulnFamily reports whether two findings' rule IDs describe the same
// vulnerability family, either by exact match or by sharing one of the
// fixed family tokens.
func sameVulnFamily(a, b core.Finding) bool {
	if a.RuleID == b.RuleID {
		return true
	}
	ra, rb := strings.ToLower(a.RuleID), strings.ToLower(b.RuleID)
	for _, f := range familyTokens {
		if strings.Contains(ra, f) && strings.Contains(rb, f) {
			return true
		}
	}
	return false
}

// stem extracts the lowercased, extension-stripped last path segment of a
// file path or URL, used for fuzzy cross-category surface matching.
func stem(pathOrURL string) string {
	s := pathOrURL
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if u, err := url.Parse(s); err == nil {
			s = strings.Trim(u.Path, "/")
		}
	}
	base := path.Base(s)
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.ToLower(base)
}

// sameSurface reports whether two findings target the same underlying
// surface: exact file equality within a category, or a matching non-generic
// stem across categories.
func sameSurface(a, b core.Finding) bool {
	if a.Category == b.Category {
		return a.File == b.File
	}
	sa, sb := stem(a.File), stem(b.File)
	return sa == sb && len(sa) > 2 && sa != "index"
}

// merge folds secondary into primary in place, following the spec's merge
// rule: occurrences accumulate, evidence becomes a signals list, and
// crossing categories escalates confidence to HIGH.
func merge(primary *core.Finding, secondary core.Finding) {
	primary.Occurrences += secondary.Occurrences

	signals, ok := primary.Evidence["signals"].([]map[string]interface{})
	if !ok {
		signals = []map[string]interface{}{cloneEvidence(primary.Evidence)}
	}
	signals = append(signals, cloneEvidence(secondary.Evidence))
	if primary.Evidence == nil {
		primary.Evidence = map[string]interface{}{}
	}
	primary.Evidence = map[string]interface{}{"signals": signals}

	if primary.Category != secondary.Category {
		primary.Confidence = core.ConfidenceHigh
	}
}

func cloneEvidence(e map[string]interface{}) map[string]interface{} {
	if e == nil {
		return map[string]interface{}{}
	}
	out := make(map[string]interface{}, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Dedup applies the three deterministic tiers in order and returns the
// merged, canonical-first-ordered finding list. It is idempotent: applying
// it to its own output returns the same multiset.
func Dedup(findings []core.Finding) []core.Finding {
	// Tier 1: exact fingerprint.
	byFingerprint := map[string]*core.Finding{}
	var fpOrder []string
	for _, f := range findings {
		f := f
		if existing, ok := byFingerprint[f.Fingerprint]; ok {
			merge(existing, f)
			continue
		}
		byFingerprint[f.Fingerprint] = &f
		fpOrder = append(fpOrder, f.Fingerprint)
	}

	unique := make([]core.Finding, 0, len(fpOrder))
	for _, fp := range fpOrder {
		unique = append(unique, *byFingerprint[fp])
	}

	// Tier 2: issue-level grouping.
	byIssue := map[issueKey]*core.Finding{}
	var issueOrder []issueKey
	for _, f := range unique {
		f := f
		key := issueKey{f.Category, f.Tool, f.RuleID}
		if existing, ok := byIssue[key]; ok {
			merge(existing, f)
			continue
		}
		byIssue[key] = &f
		issueOrder = append(issueOrder, key)
	}

	issues := make([]core.Finding, 0, len(issueOrder))
	for _, key := range issueOrder {
		issues = append(issues, *byIssue[key])
	}

	// Tier 3: cross-tool SAST/DAST correlation.
	final := make([]core.Finding, 0, len(issues))
	for _, f := range issues {
		mergedInto := -1
		for i := range final {
			if isCrossToolPair(f, final[i]) && sameVulnFamily(f, final[i]) && sameSurface(f, final[i]) {
				mergedInto = i
				break
			}
		}
		if mergedInto >= 0 {
			merge(&final[mergedInto], f)
			continue
		}
		final = append(final, f)
	}

	return final
}

func isCrossToolPair(a, b core.Finding) bool {
	return (a.Category == core.CategorySAST && b.Category == core.CategoryDAST) ||
		(a.Category == core.CategoryDAST && b.Category == core.CategorySAST)
}
