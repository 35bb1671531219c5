// Package entity groups deduplicated findings into FindingEntity records,
// performs bounded cross-category semantic merging, and collapses
// per-dependency SCA entities.
package entity

import "github.com/deplai/scanctl/core"

// Build groups findings by entity signature (SHA256 of
// category|tool|rule_id|file); each bucket becomes one FindingEntity that
// inherits its first signal's category/severity/confidence.
func Build(findings []core.Finding) []core.FindingEntity {
	buckets := map[string]*core.FindingEntity{}
	var order []string

	for _, f := range findings {
		sig := core.EntitySignature(f.Category, f.Tool, f.RuleID, f.File)
		if e, ok := buckets[sig]; ok {
			e.Signals = append(e.Signals, f)
			continue
		}
		buckets[sig] = &core.FindingEntity{
			EntityID:   sig,
			Title:      f.Title,
			Weakness:   f.RuleID,
			Category:   f.Category,
			Severity:   f.Severity,
			Confidence: f.Confidence,
			Signals:    []core.Finding{f},
		}
		order = append(order, sig)
	}

	out := make([]core.FindingEntity, 0, len(order))
	for _, sig := range order {
		out = append(out, *buckets[sig])
	}
	return out
}
