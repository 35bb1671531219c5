package entity

import (
	"strings"

	"github.com/deplai/scanctl/core"
)

var tlsFamily = []string{"tls", "ssl", "cipher", "protocol", "weak-ssl", "weak-cipher"}

var otherFamilies = []string{
	"xss", "sql", "auth", "csrf", "ssrf", "rce", "deserialization", "crypto",
}

// extractTokens pulls normalized weakness-family tokens out of an entity's
// weakness + title text. All TLS variants collapse to the single "tls"
// token.
func extractTokens(e core.FindingEntity) map[string]bool {
	text := strings.ToLower(e.Weakness + " " + e.Title)
	tokens := map[string]bool{}
	for _, t := range tlsFamily {
		if strings.Contains(text, t) {
			tokens["tls"] = true
		}
	}
	for _, t := range otherFamilies {
		if strings.Contains(text, t) {
			tokens[t] = true
		}
	}
	return tokens
}

func sameFamily(a, b core.FindingEntity) bool {
	ta, tb := extractTokens(a), extractTokens(b)
	for t := range ta {
		if tb[t] {
			return true
		}
	}
	return false
}

// SemanticMerge pairwise-merges entities across categories when they share
// at least one weakness family token. A merge promotes the surviving
// entity's category to MULTI and confidence to HIGH.
func SemanticMerge(entities []core.FindingEntity) []core.FindingEntity {
	merged := make([]core.FindingEntity, 0, len(entities))

	for _, ent := range entities {
		matchedIdx := -1
		for i := range merged {
			if sameFamily(ent, merged[i]) && ent.Category != merged[i].Category {
				matchedIdx = i
				break
			}
		}
		if matchedIdx >= 0 {
			merged[matchedIdx].Signals = append(merged[matchedIdx].Signals, ent.Signals...)
			merged[matchedIdx].Category = core.CategoryMulti
			merged[matchedIdx].Confidence = core.ConfidenceHigh
			continue
		}
		merged = append(merged, ent)
	}

	return merged
}
