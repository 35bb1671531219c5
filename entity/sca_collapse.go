package entity

import "github.com/deplai/scanctl/core"

var severityOrder = map[core.Severity]int{
	core.SeverityLow:      0,
	core.SeverityMedium:   1,
	core.SeverityHigh:     2,
	core.SeverityCritical: 3,
}

func isSCAEntity(e core.FindingEntity) bool {
	for _, s := range e.Signals {
		if s.Category == core.CategorySCA {
			return true
		}
	}
	return false
}

func dependencyKey(e core.FindingEntity) (string, bool) {
	for _, s := range e.Signals {
		if dep, ok := s.Evidence["package"].(string); ok && dep != "" {
			return dep, true
		}
		if s.File != "" {
			return s.File, true
		}
	}
	return "", false
}

// CollapseSCA groups SCA entities by dependency and collapses each group
// into a single entity titled "Outdated dependency: <dep>", keeping the
// highest severity among the group's members and merging every signal in.
// Confidence stays MEDIUM regardless of the group's severities.
func CollapseSCA(entities []core.FindingEntity) []core.FindingEntity {
	groups := map[string][]core.FindingEntity{}
	var groupOrder []string
	nonSCA := make([]core.FindingEntity, 0, len(entities))

	for _, e := range entities {
		if !isSCAEntity(e) {
			nonSCA = append(nonSCA, e)
			continue
		}
		dep, ok := dependencyKey(e)
		if !ok {
			nonSCA = append(nonSCA, e)
			continue
		}
		if _, seen := groups[dep]; !seen {
			groupOrder = append(groupOrder, dep)
		}
		groups[dep] = append(groups[dep], e)
	}

	collapsed := make([]core.FindingEntity, 0, len(groupOrder))
	for _, dep := range groupOrder {
		group := groups[dep]
		if len(group) == 1 {
			collapsed = append(collapsed, group[0])
			continue
		}

		baseIdx := 0
		for i, e := range group {
			if severityOrder[e.Severity] > severityOrder[group[baseIdx].Severity] {
				baseIdx = i
			}
			_ = e
		}
		base := group[baseIdx]
		base.Title = "Outdated dependency: " + dep
		base.Category = core.CategorySCA
		base.Confidence = core.ConfidenceMedium

		for i, e := range group {
			if i == baseIdx {
				continue
			}
			base.Signals = append(base.Signals, e.Signals...)
		}

		collapsed = append(collapsed, base)
	}

	return append(nonSCA, collapsed...)
}
