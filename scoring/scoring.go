// Package scoring computes exploitability, risk score and SLA for a
// FindingEntity, and produces the run-level triage summary.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/deplai/scanctl/core"
)

var severityWeight = map[core.Severity]float64{
	core.SeverityLow:      1,
	core.SeverityMedium:   2,
	core.SeverityHigh:     3,
	core.SeverityCritical: 4,
}

var confidenceWeight = map[core.Confidence]float64{
	core.ConfidenceLow:    1,
	core.ConfidenceMedium: 2,
	core.ConfidenceHigh:   3,
}

// Enrich sets Exploitability on e in place: 0.4 for any runtime (DAST)
// signal, 0.3 for any signal whose file mentions "http", 0.3 if the
// entity's severity is HIGH or CRITICAL, clamped to 1.0.
func Enrich(e *core.FindingEntity) {
	runtime := false
	internet := false
	for _, s := range e.Signals {
		if s.Category == core.CategoryDAST {
			runtime = true
		}
		if strings.Contains(s.File, "http") {
			internet = true
		}
	}

	exploitability := 0.0
	if runtime {
		exploitability += 0.4
	}
	if internet {
		exploitability += 0.3
	}
	if e.Severity == core.SeverityHigh || e.Severity == core.SeverityCritical {
		exploitability += 0.3
	}

	e.Exploitability = math.Min(exploitability, 1.0)
}

// Score sets RiskScore and SLADays on e in place, following
// risk = round(severity_weight * confidence_weight * (1 + exploitability) * 10).
func Score(e *core.FindingEntity) {
	sw := severityWeight[e.Severity]
	if sw == 0 {
		sw = 1
	}
	cw := confidenceWeight[e.Confidence]
	if cw == 0 {
		cw = 1
	}

	risk := sw * cw * (1 + e.Exploitability) * 10
	e.RiskScore = int(math.Round(risk))

	switch {
	case e.RiskScore >= 80:
		e.SLADays = 7
	case e.RiskScore >= 60:
		e.SLADays = 14
	case e.RiskScore >= 40:
		e.SLADays = 30
	default:
		e.SLADays = 90
	}
}

// Summarize produces the run-level triage roll-up: counts by severity-
// weighted category and the top-N entities by risk score.
func Summarize(findings []core.Finding, entities []core.FindingEntity, topN int) *core.Summary {
	byCategory := map[core.Category]int{}
	for _, e := range entities {
		byCategory[e.Category]++
	}

	sorted := make([]core.FindingEntity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RiskScore > sorted[j].RiskScore
	})
	if topN > len(sorted) {
		topN = len(sorted)
	}

	return &core.Summary{
		TotalFindings: len(findings),
		TotalEntities: len(entities),
		ByCategory:    byCategory,
		TopByRisk:     sorted[:topN],
	}
}
