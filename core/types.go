// Package core defines the canonical data model shared by every stage of
// the scan pipeline: findings, fingerprints, execution plans, scope policy
// and agent context.
package core

import "time"

// Category enumerates the analyzer families a Finding can originate from.
type Category string

const (
	CategorySAST   Category = "SAST"
	CategorySCA    Category = "SCA"
	CategoryDAST   Category = "DAST"
	CategoryConfig Category = "CONFIG"
	CategoryAuth   Category = "AUTH"
	CategorySystem Category = "SYSTEM"
	CategoryMulti  Category = "MULTI"
)

// Severity enumerates the fixed severity set.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Less reports whether severity a ranks below severity b.
func (s Severity) Less(o Severity) bool {
	return severityRank[s] < severityRank[o]
}

// Confidence enumerates the fixed confidence set.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Finding is one raw signal reported by a single analyzer invocation.
type Finding struct {
	Category    Category               `json:"category"`
	Tool        string                 `json:"tool"`
	RuleID      string                 `json:"rule_id"`
	Title       string                 `json:"title"`
	Severity    Severity               `json:"severity"`
	Confidence  Confidence             `json:"confidence"`
	File        string                 `json:"file"`
	Line        int                    `json:"line,omitempty"`
	Fingerprint string                 `json:"fingerprint"`
	Occurrences int                    `json:"occurrences"`
	Evidence    map[string]interface{} `json:"evidence,omitempty"`
}

// Limits bounds the resources a single scan run may consume.
type Limits struct {
	MaxRuntimeSeconds int `json:"max_runtime_seconds"`
	MaxRequests       int `json:"max_requests"`
}

// ExecutionPlan is the immutable set of flags and limits a scan is
// authorized to run under, once the Gatekeeper has clamped it.
type ExecutionPlan struct {
	RunSAST bool   `json:"run_sast"`
	RunSCA  bool   `json:"run_sca"`
	RunDAST bool   `json:"run_dast"`
	Reason  string `json:"reason"`
	Limits  Limits `json:"limits"`
}

// AgentContext is the safe metadata the Planner consumes. It never carries
// source code or secrets.
type AgentContext struct {
	Repo               string   `json:"repo"`
	Languages          []string `json:"languages"`
	Frameworks         []string `json:"frameworks"`
	Dependencies       []string `json:"dependencies"`
	IsPR               bool     `json:"is_pr"`
	ChangedFiles       []string `json:"changed_files"`
	HasPublicEndpoint  bool     `json:"has_public_endpoint"`
}

// ScopePolicy is the immutable allowlist and hard-ceiling configuration a
// run is evaluated against.
type ScopePolicy struct {
	AllowedRepoPrefixes []string `yaml:"allowed_repo_prefixes" json:"allowed_repo_prefixes"`
	AllowedDASTHosts    []string `yaml:"allowed_dast_hosts" json:"allowed_dast_hosts"`
	AllowedSchemes      []string `yaml:"allowed_schemes" json:"allowed_schemes"`
	MaxRequests         int      `yaml:"max_requests" json:"max_requests"`
	MaxRuntimeSeconds   int      `yaml:"max_runtime_seconds" json:"max_runtime_seconds"`
	SafeMode            bool     `yaml:"safe_mode" json:"safe_mode"`
}

// DefaultScopePolicy returns the safe default scope the orchestrator
// constructs when the caller supplies none: localhost only.
func DefaultScopePolicy() *ScopePolicy {
	return &ScopePolicy{
		AllowedRepoPrefixes: nil,
		AllowedDASTHosts:    []string{"localhost", "127.0.0.1"},
		AllowedSchemes:      []string{"http", "https"},
		MaxRequests:         200,
		MaxRuntimeSeconds:   300,
		SafeMode:            true,
	}
}

// FindingEntity is a grouped view over one or more Findings representing a
// single security issue, enriched with lifecycle, exploitability, risk and
// SLA fields.
type FindingEntity struct {
	EntityID       string     `json:"entity_id"`
	Title          string     `json:"title"`
	Weakness       string     `json:"weakness"`
	Category       Category   `json:"category"`
	Severity       Severity   `json:"severity"`
	Confidence     Confidence `json:"confidence"`
	Exploitability float64    `json:"exploitability"`
	RiskScore      int        `json:"risk_score"`
	SLADays        int        `json:"sla_days"`
	Signals        []Finding  `json:"signals"`

	FirstSeen  time.Time `json:"first_seen"`
	LastSeen   time.Time `json:"last_seen"`
	TimesSeen  int       `json:"times_seen"`
	Resurfaced bool      `json:"resurfaced"`
}

// RunStatus enumerates the three exit statuses a pipeline invocation can
// report.
type RunStatus string

const (
	StatusCompleted RunStatus = "completed"
	StatusBlocked   RunStatus = "blocked"
	StatusFailed    RunStatus = "failed"
)

// DASTInput carries the optional dynamic-analysis target.
type DASTInput struct {
	TargetURL string            `json:"target_url,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// RunInput is the orchestrator's input envelope, see §6 of the
// specification.
type RunInput struct {
	RunID        string    `json:"run_id"`
	RepoPath     string    `json:"repo_path,omitempty"`
	Languages    []string  `json:"languages,omitempty"`
	Frameworks   []string  `json:"frameworks,omitempty"`
	Dependencies []string  `json:"dependencies,omitempty"`
	IsPR         bool      `json:"is_pr,omitempty"`
	ChangedFiles []string  `json:"changed_files,omitempty"`
	DAST         DASTInput `json:"dast,omitempty"`
	CallbackURL  string    `json:"callback_url,omitempty"`
}

// Summary is a roll-up of the scored entities, supplementing the core
// schema with the triage view the original implementation produced.
type Summary struct {
	TotalFindings int                `json:"total_findings"`
	TotalEntities int                `json:"total_entities"`
	ByCategory    map[Category]int   `json:"by_category"`
	TopByRisk     []FindingEntity    `json:"top_by_risk,omitempty"`
}

// RunResult is the orchestrator's output envelope.
type RunResult struct {
	RunID    string          `json:"run_id"`
	Status   RunStatus       `json:"status"`
	Tools    []string        `json:"tools"`
	Findings []Finding       `json:"findings"`
	Entities []FindingEntity `json:"entities,omitempty"`
	Summary  *Summary        `json:"summary,omitempty"`
}
