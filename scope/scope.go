// Package scope implements the immutable allowlist checks the orchestrator
// runs before touching a repository or a live target.
package scope

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/deplai/scanctl/core"
	"gopkg.in/yaml.v3"
)

// Violation describes why a scope check rejected a target.
type Violation struct {
	Reason string
}

func (v *Violation) Error() string { return v.Reason }

// Is lets errors.Is match against core.ErrScopeViolation.
func (v *Violation) Unwrap() error { return core.ErrScopeViolation }

func violation(format string, args ...interface{}) *Violation {
	return &Violation{Reason: fmt.Sprintf(format, args...)}
}

// PolicyFromYAML loads a ScopePolicy from a YAML allowlist file, the way an
// operator would author one for a deployment.
func PolicyFromYAML(path string) (*core.ScopePolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewPipelineError("scope.PolicyFromYAML", "config", err)
	}
	var p core.ScopePolicy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, core.NewPipelineError("scope.PolicyFromYAML", "config", err)
	}
	if len(p.AllowedSchemes) == 0 {
		p.AllowedSchemes = []string{"http", "https"}
	}
	return &p, nil
}

// ValidateRepoScope rejects a repo path/URL that is not covered by any
// allowed prefix. An empty prefix list means no repo is in scope.
func ValidateRepoScope(repoPath string, policy *core.ScopePolicy) error {
	if len(policy.AllowedRepoPrefixes) == 0 {
		return violation("no repo prefixes are allowed by scope policy")
	}
	for _, prefix := range policy.AllowedRepoPrefixes {
		if strings.HasPrefix(repoPath, prefix) {
			return nil
		}
	}
	return violation("repo_path %q is not covered by any allowed prefix", repoPath)
}

// ValidateTargetURL rejects a DAST target whose scheme is not allowed or
// whose host is neither exactly nor suffix-matched by an allowed DAST host.
func ValidateTargetURL(target string, policy *core.ScopePolicy) error {
	u, err := url.Parse(target)
	if err != nil {
		return violation("target_url %q is not a valid URL", target)
	}
	if !containsFold(policy.AllowedSchemes, u.Scheme) {
		return violation("scheme %q is not in allowed_schemes", u.Scheme)
	}
	host := u.Hostname()
	if !hostAllowed(host, policy.AllowedDASTHosts) {
		return violation("host %q is not covered by any allowed DAST host", host)
	}
	return nil
}

func hostAllowed(host string, allowed []string) bool {
	host = strings.ToLower(host)
	for _, a := range allowed {
		a = strings.ToLower(a)
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	v = strings.ToLower(v)
	for _, item := range list {
		if strings.ToLower(item) == v {
			return true
		}
	}
	return false
}
