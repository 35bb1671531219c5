package analyzers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ConfigAdapter performs a single, safe, non-intrusive HTTPS GET against a
// target to inspect security response headers and cookie flags.
type ConfigAdapter struct {
	Client *http.Client
}

const configUserAgent = "deplai-security-check"

// NewConfigAdapter builds a ConfigAdapter with the spec-mandated 10s
// timeout.
func NewConfigAdapter() *ConfigAdapter {
	return &ConfigAdapter{Client: &http.Client{Timeout: 10 * time.Second}}
}

// Check performs the GET against scheme://host derived from targetURL.
func (a *ConfigAdapter) Check(ctx context.Context, targetURL string) ConfigCheckResult {
	u, err := url.Parse(targetURL)
	if err != nil {
		return ConfigCheckResult{RequestFailed: true, Error: err.Error()}
	}
	base := fmt.Sprintf("%s://%s", u.Scheme, u.Host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return ConfigCheckResult{BaseURL: base, RequestFailed: true, Error: err.Error()}
	}
	req.Header.Set("User-Agent", configUserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return ConfigCheckResult{BaseURL: base, RequestFailed: true, Error: err.Error()}
	}
	defer resp.Body.Close()

	headers := make(map[string]string, len(resp.Header))
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[strings.ToLower(k)] = v[0]
		}
	}

	return ConfigCheckResult{
		BaseURL:      base,
		Headers:      headers,
		SetCookieRaw: resp.Header.Get("Set-Cookie"),
	}
}

// SecurityHeaders is the fixed set of response headers the config check
// inspects, with the human-readable finding title for each.
var SecurityHeaders = []struct {
	Header string
	Title  string
}{
	{"Content-Security-Policy", "Missing CSP header"},
	{"Strict-Transport-Security", "Missing HSTS header"},
	{"X-Frame-Options", "Missing X-Frame-Options header"},
	{"X-Content-Type-Options", "Missing X-Content-Type-Options header"},
	{"Referrer-Policy", "Missing Referrer-Policy header"},
}
