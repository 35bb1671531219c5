// Package callback POSTs a completed run's result to an external sink when
// the input envelope carries a callback_url. Failure is logged and never
// propagated — the scan result itself is unaffected.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/deplai/scanctl/core"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client posts scan results to a callback URL.
type Client struct {
	httpClient *http.Client
	logger     core.Logger
}

// New builds a Client with the spec-mandated minimum 10s timeout.
func New(logger core.Logger) *Client {
	if logger == nil {
		logger = core.NoOpLogger{}
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// Post sends result as JSON to callbackURL. Any failure is logged and
// swallowed.
func (c *Client) Post(ctx context.Context, callbackURL string, result core.RunResult) {
	if callbackURL == "" {
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("callback: failed to marshal result", map[string]interface{}{"run_id": result.RunID, "error": err.Error()})
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("callback: failed to build request", map[string]interface{}{"run_id": result.RunID, "error": err.Error()})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("callback: request failed", map[string]interface{}{"run_id": result.RunID, "error": err.Error()})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Warn("callback: non-2xx response", map[string]interface{}{
			"run_id": result.RunID, "status": fmt.Sprintf("%d", resp.StatusCode),
		})
	}
}
