package analyzers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DASTAdapter invokes a Nuclei-like binary against a live target.
type DASTAdapter struct {
	Binary  string // defaults to "nuclei"
	Limiter *rate.Limiter
}

// NewDASTAdapter builds a DASTAdapter. maxRequests bounds the request rate
// sent to the target, honoring the ExecutionPlan's limits.max_requests.
func NewDASTAdapter(binary string, maxRequests int) *DASTAdapter {
	if binary == "" {
		binary = "nuclei"
	}
	if maxRequests <= 0 {
		maxRequests = 150
	}
	return &DASTAdapter{Binary: binary, Limiter: rate.NewLimiter(rate.Limit(maxRequests), maxRequests)}
}

// Profile selects the DAST tag/severity set: "ci" uses medium+ severities,
// "deep" additionally enables CVE templates.
type Profile string

const (
	ProfileCI   Profile = "ci"
	ProfileDeep Profile = "deep"
)

// Run executes the DAST tool against targetURL. A non-zero exit is not
// fatal; the JSONL output file is parsed regardless.
func (a *DASTAdapter) Run(ctx context.Context, targetURL string, headers map[string]string, profile Profile) ([]DASTRecord, error) {
	if err := a.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("dast rate limiter: %w", err)
	}

	outputPath := filepath.Join(os.TempDir(), fmt.Sprintf("dast-%s.jsonl", uuid.NewString()))
	defer os.Remove(outputPath)

	severities := "medium,high,critical"
	tags := "cves,misconfig,exposed-panels,auth,xss,sqli,vuln"
	if profile == ProfileDeep {
		severities = "low,medium,high,critical"
	}

	args := []string{
		"-u", targetURL,
		"-jsonl",
		"-severity", severities,
		"-tags", tags,
		"-rate-limit", fmt.Sprintf("%d", int(a.Limiter.Limit())),
		"-timeout", "300",
		"-disable-update-check",
		"-o", outputPath,
	}
	for k, v := range headers {
		args = append(args, "-H", fmt.Sprintf("%s: %s", k, v))
	}

	cmd := exec.CommandContext(ctx, a.Binary, args...)
	_ = cmd.Run() // non-zero exit is not fatal; output file is still parsed.

	f, err := os.Open(outputPath)
	if err != nil {
		return nil, nil
	}
	defer f.Close()

	var records []DASTRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec DASTRecord
		if err := json.Unmarshal(line, &rec); err == nil {
			records = append(records, rec)
		}
	}
	return records, nil
}
