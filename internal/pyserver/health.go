package pyserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// probeTimeout keeps health probes far below the stage operation
	// ceiling so an unresponsive backend fails fast.
	probeTimeout = 5 * time.Second
	// hungThreshold gives the backend headroom to recover from
	// transient spikes before an in-flight request counts as hung.
	hungThreshold = 10 * time.Minute
	// oomMemoryPercent escalates regardless of the declared health
	// field.
	oomMemoryPercent = 90.0
)

// Performance mirrors the status endpoint's performance block.
type Performance struct {
	MemoryUsageMB    float64 `json:"memory_usage_mb"`
	MemoryPercent    float64 `json:"memory_percent"`
	MemoryLimitMB    float64 `json:"memory_limit_mb"`
	ConcurrencyUsed  int     `json:"concurrency_used"`
	ConcurrencyLimit int     `json:"concurrency_limit"`
}

// HealthSnapshot is one fresh reading of the processing service's
// status endpoint. Nothing is cached between probes.
type HealthSnapshot struct {
	Status         string         `json:"status"`
	Health         string         `json:"health"`
	ActiveRequests int            `json:"active_requests"`
	Progress       map[string]any `json:"progress,omitempty"`
	Performance    Performance    `json:"performance"`
	Cache          string         `json:"cache,omitempty"`
}

// CheckHealth probes the status endpoint and classifies the backend.
// requestStart, when non-zero, is the wall-clock start of the stage
// request currently in flight; it feeds hung detection. Transport or
// shape failures on the probe itself classify as unresponsive.
func (c *Client) CheckHealth(ctx context.Context, requestStart time.Time) (HealthSnapshot, error) {
	var snapshot HealthSnapshot

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return snapshot, fmt.Errorf("%w: new request: %v", ErrUnresponsive, err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return snapshot, fmt.Errorf("%w: %v", ErrUnresponsive, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return snapshot, fmt.Errorf("%w: status %s", ErrUnresponsive, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return snapshot, fmt.Errorf("%w: decode status payload: %v", ErrUnresponsive, err)
	}
	if snapshot.Status == "" {
		return snapshot, fmt.Errorf("%w: status payload missing status field", ErrUnresponsive)
	}
	if snapshot.ActiveRequests < 0 {
		return snapshot, fmt.Errorf("%w: negative active_requests %d", ErrUnresponsive, snapshot.ActiveRequests)
	}

	if snapshot.Performance.MemoryPercent >= oomMemoryPercent {
		return snapshot, fmt.Errorf("%w: memory at %.1f%%", ErrOOM, snapshot.Performance.MemoryPercent)
	}

	if !requestStart.IsZero() && snapshot.ActiveRequests > 0 {
		if elapsed := time.Since(requestStart); elapsed > hungThreshold {
			return snapshot, fmt.Errorf("%w: in flight for %s with %d active requests",
				ErrHung, elapsed.Round(time.Second), snapshot.ActiveRequests)
		}
	}

	return snapshot, nil
}
