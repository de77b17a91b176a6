package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/hitdiff/packages/http"
)

// WaitForConfig describes a readiness probe polled before a run.
type WaitForConfig struct {
	URL      string
	Status   int
	Timeout  time.Duration
	Interval time.Duration
}

// WaitFor polls cfg.URL until it returns the expected status code or the
// timeout expires.
func (r *Runner) WaitFor(ctx context.Context, cfg *WaitForConfig) error {
	if cfg == nil || cfg.URL == "" {
		return nil
	}

	status := cfg.Status
	if status == 0 {
		status = 200
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	r.logger.Info("waiting for service", "url", cfg.URL, "status", status, "timeout", cfg.Timeout)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var lastErr error
	var lastStatus int

	for {
		resp, err := r.transport.Do(ctx, http.NewRequest("GET", cfg.URL))
		if err != nil {
			if ctx.Err() == nil {
				lastErr = err
			}
		} else {
			lastErr = nil
			lastStatus = resp.StatusCode
			if resp.StatusCode == status {
				r.logger.Info("service is ready", "url", cfg.URL, "status", resp.StatusCode)
				return nil
			}
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("service %s not ready after %v: %w", cfg.URL, cfg.Timeout, lastErr)
			}
			return fmt.Errorf("service %s not ready after %v: got status %d, expected %d",
				cfg.URL, cfg.Timeout, lastStatus, status)
		case <-time.After(interval):
		}
	}
}
