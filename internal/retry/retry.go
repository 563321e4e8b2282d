// Package retry wraps a single probe attempt with the endpoint's own
// retries/retry_delay policy, short-circuiting on the first success.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/jroosing/forge/internal/config"
	"github.com/jroosing/forge/internal/probe"
)

// Attempt is a single probe primitive: probe.HTTP, probe.TCP, or probe.DNS.
type Attempt func(ctx context.Context, ep config.EndpointConfig, logger *slog.Logger) probe.Outcome

// Run executes attempt up to 1+ep.Retries times, waiting ep.RetryDelay
// seconds between attempts. It returns as soon as an attempt reports
// IsUp, or the outcome of the final attempt if none succeeded. logger is
// passed through to each attempt for check-time envsubst warnings.
func Run(ctx context.Context, ep config.EndpointConfig, logger *slog.Logger, attempt Attempt) probe.Outcome {
	delay := time.Duration(ep.RetryDelay) * time.Second

	var out probe.Outcome
	for try := 0; try <= ep.Retries; try++ {
		out = attempt(ctx, ep, logger)
		if out.IsUp {
			return out
		}

		if try == ep.Retries {
			break
		}
		if delay <= 0 {
			continue
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return out
		case <-timer.C:
		}
	}
	return out
}

// ForType returns the probe primitive matching an endpoint's check type.
func ForType(t config.CheckType) Attempt {
	switch t {
	case config.CheckTCP:
		return probe.TCP
	case config.CheckDNS:
		return probe.DNS
	default:
		return probe.HTTP
	}
}
