// Package runner drives a single endpoint's probe on its own cadence:
// retry-wrapped attempt, event-sink append, status-map update, then wait
// for the next tick or cancellation — one goroutine per endpoint,
// grounded on HydraDNS's cluster.Syncer run loop.
package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jroosing/forge/internal/config"
	"github.com/jroosing/forge/internal/eventsink"
	"github.com/jroosing/forge/internal/idgen"
	"github.com/jroosing/forge/internal/retry"
	"github.com/jroosing/forge/internal/statusmap"
)

// Runner owns one endpoint's probing task. Its zero value is not usable;
// construct with New.
type Runner struct {
	endpointID string
	logger     *slog.Logger
	sink       eventsink.Sink
	status     *statusmap.Map

	mu  sync.RWMutex
	cfg config.EndpointConfig

	stopCh chan struct{}
	doneCh chan struct{}
}

// New constructs a Runner for ep. It does not start probing until Start
// is called.
func New(ep config.EndpointConfig, sink eventsink.Sink, status *statusmap.Map, logger *slog.Logger) *Runner {
	return &Runner{
		endpointID: idgen.DeriveID(ep.Name),
		logger:     logger.With("endpoint", ep.Name),
		sink:       sink,
		status:     status,
		cfg:        ep,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Sweep runs one retry-wrapped probe tick synchronously, without touching
// the runner's ticking loop. Used for the initial sweep and for
// re-sweeping endpoints during reconciliation.
func (r *Runner) Sweep(ctx context.Context) {
	r.probeOnce(ctx)
}

// Start launches the runner's periodic probing loop in its own
// goroutine. Calling Start more than once is a programmer error.
func (r *Runner) Start(ctx context.Context) {
	go r.runLoop(ctx)
}

// Stop signals the runner to exit and blocks until its goroutine has
// returned.
func (r *Runner) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// Config returns the endpoint configuration this runner currently uses.
func (r *Runner) Config() config.EndpointConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

func (r *Runner) runLoop(ctx context.Context) {
	defer close(r.doneCh)

	for {
		interval := time.Duration(r.Config().Interval) * time.Second
		timer := time.NewTimer(interval)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-r.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			r.probeOnce(ctx)
		}
	}
}

func (r *Runner) probeOnce(ctx context.Context) {
	ep := r.Config()
	attempt := retry.ForType(ep.Type)
	out := retry.Run(ctx, ep, r.logger, attempt)

	if err := r.sink.Append(ctx, r.endpointID, out, time.Now()); err != nil {
		r.logger.Warn("append probe event failed", "err", err)
	}

	r.status.Set(ep.Name, out)

	if !out.IsUp {
		r.logger.Warn("probe failed", "error_kind", out.ErrorKind, "message", out.ErrorMessage)
	} else {
		r.logger.Debug("probe succeeded", "response_ms", out.ResponseTimeMs)
	}
}
