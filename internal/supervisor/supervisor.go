// Package supervisor owns the set of per-endpoint runners and
// reconciles it against a reloadable configuration, grounded on
// HydraDNS's cluster.Syncer: a ticking loop that also answers a
// manual, coalesced trigger.
package supervisor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jroosing/forge/internal/config"
	"github.com/jroosing/forge/internal/eventsink"
	"github.com/jroosing/forge/internal/runner"
	"github.com/jroosing/forge/internal/statusmap"
)

// maxConcurrentSweeps bounds how many endpoints are probed at once
// during a sweep, so a large fleet doesn't open unbounded sockets.
const maxConcurrentSweeps = 32

// ConfigLoader re-parses configuration from its original source. It is
// the supervisor's only way to learn about configuration changes.
type ConfigLoader func() (*config.Config, error)

// Supervisor owns the runner-handle map, the configuration snapshot,
// and the reload loop that keeps them in sync.
type Supervisor struct {
	load   ConfigLoader
	sink   eventsink.Sink
	status *statusmap.Map
	logger *slog.Logger

	mu          sync.RWMutex
	snapshot    map[string]config.EndpointConfig
	runners     map[string]*runner.Runner
	lastSweepMs int64

	reloadSignal chan struct{}
	cancelLoop   context.CancelFunc
	loopDone     chan struct{}
}

// New constructs a Supervisor. load is invoked on every reload tick to
// re-read configuration from its original source (e.g. a file path).
func New(load ConfigLoader, sink eventsink.Sink, status *statusmap.Map, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		load:         load,
		sink:         sink,
		status:       status,
		logger:       logger,
		snapshot:     make(map[string]config.EndpointConfig),
		runners:      make(map[string]*runner.Runner),
		reloadSignal: make(chan struct{}, 1),
	}
}

// Start performs the synchronous initial sweep, spawns one runner per
// endpoint, and launches the reload loop. It returns once the initial
// sweep has populated the current-status map for every endpoint.
func (s *Supervisor) Start(ctx context.Context, initial *config.Config) error {
	s.mu.Lock()
	for name, ep := range initial.Endpoints {
		s.snapshot[name] = ep
		s.runners[name] = runner.New(ep, s.sink, s.status, s.logger)
	}
	runnersCopy := make([]*runner.Runner, 0, len(s.runners))
	for _, r := range s.runners {
		runnersCopy = append(runnersCopy, r)
	}
	s.mu.Unlock()

	s.sweep(ctx, runnersCopy)

	for _, r := range runnersCopy {
		r.Start(ctx)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancelLoop = cancel
	s.loopDone = make(chan struct{})
	interval := time.Duration(initial.Server.ReloadConfigInterval) * time.Second
	go s.reloadLoop(loopCtx, interval)

	return nil
}

// TriggerReload requests a reconciliation pass. It never blocks: if a
// reload is already queued, this call is a no-op. Returns true iff the
// signal was accepted (not already pending).
func (s *Supervisor) TriggerReload() bool {
	select {
	case s.reloadSignal <- struct{}{}:
		return true
	default:
		return false
	}
}

// Stop halts the reload loop and every runner, waiting for each to exit.
func (s *Supervisor) Stop() {
	if s.cancelLoop != nil {
		s.cancelLoop()
		<-s.loopDone
	}

	s.mu.RLock()
	runnersCopy := make([]*runner.Runner, 0, len(s.runners))
	for _, r := range s.runners {
		runnersCopy = append(runnersCopy, r)
	}
	s.mu.RUnlock()

	for _, r := range runnersCopy {
		r.Stop()
	}
}

func (s *Supervisor) reloadLoop(ctx context.Context, interval time.Duration) {
	defer close(s.loopDone)

	var timerC <-chan time.Time
	var timer *time.Timer
	if interval > 0 {
		timer = time.NewTimer(interval)
		timerC = timer.C
		defer timer.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.reloadSignal:
			s.reconcile(ctx)
		case <-timerC:
			s.reconcile(ctx)
		}
		if timer != nil {
			timer.Reset(interval)
		}
	}
}

// reconcile implements the four-way-partition reload algorithm: it
// re-parses configuration, diffs against the snapshot, applies the diff
// to the runner-handle map and current-status map, releases both locks,
// then re-sweeps every surviving/new endpoint.
func (s *Supervisor) reconcile(ctx context.Context) {
	// generation correlates every log line this reload tick produces;
	// it has no bearing on endpoint identity.
	generation := uuid.NewString()
	logger := s.logger.With("reload_generation", generation)

	newCfg, err := s.load()
	if err != nil {
		logger.Warn("reload: configuration reparse failed, running set unchanged", "err", err)
		return
	}

	s.mu.Lock()
	removed, added, changed, unchanged := partition(s.snapshot, newCfg.Endpoints)

	if len(removed) == 0 && len(added) == 0 && len(changed) == 0 {
		s.mu.Unlock()
		logger.Debug("reload: configuration unchanged, re-sweeping only")
		s.sweepNames(ctx, unchanged)
		return
	}

	// Collect the runners to cancel without waiting for them to exit:
	// Stop() blocks on an in-flight probe (up to the endpoint's full
	// retry/timeout budget), so it must run after the lock is released,
	// mirroring sweep()'s outside-lock pattern.
	toStop := make([]*runner.Runner, 0, len(removed)+len(changed))
	toSweep := make([]*runner.Runner, 0, len(added)+len(changed)+len(unchanged))

	for _, name := range removed {
		if r, ok := s.runners[name]; ok {
			toStop = append(toStop, r)
			delete(s.runners, name)
		}
		s.status.Purge(name)
	}

	for _, name := range changed {
		if r, ok := s.runners[name]; ok {
			toStop = append(toStop, r)
			delete(s.runners, name)
		}
		s.status.Purge(name)
		r := runner.New(newCfg.Endpoints[name], s.sink, s.status, s.logger)
		s.runners[name] = r
		toSweep = append(toSweep, r)
	}

	for _, name := range added {
		r := runner.New(newCfg.Endpoints[name], s.sink, s.status, s.logger)
		s.runners[name] = r
		toSweep = append(toSweep, r)
	}

	for _, name := range unchanged {
		toSweep = append(toSweep, s.runners[name])
	}

	s.snapshot = newCfg.Endpoints
	s.mu.Unlock()

	for _, r := range toStop {
		r.Stop()
	}

	s.sweep(ctx, toSweep)

	for _, name := range append(append([]string{}, added...), changed...) {
		s.mu.RLock()
		r := s.runners[name]
		s.mu.RUnlock()
		if r != nil {
			r.Start(ctx)
		}
	}

	logger.Info("reload: reconciliation complete",
		"removed", len(removed), "added", len(added), "changed", len(changed), "unchanged", len(unchanged))
}

// sweepNames re-sweeps a fixed list of endpoint names by looking up
// their current runner handles under the read lock.
func (s *Supervisor) sweepNames(ctx context.Context, names []string) {
	s.mu.RLock()
	toSweep := make([]*runner.Runner, 0, len(names))
	for _, name := range names {
		if r, ok := s.runners[name]; ok {
			toSweep = append(toSweep, r)
		}
	}
	s.mu.RUnlock()
	s.sweep(ctx, toSweep)
}

// sweep probes every given runner concurrently, bounded by
// maxConcurrentSweeps, and waits for all of them to complete.
func (s *Supervisor) sweep(ctx context.Context, runners []*runner.Runner) {
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSweeps)

	for _, r := range runners {
		r := r
		g.Go(func() error {
			r.Sweep(gctx)
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	s.lastSweepMs = time.Since(start).Milliseconds()
	s.mu.Unlock()
}

// LastSweepDuration returns how long the most recently completed sweep
// took, for the read API's stats endpoint.
func (s *Supervisor) LastSweepDuration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.lastSweepMs) * time.Millisecond
}

// partition computes the four-way set difference between the current
// snapshot and a freshly loaded configuration.
func partition(old, new map[string]config.EndpointConfig) (removed, added, changed, unchanged []string) {
	for name := range old {
		if _, ok := new[name]; !ok {
			removed = append(removed, name)
		}
	}
	for name, newEp := range new {
		oldEp, ok := old[name]
		if !ok {
			added = append(added, name)
			continue
		}
		if oldEp.Equal(newEp) {
			unchanged = append(unchanged, name)
		} else {
			changed = append(changed, name)
		}
	}
	return removed, added, changed, unchanged
}

// Snapshot returns a copy of the current configuration snapshot, for
// diagnostics.
func (s *Supervisor) Snapshot() map[string]config.EndpointConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]config.EndpointConfig, len(s.snapshot))
	for k, v := range s.snapshot {
		out[k] = v
	}
	return out
}

// RunnerCount returns the number of live runner handles.
func (s *Supervisor) RunnerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runners)
}
