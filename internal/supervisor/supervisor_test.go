package supervisor

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jroosing/forge/internal/config"
	"github.com/jroosing/forge/internal/eventsink"
	"github.com/jroosing/forge/internal/statusmap"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tcpEndpoint(name string) config.EndpointConfig {
	return config.EndpointConfig{
		Name: name, Type: config.CheckTCP, Addr: "127.0.0.1:1",
		Timeout: 1, Interval: 3600,
	}
}

func TestStartPopulatesStatusMapBeforeReturning(t *testing.T) {
	status := statusmap.New()
	sink := eventsink.NewNoop()
	loadCalls := 0
	load := func() (*config.Config, error) {
		loadCalls++
		return &config.Config{Endpoints: map[string]config.EndpointConfig{}}, nil
	}

	s := New(load, sink, status, discardLogger())
	initial := &config.Config{
		Server: config.ServerConfig{ReloadConfigInterval: 0},
		Endpoints: map[string]config.EndpointConfig{
			"a": tcpEndpoint("a"),
			"b": tcpEndpoint("b"),
		},
	}

	require.NoError(t, s.Start(context.Background(), initial))
	defer s.Stop()

	require.Equal(t, 2, status.Len())
	require.Equal(t, 2, s.RunnerCount())
}

func TestTriggerReloadAddsAndRemoves(t *testing.T) {
	status := statusmap.New()
	sink := eventsink.NewNoop()

	current := map[string]config.EndpointConfig{
		"b": tcpEndpoint("b"),
		"c": tcpEndpoint("c"),
	}
	load := func() (*config.Config, error) {
		return &config.Config{Endpoints: current}, nil
	}

	s := New(load, sink, status, discardLogger())
	initial := &config.Config{
		Server: config.ServerConfig{ReloadConfigInterval: 0},
		Endpoints: map[string]config.EndpointConfig{
			"a": tcpEndpoint("a"),
			"b": tcpEndpoint("b"),
		},
	}
	require.NoError(t, s.Start(context.Background(), initial))
	defer s.Stop()

	accepted := s.TriggerReload()
	require.True(t, accepted)

	require.Eventually(t, func() bool {
		_, hasC := s.Snapshot()["c"]
		return hasC && s.RunnerCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	snap := s.Snapshot()
	_, hasA := snap["a"]
	_, hasC := snap["c"]
	require.False(t, hasA)
	require.True(t, hasC)

	require.Eventually(t, func() bool {
		_, ok := status.Get("a")
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTriggerReloadCoalescesWhilePending(t *testing.T) {
	status := statusmap.New()
	sink := eventsink.NewNoop()
	blockLoad := make(chan struct{})
	load := func() (*config.Config, error) {
		<-blockLoad
		return &config.Config{Endpoints: map[string]config.EndpointConfig{"a": tcpEndpoint("a")}}, nil
	}

	s := New(load, sink, status, discardLogger())
	initial := &config.Config{
		Server:    config.ServerConfig{ReloadConfigInterval: 0},
		Endpoints: map[string]config.EndpointConfig{"a": tcpEndpoint("a")},
	}
	require.NoError(t, s.Start(context.Background(), initial))
	defer func() {
		close(blockLoad)
		s.Stop()
	}()

	require.True(t, s.TriggerReload())
	time.Sleep(10 * time.Millisecond) // allow the loop to pick up the first signal
	require.True(t, s.TriggerReload())
	require.False(t, s.TriggerReload())
}

// TestReconcileDoesNotBlockOnInFlightProbe guards against holding the
// supervisor's write lock across a runner's Stop(), which waits for an
// in-flight probe to finish (up to the endpoint's full retry/timeout
// budget). Other callers (Snapshot, RunnerCount) must stay responsive
// while a removed/changed runner's slow probe is still running.
func TestReconcileDoesNotBlockOnInFlightProbe(t *testing.T) {
	status := statusmap.New()
	sink := eventsink.NewNoop()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	slow := config.EndpointConfig{
		Name: "slow", Type: config.CheckHTTP, Addr: srv.URL, Method: "GET",
		ExpectedStatus: 200, Timeout: 1, Interval: 1, Retries: 0, RetryDelay: 0,
	}

	var current map[string]config.EndpointConfig
	load := func() (*config.Config, error) {
		return &config.Config{Endpoints: current}, nil
	}

	s := New(load, sink, status, discardLogger())
	initial := &config.Config{
		Server:    config.ServerConfig{ReloadConfigInterval: 0},
		Endpoints: map[string]config.EndpointConfig{"slow": slow},
	}
	require.NoError(t, s.Start(context.Background(), initial))
	defer s.Stop()

	// Wait for the runner's periodic loop to begin a second, long-running
	// probe attempt (the first happens synchronously inside Start).
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&hits) >= 2
	}, 3*time.Second, 10*time.Millisecond)

	// Remove "slow" from the next config so reconcile must Stop() its
	// runner while that second probe is still in flight.
	current = map[string]config.EndpointConfig{}
	require.True(t, s.TriggerReload())

	// Give the reload loop a moment to enter reconcile and (in the buggy
	// version) acquire the write lock across runner.Stop().
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.RunnerCount()
		s.Snapshot()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(300 * time.Millisecond):
		t.Fatal("RunnerCount/Snapshot blocked behind reconcile's in-flight runner.Stop()")
	}
}

func TestPartitionFourWay(t *testing.T) {
	old := map[string]config.EndpointConfig{
		"a": tcpEndpoint("a"),
		"b": tcpEndpoint("b"),
	}
	changedB := tcpEndpoint("b")
	changedB.Timeout = 5
	newCfg := map[string]config.EndpointConfig{
		"b": changedB,
		"c": tcpEndpoint("c"),
	}

	removed, added, changed, unchanged := partition(old, newCfg)
	require.Equal(t, []string{"a"}, removed)
	require.Equal(t, []string{"c"}, added)
	require.Equal(t, []string{"b"}, changed)
	require.Empty(t, unchanged)
}

func TestPartitionIdempotentWhenEqual(t *testing.T) {
	old := map[string]config.EndpointConfig{"a": tcpEndpoint("a")}
	newCfg := map[string]config.EndpointConfig{"a": tcpEndpoint("a")}

	removed, added, changed, unchanged := partition(old, newCfg)
	require.Empty(t, removed)
	require.Empty(t, added)
	require.Empty(t, changed)
	require.Equal(t, []string{"a"}, unchanged)
}
