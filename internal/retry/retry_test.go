package retry

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jroosing/forge/internal/config"
	"github.com/jroosing/forge/internal/probe"
)

func TestRunShortCircuitsOnFirstSuccess(t *testing.T) {
	calls := 0
	attempt := func(ctx context.Context, ep config.EndpointConfig, logger *slog.Logger) probe.Outcome {
		calls++
		return probe.Outcome{IsUp: true}
	}

	ep := config.EndpointConfig{Retries: 3, RetryDelay: 0}
	out := Run(context.Background(), ep, nil, attempt)
	require.True(t, out.IsUp)
	require.Equal(t, 1, calls)
}

func TestRunExhaustsRetriesAndReturnsLastOutcome(t *testing.T) {
	calls := 0
	attempt := func(ctx context.Context, ep config.EndpointConfig, logger *slog.Logger) probe.Outcome {
		calls++
		return probe.Outcome{IsUp: false, ErrorKind: probe.ErrorKind("attempt"), ErrorMessage: "fail"}
	}

	ep := config.EndpointConfig{Retries: 2, RetryDelay: 0}
	out := Run(context.Background(), ep, nil, attempt)
	require.False(t, out.IsUp)
	require.Equal(t, 3, calls) // 1 initial + 2 retries
}

func TestRunSucceedsOnSecondAttempt(t *testing.T) {
	calls := 0
	attempt := func(ctx context.Context, ep config.EndpointConfig, logger *slog.Logger) probe.Outcome {
		calls++
		if calls == 2 {
			return probe.Outcome{IsUp: true}
		}
		return probe.Outcome{IsUp: false}
	}

	ep := config.EndpointConfig{Retries: 3, RetryDelay: 0}
	out := Run(context.Background(), ep, nil, attempt)
	require.True(t, out.IsUp)
	require.Equal(t, 2, calls)
}

func TestRunCancellationStopsRetryLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	attempt := func(ctx context.Context, ep config.EndpointConfig, logger *slog.Logger) probe.Outcome {
		calls++
		if calls == 1 {
			cancel()
		}
		return probe.Outcome{IsUp: false}
	}

	ep := config.EndpointConfig{Retries: 5, RetryDelay: 1}
	start := time.Now()
	out := Run(ctx, ep, nil, attempt)
	require.False(t, out.IsUp)
	require.Equal(t, 1, calls)
	require.Less(t, time.Since(start), time.Second)
}

func TestForType(t *testing.T) {
	require.NotNil(t, ForType(config.CheckHTTP))
	require.NotNil(t, ForType(config.CheckTCP))
	require.NotNil(t, ForType(config.CheckDNS))
}
