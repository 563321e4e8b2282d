package eventsink

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jroosing/forge/internal/probe"
)

func openTestSink(t *testing.T) *SQLiteSink {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBucketsEmptyWithoutEvents(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	buckets, err := s.Buckets(ctx, []string{"api"}, time.Hour)
	require.NoError(t, err)
	require.Len(t, buckets["api"], BucketCount)
	for _, b := range buckets["api"] {
		require.Equal(t, BucketGray, b)
	}
}

func TestSingleRecentSuccessOnlyAgesFirstBucket(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	at := time.Now().Add(-59 * time.Minute)
	err := s.Append(ctx, "api", probe.Outcome{IsUp: true}, at)
	require.NoError(t, err)

	buckets, err := s.Buckets(ctx, []string{"api"}, time.Hour)
	require.NoError(t, err)
	require.Equal(t, BucketGreen, buckets["api"][0])
	for i := 1; i < BucketCount; i++ {
		require.Equalf(t, BucketGray, buckets["api"][i], "bucket %d", i)
	}
}

func TestMixedOutcomesYieldYellow(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	at := time.Now().Add(-59 * time.Minute)
	require.NoError(t, s.Append(ctx, "api", probe.Outcome{IsUp: true}, at))
	require.NoError(t, s.Append(ctx, "api", probe.Outcome{IsUp: false}, at.Add(30*time.Second)))

	buckets, err := s.Buckets(ctx, []string{"api"}, time.Hour)
	require.NoError(t, err)
	require.Equal(t, BucketYellow, buckets["api"][0])
}

func TestAllFailedYieldsRed(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	at := time.Now().Add(-59 * time.Minute)
	require.NoError(t, s.Append(ctx, "api", probe.Outcome{IsUp: false}, at))

	buckets, err := s.Buckets(ctx, []string{"api"}, time.Hour)
	require.NoError(t, err)
	require.Equal(t, BucketRed, buckets["api"][0])
}

func TestBucketsMultipleNames(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "api", probe.Outcome{IsUp: true}, time.Now().Add(-time.Minute)))
	require.NoError(t, s.Append(ctx, "db", probe.Outcome{IsUp: false}, time.Now().Add(-time.Minute)))

	buckets, err := s.Buckets(ctx, []string{"api", "db"}, time.Hour)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	require.Equal(t, BucketGreen, buckets["api"][BucketCount-1])
	require.Equal(t, BucketRed, buckets["db"][BucketCount-1])
}

func TestNormalizeRangeFallsBackToOneHour(t *testing.T) {
	require.Equal(t, time.Hour, NormalizeRange(17*time.Minute))
	require.Equal(t, 24*time.Hour, NormalizeRange(24*time.Hour))
}
