package eventsink

import (
	"context"
	"time"

	"github.com/jroosing/forge/internal/probe"
)

// NoopSink discards every event and answers every bucket query with all
// buckets gray. It backs forge when no database is configured.
type NoopSink struct{}

// NewNoop returns a Sink that persists nothing.
func NewNoop() *NoopSink { return &NoopSink{} }

func (n *NoopSink) Append(ctx context.Context, endpointID string, out probe.Outcome, at time.Time) error {
	return nil
}

func (n *NoopSink) Buckets(ctx context.Context, names []string, rng time.Duration) (map[string][]BucketStatus, error) {
	empty := make([]BucketStatus, BucketCount)
	for i := range empty {
		empty[i] = BucketGray
	}
	out := make(map[string][]BucketStatus, len(names))
	for _, name := range names {
		bucketsCopy := make([]BucketStatus, BucketCount)
		copy(bucketsCopy, empty)
		out[name] = bucketsCopy
	}
	return out, nil
}

func (n *NoopSink) Close() error { return nil }
