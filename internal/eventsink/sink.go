// Package eventsink persists completed probe outcomes as an append-only
// event log, tagged by each endpoint's deterministic identifier, and
// serves the historical-bucket queries the read API exposes.
package eventsink

import (
	"context"
	"time"

	"github.com/jroosing/forge/internal/probe"
)

// BucketStatus is one of a bucket's four classifications (§4.4).
type BucketStatus string

const (
	BucketGray   BucketStatus = "gray"
	BucketGreen  BucketStatus = "green"
	BucketRed    BucketStatus = "red"
	BucketYellow BucketStatus = "yellow"
)

// BucketCount is the fixed number of buckets any range is partitioned into.
const BucketCount = 30

// Sink receives completed check outcomes and answers historical-bucket
// queries. Implementations must be safe for concurrent use.
type Sink interface {
	Append(ctx context.Context, endpointID string, out probe.Outcome, at time.Time) error
	Buckets(ctx context.Context, names []string, rng time.Duration) (map[string][]BucketStatus, error)
	Close() error
}

// allowedRanges is the closed set of ranges the bucket query accepts;
// anything else falls back to the 1-hour default (§4.4).
var allowedRanges = []time.Duration{
	30 * time.Minute,
	time.Hour,
	3 * time.Hour,
	8 * time.Hour,
	24 * time.Hour,
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
}

// NormalizeRange maps an arbitrary duration onto the closed set of
// supported ranges, defaulting to 1 hour when it doesn't match one.
func NormalizeRange(rng time.Duration) time.Duration {
	for _, allowed := range allowedRanges {
		if rng == allowed {
			return allowed
		}
	}
	return time.Hour
}

// classify assigns a bucket's status from its event/success counts.
func classify(count, successes int) BucketStatus {
	switch {
	case count == 0:
		return BucketGray
	case successes == count:
		return BucketGreen
	case successes == 0:
		return BucketRed
	default:
		return BucketYellow
	}
}
