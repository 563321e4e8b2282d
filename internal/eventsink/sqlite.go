package eventsink

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go driver

	"github.com/jroosing/forge/internal/probe"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteSink is the durable event sink: every completed outcome becomes
// a row in probe_events, tagged by the endpoint's deterministic id.
type SQLiteSink struct {
	db *sqlx.DB
}

// Open opens (creating if necessary) a WAL-mode SQLite database at path
// and brings its schema up to date.
func Open(path string) (*SQLiteSink, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteSink{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

func (s *SQLiteSink) migrate() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	dbDriver, err := sqlite.WithInstance(s.db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("new migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Append records one completed probe outcome.
func (s *SQLiteSink) Append(ctx context.Context, endpointID string, out probe.Outcome, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO probe_events (endpoint_id, occurred_at, is_up, error_kind, response_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		endpointID, at.Unix(), boolToInt(out.IsUp), string(out.ErrorKind), out.ResponseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("insert probe event: %w", err)
	}
	return nil
}

type eventRow struct {
	EndpointID string `db:"endpoint_id"`
	OccurredAt int64  `db:"occurred_at"`
	IsUp       int    `db:"is_up"`
}

// Buckets answers the historical-bucket query for a set of endpoint ids
// (the ids passed to Append), partitioning [now-range, now) into
// BucketCount equal windows.
func (s *SQLiteSink) Buckets(ctx context.Context, names []string, rng time.Duration) (map[string][]BucketStatus, error) {
	rng = NormalizeRange(rng)
	out := initGrayBuckets(names)
	if len(names) == 0 {
		return out, nil
	}

	now := time.Now()
	since := now.Add(-rng)

	query, args, err := sqlx.In(
		`SELECT endpoint_id, occurred_at, is_up FROM probe_events
		 WHERE endpoint_id IN (?) AND occurred_at >= ?
		 ORDER BY occurred_at ASC`,
		names, since.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("build bucket query: %w", err)
	}
	query = s.db.Rebind(query)

	rows := []eventRow{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query probe events: %w", err)
	}

	counts := make(map[string][]int)    // endpointID -> per-bucket event count
	successes := make(map[string][]int) // endpointID -> per-bucket success count
	for _, name := range names {
		counts[name] = make([]int, BucketCount)
		successes[name] = make([]int, BucketCount)
	}

	bucketWidth := rng / BucketCount
	for _, row := range rows {
		c, ok := counts[row.EndpointID]
		if !ok {
			continue
		}
		idx := bucketIndex(since, bucketWidth, row.OccurredAt)
		if idx < 0 || idx >= BucketCount {
			continue
		}
		c[idx]++
		if row.IsUp != 0 {
			successes[row.EndpointID][idx]++
		}
	}

	for _, name := range names {
		statuses := make([]BucketStatus, BucketCount)
		for i := 0; i < BucketCount; i++ {
			statuses[i] = classify(counts[name][i], successes[name][i])
		}
		out[name] = statuses
	}
	return out, nil
}

func bucketIndex(since time.Time, width time.Duration, occurredAtUnix int64) int {
	if width <= 0 {
		return 0
	}
	delta := time.Unix(occurredAtUnix, 0).Sub(since)
	return int(delta / width)
}

func initGrayBuckets(names []string) map[string][]BucketStatus {
	out := make(map[string][]BucketStatus, len(names))
	for _, name := range names {
		buckets := make([]BucketStatus, BucketCount)
		for i := range buckets {
			buckets[i] = BucketGray
		}
		out[name] = buckets
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Close closes the underlying database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
