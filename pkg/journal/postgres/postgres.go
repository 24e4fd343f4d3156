// Package postgres implements the invocation journal on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marmos91/triggerfish/internal/logger"
	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/journal"
)

// Store is a PostgreSQL-backed journal.
//
// Entries flow through a buffered channel into a single writer goroutine, so
// Record never blocks event handling. The buffer drops entries when full.
type Store struct {
	pool    *pgxpool.Pool
	timeout time.Duration

	entries   chan journal.Entry
	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	dropped int
}

var _ journal.Journal = (*Store)(nil)

// New connects to PostgreSQL, optionally migrates the schema and starts the
// writer goroutine.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.AutoMigrate {
		if err := runMigrations(ctx, cfg.ConnectionString()); err != nil {
			return nil, err
		}
	}

	pool, err := newPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &Store{
		pool:    pool,
		timeout: cfg.QueryTimeout,
		entries: make(chan journal.Entry, cfg.BufferSize),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	go s.writer()

	return s, nil
}

// newPool creates the PostgreSQL connection pool.
func newPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	// Set query timeout as statement timeout
	if cfg.QueryTimeout > 0 {
		poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%dms", cfg.QueryTimeout.Milliseconds())
	}

	logger.Info("Creating journal connection pool",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Database,
		"max_conns", cfg.MaxConns,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return pool, nil
}

// Record enqueues an entry for the writer goroutine.
// The entry is dropped when the buffer is full.
func (s *Store) Record(entry journal.Entry) {
	select {
	case s.entries <- entry:
	default:
		s.mu.Lock()
		s.dropped++
		dropped := s.dropped
		s.mu.Unlock()

		logger.Debug("Journal buffer full, dropping entry",
			"controller", entry.Controller,
			"dropped_total", dropped)
	}
}

// Dropped returns the number of entries dropped since startup.
func (s *Store) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]journal.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, event_id, trigger, bucket, key, controller, outcome,
		       error, forwarded, submitted, duration_ns, invoked_at
		FROM invocations
		ORDER BY invoked_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query invocations: %w", err)
	}
	defer rows.Close()

	var entries []journal.Entry
	for rows.Next() {
		var (
			e          journal.Entry
			eventID    string
			trigger    string
			outcome    string
			durationNS int64
		)
		if err := rows.Scan(
			&e.ID, &eventID, &trigger, &e.Bucket, &e.Key, &e.Controller,
			&outcome, &e.Error, &e.Forwarded, &e.Submitted, &durationNS, &e.InvokedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invocation row: %w", err)
		}

		if id, err := uuid.Parse(eventID); err == nil {
			e.EventID = id
		}
		e.Trigger = event.Trigger(trigger)
		e.Outcome = journal.Outcome(outcome)
		e.Duration = time.Duration(durationNS)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invocation rows: %w", err)
	}

	return entries, nil
}

// HealthCheck verifies database connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close stops the writer, drains buffered entries and closes the pool.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)

		select {
		case <-s.doneCh:
		case <-time.After(10 * time.Second):
			logger.Warn("Journal writer drain timed out")
		}

		s.pool.Close()
	})
	return nil
}

// writer persists entries until Close is called, then drains the buffer.
func (s *Store) writer() {
	defer close(s.doneCh)

	for {
		select {
		case entry := <-s.entries:
			s.insert(entry)
		case <-s.stopCh:
			for {
				select {
				case entry := <-s.entries:
					s.insert(entry)
				default:
					return
				}
			}
		}
	}
}

// insert writes one entry with a bounded context.
// Failures are logged, never surfaced: the journal is best-effort.
func (s *Store) insert(entry journal.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO invocations
			(event_id, trigger, bucket, key, controller, outcome,
			 error, forwarded, submitted, duration_ns, invoked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.EventID.String(),
		entry.Trigger.String(),
		entry.Bucket,
		entry.Key,
		entry.Controller,
		entry.Outcome.String(),
		entry.Error,
		entry.Forwarded,
		entry.Submitted,
		entry.Duration.Nanoseconds(),
		entry.InvokedAt,
	)
	if err != nil {
		logger.Warn("Failed to persist journal entry",
			"controller", entry.Controller,
			"event_id", entry.EventID,
			"error", err)
	}
}
