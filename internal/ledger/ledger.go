// Package ledger records which webhook event identifiers have been processed
// and gates redelivery. It is the sole serialization point of the ingestion
// path: Reserve is a single conditional write, so the guarantee holds across
// multiple service instances.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type Record struct {
	EventID       string
	Status        Status
	FirstSeenAt   time.Time
	LastAttemptAt time.Time
	AttemptCount  int
}

type ReserveResult int

const (
	// Reserved means the caller owns this event and must run its handler.
	Reserved ReserveResult = iota
	// AlreadyCompleted means a previous delivery finished; acknowledge
	// without re-running the handler.
	AlreadyCompleted
	// AlreadyInProgress means another delivery holds a fresh reservation;
	// reject retryably so the sender redelivers later instead of racing.
	AlreadyInProgress
	// AlreadyFailed means a previous delivery failed terminally; the record
	// stays failed until someone intervenes, so acknowledge and skip.
	AlreadyFailed
)

type Ledger struct {
	db         *sql.DB
	staleAfter time.Duration
}

func New(db *sql.DB, staleAfter time.Duration) *Ledger {
	return &Ledger{db: db, staleAfter: staleAfter}
}

// Reserve atomically claims eventID. A fresh row is inserted as in_progress;
// an in_progress row whose last attempt predates the staleness window is
// reclaimed (the prior attempt is presumed crashed) with attempt_count bumped.
// Completed and failed rows are never touched. The insert-or-reclaim is one
// statement, so concurrent deliveries of the same event cannot both win.
func (l *Ledger) Reserve(ctx context.Context, eventID string) (ReserveResult, error) {
	var attempts int
	err := l.db.QueryRowContext(ctx,
		`INSERT INTO webhook_events (event_id, status, first_seen_at, last_attempt_at, attempt_count)
		VALUES ($1, 'in_progress', now(), now(), 1)
		ON CONFLICT (event_id) DO UPDATE
			SET status = 'in_progress',
				last_attempt_at = now(),
				attempt_count = webhook_events.attempt_count + 1
			WHERE webhook_events.status = 'in_progress'
				AND webhook_events.last_attempt_at < now() - $2::interval
		RETURNING attempt_count`,
		eventID, pgInterval(l.staleAfter),
	).Scan(&attempts)
	if err == nil {
		return Reserved, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("Reserve: %w", err)
	}

	// The row exists and was not reclaimable. Classify it.
	rec, err := l.Get(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("Reserve: classify: %w", err)
	}
	switch rec.Status {
	case StatusCompleted:
		return AlreadyCompleted, nil
	case StatusFailed:
		return AlreadyFailed, nil
	default:
		return AlreadyInProgress, nil
	}
}

// Complete moves an in_progress reservation to its final status. Records are
// never deleted here; retention is an external policy.
func (l *Ledger) Complete(ctx context.Context, eventID string, final Status) error {
	if final != StatusCompleted && final != StatusFailed {
		return fmt.Errorf("Complete: invalid final status %q", final)
	}

	res, err := l.db.ExecContext(ctx,
		`UPDATE webhook_events SET status = $1, last_attempt_at = now()
		WHERE event_id = $2 AND status = 'in_progress'`,
		final, eventID,
	)
	if err != nil {
		return fmt.Errorf("Complete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Complete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Complete: no in_progress record for event: %w", domain.ErrNotFound)
	}
	return nil
}

func (l *Ledger) Get(ctx context.Context, eventID string) (*Record, error) {
	var rec Record
	err := l.db.QueryRowContext(ctx,
		`SELECT event_id, status, first_seen_at, last_attempt_at, attempt_count
		FROM webhook_events WHERE event_id = $1`,
		eventID,
	).Scan(&rec.EventID, &rec.Status, &rec.FirstSeenAt, &rec.LastAttemptAt, &rec.AttemptCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &rec, nil
}

func pgInterval(d time.Duration) string {
	return fmt.Sprintf("%d milliseconds", d.Milliseconds())
}
