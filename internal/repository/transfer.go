package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
)

const transferColumns = `id, transfer_code, recipient_code, amount, currency,
	reason, status, failure_reason, transferred_at, created_at, updated_at`

type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(ctx context.Context, t *domain.Transfer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transfers (
			id, transfer_code, recipient_code, amount, currency, reason, status, failure_reason, transferred_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.TransferCode, t.RecipientCode, t.AmountSubunits, t.Currency,
		t.Reason, t.Status, t.FailureReason, t.TransferredAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: transfer %s: %w", t.TransferCode, domain.ErrDuplicateRecord)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *TransferRepository) GetByCode(ctx context.Context, transferCode string) (*domain.Transfer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE transfer_code = $1`,
		transferCode,
	)
	t, err := scanTransfer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetByCode: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByCode: %w", err)
	}
	return t, nil
}

// MarkStatus transitions a transfer guarded by its legal prior states, in one
// conditional UPDATE. transferredAt and failureReason are only written when
// non-nil. Returns false when the current status is not in prior.
func (r *TransferRepository) MarkStatus(
	ctx context.Context,
	transferCode string,
	next domain.TransferStatus,
	prior []domain.TransferStatus,
	failureReason *string,
	transferredAt *time.Time,
) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transfers
		SET status = $1,
			failure_reason = COALESCE($2, failure_reason),
			transferred_at = COALESCE($3, transferred_at),
			updated_at = now()
		WHERE transfer_code = $4 AND status = ANY($5)`,
		next, failureReason, transferredAt, transferCode,
		pq.Array(transferStatusStrings(prior)),
	)
	if err != nil {
		return false, fmt.Errorf("MarkStatus: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("MarkStatus: rows affected: %w", err)
	}
	return rows > 0, nil
}

func scanTransfer(s scanner) (*domain.Transfer, error) {
	var t domain.Transfer
	err := s.Scan(
		&t.ID, &t.TransferCode, &t.RecipientCode, &t.AmountSubunits, &t.Currency,
		&t.Reason, &t.Status, &t.FailureReason, &t.TransferredAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func transferStatusStrings(statuses []domain.TransferStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
