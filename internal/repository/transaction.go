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

const transactionColumns = `id, reference, customer_email, amount, currency,
	subaccount_code, status, channel, paid_at, created_at, updated_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (
			id, reference, customer_email, amount, currency, subaccount_code, status, channel, paid_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.Reference, t.CustomerEmail, t.AmountSubunits, t.Currency,
		t.SubaccountCode, t.Status, t.Channel, t.PaidAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: reference %s: %w", t.Reference, domain.ErrDuplicateRecord)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE reference = $1`,
		reference,
	)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetByReference: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByReference: %w", err)
	}
	return t, nil
}

// Settle marks a transaction settled iff its current status is one of the
// legal prior states. The guard lives in the UPDATE itself so concurrent
// events for the same reference cannot both transition it. Returns false
// when the guard rejected the transition.
func (r *TransactionRepository) Settle(ctx context.Context, reference string, paidAt time.Time, channel *string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		SET status = $1, paid_at = $2, channel = COALESCE($3, channel), updated_at = now()
		WHERE reference = $4 AND status = ANY($5)`,
		domain.TransactionStatusSettled, paidAt, channel, reference,
		pq.Array(transactionStatusStrings(domain.SettleablePriorStatuses)),
	)
	if err != nil {
		return false, fmt.Errorf("Settle: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Settle: rows affected: %w", err)
	}
	return rows > 0, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.Reference, &t.CustomerEmail, &t.AmountSubunits, &t.Currency,
		&t.SubaccountCode, &t.Status, &t.Channel, &t.PaidAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func transactionStatusStrings(statuses []domain.TransactionStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
