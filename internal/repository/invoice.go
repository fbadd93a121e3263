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

const invoiceColumns = `id, request_code, customer_code, amount, currency,
	description, status, paid_at, created_at, updated_at`

type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Upsert creates the invoice or refreshes its descriptive fields. Status is
// only written on insert; transitions go through MarkStatus.
func (r *InvoiceRepository) Upsert(ctx context.Context, inv *domain.Invoice) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (id, request_code, customer_code, amount, currency, description, status, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (request_code) DO UPDATE
			SET customer_code = EXCLUDED.customer_code,
				amount = EXCLUDED.amount,
				currency = EXCLUDED.currency,
				description = EXCLUDED.description,
				updated_at = now()`,
		inv.ID, inv.RequestCode, inv.CustomerCode, inv.AmountSubunits, inv.Currency,
		inv.Description, inv.Status, inv.PaidAt, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

// UpdateDetails refreshes the mutable fields of an existing invoice. Returns
// false when no invoice with the request code exists.
func (r *InvoiceRepository) UpdateDetails(ctx context.Context, requestCode string, amountSubunits int64, description string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET amount = $1, description = $2, updated_at = now()
		WHERE request_code = $3`,
		amountSubunits, description, requestCode,
	)
	if err != nil {
		return false, fmt.Errorf("UpdateDetails: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("UpdateDetails: rows affected: %w", err)
	}
	return rows > 0, nil
}

// MarkStatus transitions an invoice guarded by its legal prior states.
func (r *InvoiceRepository) MarkStatus(
	ctx context.Context,
	requestCode string,
	next domain.InvoiceStatus,
	prior []domain.InvoiceStatus,
	paidAt *time.Time,
) (bool, error) {
	priorStrings := make([]string, len(prior))
	for i, s := range prior {
		priorStrings[i] = string(s)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices
		SET status = $1, paid_at = COALESCE($2, paid_at), updated_at = now()
		WHERE request_code = $3 AND status = ANY($4)`,
		next, paidAt, requestCode, pq.Array(priorStrings),
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

func (r *InvoiceRepository) GetByRequestCode(ctx context.Context, requestCode string) (*domain.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE request_code = $1`,
		requestCode,
	)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetByRequestCode: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByRequestCode: %w", err)
	}
	return inv, nil
}

func scanInvoice(s scanner) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := s.Scan(
		&inv.ID, &inv.RequestCode, &inv.CustomerCode, &inv.AmountSubunits, &inv.Currency,
		&inv.Description, &inv.Status, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
