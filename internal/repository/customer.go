package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, customer_code, email, verification_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.CustomerCode, c.Email, c.VerificationStatus, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: customer %s: %w", c.CustomerCode, domain.ErrDuplicateRecord)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByCode(ctx context.Context, customerCode string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, customer_code, email, verification_status, created_at, updated_at
		FROM customers WHERE customer_code = $1`,
		customerCode,
	).Scan(&c.ID, &c.CustomerCode, &c.Email, &c.VerificationStatus, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetByCode: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByCode: %w", err)
	}
	return &c, nil
}

// MarkVerification records an identification outcome, guarded by the legal
// prior states. Returns false when the customer is unknown or already has an
// outcome.
func (r *CustomerRepository) MarkVerification(
	ctx context.Context,
	customerCode string,
	next domain.VerificationStatus,
	prior []domain.VerificationStatus,
) (bool, error) {
	priorStrings := make([]string, len(prior))
	for i, s := range prior {
		priorStrings[i] = string(s)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET verification_status = $1, updated_at = now()
		WHERE customer_code = $2 AND verification_status = ANY($3)`,
		next, customerCode, pq.Array(priorStrings),
	)
	if err != nil {
		return false, fmt.Errorf("MarkVerification: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("MarkVerification: rows affected: %w", err)
	}
	return rows > 0, nil
}
