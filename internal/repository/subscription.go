package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
)

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert creates the subscription or refreshes an existing row in place.
// subscription.create redeliveries and out-of-order create-after-disable both
// land here: a disabled subscription is not resurrected.
func (r *SubscriptionRepository) Upsert(ctx context.Context, s *domain.Subscription) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, subscription_code, customer_code, plan_code, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (subscription_code) DO UPDATE
			SET customer_code = EXCLUDED.customer_code,
				plan_code = EXCLUDED.plan_code,
				updated_at = now()`,
		s.ID, s.SubscriptionCode, s.CustomerCode, s.PlanCode, s.Status, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

// Disable transitions an active subscription to disabled. Returns false when
// the subscription is unknown or not active.
func (r *SubscriptionRepository) Disable(ctx context.Context, subscriptionCode string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1, updated_at = now()
		WHERE subscription_code = $2 AND status = $3`,
		domain.SubscriptionStatusDisabled, subscriptionCode, domain.SubscriptionStatusActive,
	)
	if err != nil {
		return false, fmt.Errorf("Disable: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Disable: rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *SubscriptionRepository) GetByCode(ctx context.Context, subscriptionCode string) (*domain.Subscription, error) {
	var s domain.Subscription
	err := r.db.QueryRowContext(ctx,
		`SELECT id, subscription_code, customer_code, plan_code, status, created_at, updated_at
		FROM subscriptions WHERE subscription_code = $1`,
		subscriptionCode,
	).Scan(&s.ID, &s.SubscriptionCode, &s.CustomerCode, &s.PlanCode, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetByCode: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByCode: %w", err)
	}
	return &s, nil
}
