package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
	"github.com/oseni-a/paystack-marketplace/internal/logging"
	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

type subscriptionRepo interface {
	Upsert(ctx context.Context, s *domain.Subscription) error
	Disable(ctx context.Context, subscriptionCode string) (bool, error)
}

type SubscriptionHandler struct {
	subscriptions subscriptionRepo
}

func NewSubscriptionHandler(subscriptions subscriptionRepo) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// Create records Subscription[subscription_code] as active. There is no
// prior-state requirement; redeliveries collapse into the same row.
func (h *SubscriptionHandler) Create(ctx context.Context, ev webhook.Event) webhook.Outcome {
	log := logging.FromContext(ctx).With("event_id", ev.ID, "kind", ev.Kind)

	code := ev.Data.SubscriptionCode
	if code == "" {
		return webhook.FailedTerminal(fmt.Errorf("%s payload missing subscription_code", ev.Kind))
	}

	now := time.Now().UTC()
	sub := &domain.Subscription{
		ID:               uuid.New(),
		SubscriptionCode: code,
		CustomerCode:     ev.Data.Customer.CustomerCode,
		PlanCode:         ev.Data.Plan.PlanCode,
		Status:           domain.SubscriptionStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := h.subscriptions.Upsert(ctx, sub); err != nil {
		return webhook.Failed(fmt.Errorf("upsert subscription: %w", err))
	}

	log.Info("subscription recorded", "subscription_code", code)
	return webhook.Completed()
}

// Disable: Subscription[subscription_code] active -> disabled.
func (h *SubscriptionHandler) Disable(ctx context.Context, ev webhook.Event) webhook.Outcome {
	log := logging.FromContext(ctx).With("event_id", ev.ID, "kind", ev.Kind)

	code := ev.Data.SubscriptionCode
	if code == "" {
		return webhook.FailedTerminal(fmt.Errorf("%s payload missing subscription_code", ev.Kind))
	}

	ok, err := h.subscriptions.Disable(ctx, code)
	if err != nil {
		return webhook.Failed(fmt.Errorf("disable subscription: %w", err))
	}
	if !ok {
		log.Warn("disable for unknown or already-disabled subscription", "subscription_code", code)
		return webhook.Ignored()
	}

	log.Info("subscription disabled", "subscription_code", code)
	return webhook.Completed()
}
