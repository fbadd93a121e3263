package service

import (
	"context"
	"fmt"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
	"github.com/oseni-a/paystack-marketplace/internal/logging"
	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

type customerRepo interface {
	MarkVerification(ctx context.Context, customerCode string, next domain.VerificationStatus, prior []domain.VerificationStatus) (bool, error)
}

type CustomerHandler struct {
	customers customerRepo
}

func NewCustomerHandler(customers customerRepo) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// IdentificationSuccess: Customer[customer_code] unverified|pending -> verified.
func (h *CustomerHandler) IdentificationSuccess(ctx context.Context, ev webhook.Event) webhook.Outcome {
	return h.transition(ctx, ev, domain.VerificationStatusVerified)
}

// IdentificationFailed: Customer[customer_code] unverified|pending -> verification_failed.
func (h *CustomerHandler) IdentificationFailed(ctx context.Context, ev webhook.Event) webhook.Outcome {
	return h.transition(ctx, ev, domain.VerificationStatusFailed)
}

func (h *CustomerHandler) transition(ctx context.Context, ev webhook.Event, next domain.VerificationStatus) webhook.Outcome {
	log := logging.FromContext(ctx).With("event_id", ev.ID, "kind", ev.Kind)

	code := ev.Data.CustomerCode
	if code == "" {
		return webhook.FailedTerminal(fmt.Errorf("%s payload missing customer_code", ev.Kind))
	}

	ok, err := h.customers.MarkVerification(ctx, code, next, domain.VerifiablePriorStatuses)
	if err != nil {
		return webhook.Failed(fmt.Errorf("mark verification: %w", err))
	}
	if !ok {
		log.Warn("identification result for unknown or already-decided customer", "customer_code", code)
		return webhook.Ignored()
	}

	log.Info("customer verification updated", "customer_code", code, "status", next)
	return webhook.Completed()
}
