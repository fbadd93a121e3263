// Package service holds the webhook event handlers: one bounded state
// transition per event kind, guarded by each record's legal prior states so
// reordered or duplicate deliveries never corrupt local state.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
	"github.com/oseni-a/paystack-marketplace/internal/logging"
	"github.com/oseni-a/paystack-marketplace/internal/paystack"
	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

type chargeTransactionRepo interface {
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	Settle(ctx context.Context, reference string, paidAt time.Time, channel *string) (bool, error)
}

// transactionVerifier re-checks a charge against the Paystack API before the
// local record is settled. Optional hardening: nil disables it.
type transactionVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error)
}

type ChargeHandler struct {
	transactions chargeTransactionRepo
	verifier     transactionVerifier
}

func NewChargeHandler(transactions chargeTransactionRepo, verifier transactionVerifier) *ChargeHandler {
	return &ChargeHandler{transactions: transactions, verifier: verifier}
}

// Success settles Transaction[reference]: pending|initialized -> settled.
func (h *ChargeHandler) Success(ctx context.Context, ev webhook.Event) webhook.Outcome {
	log := logging.FromContext(ctx).With("event_id", ev.ID, "kind", ev.Kind)

	reference := ev.Data.Reference
	if reference == "" {
		return webhook.FailedTerminal(errors.New("charge.success payload missing reference"))
	}

	tx, err := h.transactions.GetByReference(ctx, reference)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn("charge for unknown transaction, leaving for reconciliation", "reference", reference)
		return webhook.Ignored()
	}
	if err != nil {
		return webhook.Failed(fmt.Errorf("load transaction: %w", err))
	}

	if tx.Status == domain.TransactionStatusSettled {
		return webhook.Ignored()
	}

	if h.verifier != nil {
		verified, err := h.verifier.VerifyTransaction(ctx, reference)
		if err != nil {
			return webhook.Failed(fmt.Errorf("verify transaction: %w", err))
		}
		if verified.Status != "success" {
			log.Warn("charge notification contradicts verified status, not settling",
				"reference", reference,
				"verified_status", verified.Status,
			)
			return webhook.Ignored()
		}
	}

	paidAt := ev.OccurredAt
	var channel *string
	if ev.Data.Channel != "" {
		channel = &ev.Data.Channel
	}

	ok, err := h.transactions.Settle(ctx, reference, paidAt, channel)
	if err != nil {
		return webhook.Failed(fmt.Errorf("settle transaction: %w", err))
	}
	if !ok {
		log.Warn("transaction not in a settleable state", "reference", reference, "status", tx.Status)
		return webhook.Ignored()
	}

	log.Info("transaction settled", "reference", reference)
	return webhook.Completed()
}
