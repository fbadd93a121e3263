package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
	"github.com/oseni-a/paystack-marketplace/internal/logging"
	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

type transferRepo interface {
	GetByCode(ctx context.Context, transferCode string) (*domain.Transfer, error)
	MarkStatus(ctx context.Context, transferCode string, next domain.TransferStatus, prior []domain.TransferStatus, failureReason *string, transferredAt *time.Time) (bool, error)
}

type TransferHandler struct {
	transfers transferRepo
}

func NewTransferHandler(transfers transferRepo) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// Success completes Transfer[transfer_code]: pending|processing -> completed.
func (h *TransferHandler) Success(ctx context.Context, ev webhook.Event) webhook.Outcome {
	transferredAt := ev.OccurredAt
	return h.transition(ctx, ev, domain.TransferStatusCompleted, domain.TransferInFlightStatuses, nil, &transferredAt)
}

// Failed fails Transfer[transfer_code]: pending|processing -> failed.
func (h *TransferHandler) Failed(ctx context.Context, ev webhook.Event) webhook.Outcome {
	var reason *string
	if ev.Data.Reason != "" {
		reason = &ev.Data.Reason
	}
	return h.transition(ctx, ev, domain.TransferStatusFailed, domain.TransferInFlightStatuses, reason, nil)
}

// Reversed reverses Transfer[transfer_code]: completed|failed -> reversed.
// A reversal arriving before the transfer's terminal status has been recorded
// locally is ignored and left for reconciliation.
func (h *TransferHandler) Reversed(ctx context.Context, ev webhook.Event) webhook.Outcome {
	return h.transition(ctx, ev, domain.TransferStatusReversed, domain.TransferReversiblePriorStatuses, nil, nil)
}

func (h *TransferHandler) transition(
	ctx context.Context,
	ev webhook.Event,
	next domain.TransferStatus,
	prior []domain.TransferStatus,
	failureReason *string,
	transferredAt *time.Time,
) webhook.Outcome {
	log := logging.FromContext(ctx).With("event_id", ev.ID, "kind", ev.Kind)

	code := ev.Data.TransferCode
	if code == "" {
		return webhook.FailedTerminal(fmt.Errorf("%s payload missing transfer_code", ev.Kind))
	}

	ok, err := h.transfers.MarkStatus(ctx, code, next, prior, failureReason, transferredAt)
	if err != nil {
		return webhook.Failed(fmt.Errorf("mark transfer %s: %w", next, err))
	}
	if !ok {
		current, err := h.transfers.GetByCode(ctx, code)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			log.Warn("transfer event for unknown transfer, leaving for reconciliation", "transfer_code", code)
		case err != nil:
			return webhook.Failed(fmt.Errorf("load transfer: %w", err))
		default:
			log.Warn("transfer event arrived out of order, leaving for reconciliation",
				"transfer_code", code,
				"current_status", current.Status,
				"attempted_status", next,
			)
		}
		return webhook.Ignored()
	}

	log.Info("transfer status updated", "transfer_code", code, "status", next)
	return webhook.Completed()
}
