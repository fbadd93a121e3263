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

type invoiceRepo interface {
	Upsert(ctx context.Context, inv *domain.Invoice) error
	UpdateDetails(ctx context.Context, requestCode string, amountSubunits int64, description string) (bool, error)
	MarkStatus(ctx context.Context, requestCode string, next domain.InvoiceStatus, prior []domain.InvoiceStatus, paidAt *time.Time) (bool, error)
}

// InvoiceHandler covers both the invoice.* and paymentrequest.* webhook
// families; Paystack models them as one payment-request object.
type InvoiceHandler struct {
	invoices invoiceRepo
}

func NewInvoiceHandler(invoices invoiceRepo) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Create upserts Invoice[request_code] as pending.
func (h *InvoiceHandler) Create(ctx context.Context, ev webhook.Event) webhook.Outcome {
	log := logging.FromContext(ctx).With("event_id", ev.ID, "kind", ev.Kind)

	code := ev.PrimaryReference()
	if code == "" {
		return webhook.FailedTerminal(fmt.Errorf("%s payload missing request identifier", ev.Kind))
	}

	now := time.Now().UTC()
	inv := &domain.Invoice{
		ID:             uuid.New(),
		RequestCode:    code,
		CustomerCode:   ev.Data.Customer.CustomerCode,
		AmountSubunits: ev.Data.Amount,
		Currency:       ev.Data.Currency,
		Description:    ev.Data.Description,
		Status:         domain.InvoiceStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.invoices.Upsert(ctx, inv); err != nil {
		return webhook.Failed(fmt.Errorf("upsert invoice: %w", err))
	}

	log.Info("invoice recorded", "request_code", code)
	return webhook.Completed()
}

// Update refreshes amount and description of an existing invoice.
func (h *InvoiceHandler) Update(ctx context.Context, ev webhook.Event) webhook.Outcome {
	log := logging.FromContext(ctx).With("event_id", ev.ID, "kind", ev.Kind)

	code := ev.PrimaryReference()
	if code == "" {
		return webhook.FailedTerminal(fmt.Errorf("%s payload missing request identifier", ev.Kind))
	}

	ok, err := h.invoices.UpdateDetails(ctx, code, ev.Data.Amount, ev.Data.Description)
	if err != nil {
		return webhook.Failed(fmt.Errorf("update invoice: %w", err))
	}
	if !ok {
		log.Warn("update for unknown invoice, leaving for reconciliation", "request_code", code)
		return webhook.Ignored()
	}

	log.Info("invoice updated", "request_code", code)
	return webhook.Completed()
}

// PaymentRequestPending: Invoice[request_code] draft -> pending.
func (h *InvoiceHandler) PaymentRequestPending(ctx context.Context, ev webhook.Event) webhook.Outcome {
	return h.transition(ctx, ev, domain.InvoiceStatusPending, []domain.InvoiceStatus{domain.InvoiceStatusDraft}, nil)
}

// PaymentRequestSuccess: Invoice[request_code] pending -> paid.
func (h *InvoiceHandler) PaymentRequestSuccess(ctx context.Context, ev webhook.Event) webhook.Outcome {
	paidAt := ev.OccurredAt
	return h.transition(ctx, ev, domain.InvoiceStatusPaid, []domain.InvoiceStatus{domain.InvoiceStatusPending}, &paidAt)
}

// PaymentFailed: Invoice[request_code] pending -> payment_failed.
func (h *InvoiceHandler) PaymentFailed(ctx context.Context, ev webhook.Event) webhook.Outcome {
	return h.transition(ctx, ev, domain.InvoiceStatusPaymentFailed, []domain.InvoiceStatus{domain.InvoiceStatusPending}, nil)
}

func (h *InvoiceHandler) transition(
	ctx context.Context,
	ev webhook.Event,
	next domain.InvoiceStatus,
	prior []domain.InvoiceStatus,
	paidAt *time.Time,
) webhook.Outcome {
	log := logging.FromContext(ctx).With("event_id", ev.ID, "kind", ev.Kind)

	code := ev.PrimaryReference()
	if code == "" {
		return webhook.FailedTerminal(fmt.Errorf("%s payload missing request identifier", ev.Kind))
	}

	ok, err := h.invoices.MarkStatus(ctx, code, next, prior, paidAt)
	if err != nil {
		return webhook.Failed(fmt.Errorf("mark invoice %s: %w", next, err))
	}
	if !ok {
		log.Warn("invoice event for unknown invoice or out of order, leaving for reconciliation",
			"request_code", code,
			"attempted_status", next,
		)
		return webhook.Ignored()
	}

	log.Info("invoice status updated", "request_code", code, "status", next)
	return webhook.Completed()
}
