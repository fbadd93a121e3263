package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

type mockInvoiceRepo struct {
	upserted  *domain.Invoice
	upsertErr error

	updateOK  bool
	updateErr error

	markOK      bool
	markErr     error
	markedCode  string
	markedNext  domain.InvoiceStatus
	markedPrior []domain.InvoiceStatus
	markedPaid  *time.Time
}

func (m *mockInvoiceRepo) Upsert(_ context.Context, inv *domain.Invoice) error {
	m.upserted = inv
	return m.upsertErr
}

func (m *mockInvoiceRepo) UpdateDetails(_ context.Context, _ string, _ int64, _ string) (bool, error) {
	return m.updateOK, m.updateErr
}

func (m *mockInvoiceRepo) MarkStatus(
	_ context.Context,
	requestCode string,
	next domain.InvoiceStatus,
	prior []domain.InvoiceStatus,
	paidAt *time.Time,
) (bool, error) {
	m.markedCode = requestCode
	m.markedNext = next
	m.markedPrior = prior
	m.markedPaid = paidAt
	return m.markOK, m.markErr
}

func invoiceEvent(kind webhook.Kind, requestCode string) webhook.Event {
	ev := webhook.Event{
		ID:         "ev_invoice_1",
		Kind:       kind,
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Data: webhook.Data{
			RequestCode: requestCode,
			Amount:      120_000,
			Currency:    "NGN",
			Description: "monthly settlement",
		},
	}
	ev.Data.Customer.CustomerCode = "CUS_1"
	return ev
}

func TestInvoiceCreate(t *testing.T) {
	repo := &mockInvoiceRepo{}
	h := NewInvoiceHandler(repo)

	out := h.Create(context.Background(), invoiceEvent(webhook.KindInvoiceCreate, "PRQ_1"))

	assert.Equal(t, webhook.OutcomeCompleted, out.Status)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, "PRQ_1", repo.upserted.RequestCode)
	assert.Equal(t, int64(120_000), repo.upserted.AmountSubunits)
	assert.Equal(t, domain.InvoiceStatusPending, repo.upserted.Status)
}

func TestInvoiceCreate_NumericIDFallback(t *testing.T) {
	// paymentrequest payloads sometimes omit request_code; the numeric id
	// stands in as the key.
	repo := &mockInvoiceRepo{}
	h := NewInvoiceHandler(repo)

	ev := invoiceEvent(webhook.KindInvoiceCreate, "")
	ev.Data.ID = 4412
	out := h.Create(context.Background(), ev)

	assert.Equal(t, webhook.OutcomeCompleted, out.Status)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, "4412", repo.upserted.RequestCode)
}

func TestInvoiceCreate_MissingIdentifierIsTerminal(t *testing.T) {
	h := NewInvoiceHandler(&mockInvoiceRepo{})

	out := h.Create(context.Background(), webhook.Event{Kind: webhook.KindInvoiceCreate})

	assert.Equal(t, webhook.OutcomeFailed, out.Status)
	assert.True(t, out.Terminal)
}

func TestInvoiceUpdate(t *testing.T) {
	repo := &mockInvoiceRepo{updateOK: true}
	h := NewInvoiceHandler(repo)

	out := h.Update(context.Background(), invoiceEvent(webhook.KindInvoiceUpdate, "PRQ_1"))

	assert.Equal(t, webhook.OutcomeCompleted, out.Status)
}

func TestInvoiceUpdate_UnknownInvoiceIgnored(t *testing.T) {
	repo := &mockInvoiceRepo{updateOK: false}
	h := NewInvoiceHandler(repo)

	out := h.Update(context.Background(), invoiceEvent(webhook.KindInvoiceUpdate, "PRQ_missing"))

	assert.Equal(t, webhook.OutcomeIgnored, out.Status)
}

func TestPaymentRequestPending_TransitionsDraft(t *testing.T) {
	repo := &mockInvoiceRepo{markOK: true}
	h := NewInvoiceHandler(repo)

	out := h.PaymentRequestPending(context.Background(), invoiceEvent(webhook.KindPaymentRequestPending, "PRQ_1"))

	assert.Equal(t, webhook.OutcomeCompleted, out.Status)
	assert.Equal(t, domain.InvoiceStatusPending, repo.markedNext)
	assert.Equal(t, []domain.InvoiceStatus{domain.InvoiceStatusDraft}, repo.markedPrior)
	assert.Nil(t, repo.markedPaid)
}

func TestPaymentRequestSuccess_MarksPaidWithTimestamp(t *testing.T) {
	repo := &mockInvoiceRepo{markOK: true}
	h := NewInvoiceHandler(repo)

	ev := invoiceEvent(webhook.KindPaymentRequestSuccess, "PRQ_1")
	out := h.PaymentRequestSuccess(context.Background(), ev)

	assert.Equal(t, webhook.OutcomeCompleted, out.Status)
	assert.Equal(t, domain.InvoiceStatusPaid, repo.markedNext)
	assert.Equal(t, []domain.InvoiceStatus{domain.InvoiceStatusPending}, repo.markedPrior)
	require.NotNil(t, repo.markedPaid)
	assert.Equal(t, ev.OccurredAt, *repo.markedPaid)
}

func TestInvoicePaymentFailed(t *testing.T) {
	repo := &mockInvoiceRepo{markOK: true}
	h := NewInvoiceHandler(repo)

	out := h.PaymentFailed(context.Background(), invoiceEvent(webhook.KindInvoicePaymentFailed, "PRQ_1"))

	assert.Equal(t, webhook.OutcomeCompleted, out.Status)
	assert.Equal(t, domain.InvoiceStatusPaymentFailed, repo.markedNext)
}

func TestInvoiceTransition_OutOfOrderIgnored(t *testing.T) {
	// paymentrequest.success before the invoice ever reached pending.
	repo := &mockInvoiceRepo{markOK: false}
	h := NewInvoiceHandler(repo)

	out := h.PaymentRequestSuccess(context.Background(), invoiceEvent(webhook.KindPaymentRequestSuccess, "PRQ_1"))

	assert.Equal(t, webhook.OutcomeIgnored, out.Status)
}

func TestInvoiceTransition_RepoErrorIsTransient(t *testing.T) {
	repo := &mockInvoiceRepo{markErr: errors.New("statement timeout")}
	h := NewInvoiceHandler(repo)

	out := h.PaymentFailed(context.Background(), invoiceEvent(webhook.KindInvoicePaymentFailed, "PRQ_1"))

	assert.Equal(t, webhook.OutcomeFailed, out.Status)
	assert.False(t, out.Terminal)
}
