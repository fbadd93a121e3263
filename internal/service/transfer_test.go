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

type mockTransferRepo struct {
	transfer *domain.Transfer
	getErr   error

	markOK  bool
	markErr error

	markedCode   string
	markedNext   domain.TransferStatus
	markedPrior  []domain.TransferStatus
	markedReason *string
}

func (m *mockTransferRepo) GetByCode(_ context.Context, _ string) (*domain.Transfer, error) {
	return m.transfer, m.getErr
}

func (m *mockTransferRepo) MarkStatus(
	_ context.Context,
	transferCode string,
	next domain.TransferStatus,
	prior []domain.TransferStatus,
	failureReason *string,
	_ *time.Time,
) (bool, error) {
	m.markedCode = transferCode
	m.markedNext = next
	m.markedPrior = prior
	m.markedReason = failureReason
	return m.markOK, m.markErr
}

func transferEvent(kind webhook.Kind, code string) webhook.Event {
	return webhook.Event{
		ID:         "ev_transfer_1",
		Kind:       kind,
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Data:       webhook.Data{TransferCode: code},
	}
}

func TestTransferSuccess_Completes(t *testing.T) {
	repo := &mockTransferRepo{markOK: true}
	h := NewTransferHandler(repo)

	out := h.Success(context.Background(), transferEvent(webhook.KindTransferSuccess, "TRF_1"))

	assert.Equal(t, webhook.OutcomeCompleted, out.Status)
	assert.Equal(t, "TRF_1", repo.markedCode)
	assert.Equal(t, domain.TransferStatusCompleted, repo.markedNext)
	assert.Equal(t, domain.TransferInFlightStatuses, repo.markedPrior)
}

func TestTransferFailed_CarriesReason(t *testing.T) {
	repo := &mockTransferRepo{markOK: true}
	h := NewTransferHandler(repo)

	ev := transferEvent(webhook.KindTransferFailed, "TRF_1")
	ev.Data.Reason = "insufficient balance"
	out := h.Failed(context.Background(), ev)

	assert.Equal(t, webhook.OutcomeCompleted, out.Status)
	assert.Equal(t, domain.TransferStatusFailed, repo.markedNext)
	require.NotNil(t, repo.markedReason)
	assert.Equal(t, "insufficient balance", *repo.markedReason)
}

func TestTransferReversed_RequiresTerminalPrior(t *testing.T) {
	repo := &mockTransferRepo{markOK: true}
	h := NewTransferHandler(repo)

	out := h.Reversed(context.Background(), transferEvent(webhook.KindTransferReversed, "TRF_1"))

	assert.Equal(t, webhook.OutcomeCompleted, out.Status)
	assert.Equal(t, domain.TransferStatusReversed, repo.markedNext)
	assert.Equal(t, domain.TransferReversiblePriorStatuses, repo.markedPrior)
}

func TestTransfer_MissingCodeIsTerminal(t *testing.T) {
	h := NewTransferHandler(&mockTransferRepo{})

	out := h.Success(context.Background(), webhook.Event{Kind: webhook.KindTransferSuccess})

	assert.Equal(t, webhook.OutcomeFailed, out.Status)
	assert.True(t, out.Terminal)
}

func TestTransfer_OutOfOrderReversalIgnored(t *testing.T) {
	// transfer.reversed delivered before transfer.success was recorded: the
	// guard refuses pending -> reversed and the event is left for
	// reconciliation.
	repo := &mockTransferRepo{
		markOK:   false,
		transfer: &domain.Transfer{TransferCode: "TRF_1", Status: domain.TransferStatusPending},
	}
	h := NewTransferHandler(repo)

	out := h.Reversed(context.Background(), transferEvent(webhook.KindTransferReversed, "TRF_1"))

	assert.Equal(t, webhook.OutcomeIgnored, out.Status)
}

func TestTransfer_UnknownTransferIgnored(t *testing.T) {
	repo := &mockTransferRepo{markOK: false, getErr: domain.ErrNotFound}
	h := NewTransferHandler(repo)

	out := h.Success(context.Background(), transferEvent(webhook.KindTransferSuccess, "TRF_missing"))

	assert.Equal(t, webhook.OutcomeIgnored, out.Status)
}

func TestTransfer_RepoErrorIsTransient(t *testing.T) {
	repo := &mockTransferRepo{markErr: errors.New("deadlock detected")}
	h := NewTransferHandler(repo)

	out := h.Failed(context.Background(), transferEvent(webhook.KindTransferFailed, "TRF_1"))

	assert.Equal(t, webhook.OutcomeFailed, out.Status)
	assert.False(t, out.Terminal)
}
