package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

type mockCustomerRepo struct {
	ok  bool
	err error

	markedCode string
	markedNext domain.VerificationStatus
}

func (m *mockCustomerRepo) MarkVerification(
	_ context.Context,
	customerCode string,
	next domain.VerificationStatus,
	_ []domain.VerificationStatus,
) (bool, error) {
	m.markedCode = customerCode
	m.markedNext = next
	return m.ok, m.err
}

func identificationEvent(kind webhook.Kind, code string) webhook.Event {
	return webhook.Event{
		ID:   "ev_ident_1",
		Kind: kind,
		Data: webhook.Data{CustomerCode: code},
	}
}

func TestCustomerIdentification(t *testing.T) {
	tests := []struct {
		name     string
		invoke   func(h *CustomerHandler, ev webhook.Event) webhook.Outcome
		kind     webhook.Kind
		wantNext domain.VerificationStatus
	}{
		{
			name: "success marks verified",
			invoke: func(h *CustomerHandler, ev webhook.Event) webhook.Outcome {
				return h.IdentificationSuccess(context.Background(), ev)
			},
			kind:     webhook.KindCustomerIdentificationSuccess,
			wantNext: domain.VerificationStatusVerified,
		},
		{
			name: "failure marks verification_failed",
			invoke: func(h *CustomerHandler, ev webhook.Event) webhook.Outcome {
				return h.IdentificationFailed(context.Background(), ev)
			},
			kind:     webhook.KindCustomerIdentificationFailed,
			wantNext: domain.VerificationStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockCustomerRepo{ok: true}
			h := NewCustomerHandler(repo)

			out := tt.invoke(h, identificationEvent(tt.kind, "CUS_1"))

			assert.Equal(t, webhook.OutcomeCompleted, out.Status)
			assert.Equal(t, "CUS_1", repo.markedCode)
			assert.Equal(t, tt.wantNext, repo.markedNext)
		})
	}
}

func TestCustomerIdentification_MissingCodeIsTerminal(t *testing.T) {
	h := NewCustomerHandler(&mockCustomerRepo{})

	out := h.IdentificationSuccess(context.Background(), webhook.Event{Kind: webhook.KindCustomerIdentificationSuccess})

	assert.Equal(t, webhook.OutcomeFailed, out.Status)
	assert.True(t, out.Terminal)
}

func TestCustomerIdentification_AlreadyDecidedIgnored(t *testing.T) {
	repo := &mockCustomerRepo{ok: false}
	h := NewCustomerHandler(repo)

	out := h.IdentificationFailed(context.Background(), identificationEvent(webhook.KindCustomerIdentificationFailed, "CUS_1"))

	assert.Equal(t, webhook.OutcomeIgnored, out.Status)
}

func TestCustomerIdentification_RepoErrorIsTransient(t *testing.T) {
	repo := &mockCustomerRepo{err: errors.New("too many connections")}
	h := NewCustomerHandler(repo)

	out := h.IdentificationSuccess(context.Background(), identificationEvent(webhook.KindCustomerIdentificationSuccess, "CUS_1"))

	assert.Equal(t, webhook.OutcomeFailed, out.Status)
	assert.False(t, out.Terminal)
}
