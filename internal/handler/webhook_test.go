package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oseni-a/paystack-marketplace/internal/ledger"
	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

const testWebhookSecret = "sk_test_webhook_secret"

type mockLedger struct {
	reserveResult ledger.ReserveResult
	reserveErr    error
	reserved      []string

	completed   map[string]ledger.Status
	completeErr error
}

func (m *mockLedger) Reserve(_ context.Context, eventID string) (ledger.ReserveResult, error) {
	m.reserved = append(m.reserved, eventID)
	return m.reserveResult, m.reserveErr
}

func (m *mockLedger) Complete(_ context.Context, eventID string, final ledger.Status) error {
	if m.completed == nil {
		m.completed = make(map[string]ledger.Status)
	}
	m.completed[eventID] = final
	return m.completeErr
}

type mockDispatcher struct {
	outcome    webhook.Outcome
	dispatched []webhook.Event
}

func (m *mockDispatcher) Dispatch(_ context.Context, event webhook.Event) webhook.Outcome {
	m.dispatched = append(m.dispatched, event)
	return m.outcome
}

func chargeSuccessBody(reference string) string {
	return fmt.Sprintf(`{
		"event": "charge.success",
		"data": {
			"reference": %q,
			"amount": 500000,
			"currency": "NGN",
			"status": "success",
			"paid_at": "2026-03-01T12:00:00Z"
		}
	}`, reference)
}

func postWebhook(t *testing.T, h *WebhookHandler, body, signature string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(body))
	if signature != "" {
		req.Header.Set(webhook.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	h.ReceivePaystackWebhook(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestReceivePaystackWebhook_BadSignature(t *testing.T) {
	tests := []struct {
		name      string
		signature func(body string) string
	}{
		{
			name:      "missing signature",
			signature: func(string) string { return "" },
		},
		{
			name:      "garbage signature",
			signature: func(string) string { return "deadbeef" },
		},
		{
			name: "signature from wrong secret",
			signature: func(body string) string {
				return webhook.Sign([]byte(body), []byte("some-other-secret"))
			},
		},
		{
			name: "signature over different body",
			signature: func(string) string {
				return webhook.Sign([]byte(`{"event":"charge.success","data":{}}`), []byte(testWebhookSecret))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &mockLedger{}
			d := &mockDispatcher{}
			h := NewWebhookHandler(l, d, []byte(testWebhookSecret))

			body := chargeSuccessBody("ref_sig_test")
			rec := postWebhook(t, h, body, tt.signature(body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeEnvelope(t, rec)
			assert.Equal(t, "INVALID_SIGNATURE", resp.Error.Code)

			// An unauthenticated body must leave no trace.
			assert.Empty(t, l.reserved)
			assert.Empty(t, d.dispatched)
		})
	}
}

func TestReceivePaystackWebhook_MalformedPayload(t *testing.T) {
	bodies := map[string]string{
		"not json":      `{{{`,
		"missing event": `{"data":{"reference":"ref_1"}}`,
		"empty event":   `{"event":"","data":{}}`,
		"non-object":    `"charge.success"`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			l := &mockLedger{}
			d := &mockDispatcher{}
			h := NewWebhookHandler(l, d, []byte(testWebhookSecret))

			rec := postWebhook(t, h, body, webhook.Sign([]byte(body), []byte(testWebhookSecret)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeEnvelope(t, rec)
			assert.Equal(t, "MALFORMED_PAYLOAD", resp.Error.Code)
			assert.Empty(t, l.reserved)
		})
	}
}

func TestReceivePaystackWebhook_DuplicateCompleted(t *testing.T) {
	l := &mockLedger{reserveResult: ledger.AlreadyCompleted}
	d := &mockDispatcher{}
	h := NewWebhookHandler(l, d, []byte(testWebhookSecret))

	body := chargeSuccessBody("ref_dup")
	rec := postWebhook(t, h, body, webhook.Sign([]byte(body), []byte(testWebhookSecret)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
	assert.Empty(t, d.dispatched, "duplicate must not re-run the handler")
	assert.Empty(t, l.completed)
}

func TestReceivePaystackWebhook_AlreadyFailedAcknowledged(t *testing.T) {
	l := &mockLedger{reserveResult: ledger.AlreadyFailed}
	d := &mockDispatcher{}
	h := NewWebhookHandler(l, d, []byte(testWebhookSecret))

	body := chargeSuccessBody("ref_failed_before")
	rec := postWebhook(t, h, body, webhook.Sign([]byte(body), []byte(testWebhookSecret)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
	assert.Empty(t, d.dispatched)
}

func TestReceivePaystackWebhook_InProgressConflict(t *testing.T) {
	l := &mockLedger{reserveResult: ledger.AlreadyInProgress}
	d := &mockDispatcher{}
	h := NewWebhookHandler(l, d, []byte(testWebhookSecret))

	body := chargeSuccessBody("ref_racing")
	rec := postWebhook(t, h, body, webhook.Sign([]byte(body), []byte(testWebhookSecret)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "EVENT_IN_PROGRESS", resp.Error.Code)
	assert.Empty(t, d.dispatched)
}

func TestReceivePaystackWebhook_Completed(t *testing.T) {
	l := &mockLedger{reserveResult: ledger.Reserved}
	d := &mockDispatcher{outcome: webhook.Completed()}
	h := NewWebhookHandler(l, d, []byte(testWebhookSecret))

	body := chargeSuccessBody("ref_ok")
	rec := postWebhook(t, h, body, webhook.Sign([]byte(body), []byte(testWebhookSecret)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())

	require.Len(t, d.dispatched, 1)
	ev := d.dispatched[0]
	assert.Equal(t, webhook.KindChargeSuccess, ev.Kind)
	assert.Equal(t, "ref_ok", ev.Data.Reference)

	require.Len(t, l.reserved, 1)
	assert.Equal(t, ledger.StatusCompleted, l.completed[ev.ID])
}

func TestReceivePaystackWebhook_IgnoredOutcomeStillCompletes(t *testing.T) {
	l := &mockLedger{reserveResult: ledger.Reserved}
	d := &mockDispatcher{outcome: webhook.Ignored()}
	h := NewWebhookHandler(l, d, []byte(testWebhookSecret))

	body := `{"event": "subscription.expiring_cards", "data": {}}`
	rec := postWebhook(t, h, body, webhook.Sign([]byte(body), []byte(testWebhookSecret)))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, d.dispatched, 1)
	assert.Equal(t, webhook.KindUnrecognized, d.dispatched[0].Kind)
	assert.Equal(t, ledger.StatusCompleted, l.completed[d.dispatched[0].ID])
}

func TestReceivePaystackWebhook_TransientFailure(t *testing.T) {
	l := &mockLedger{reserveResult: ledger.Reserved}
	d := &mockDispatcher{outcome: webhook.Failed(errors.New("db timeout"))}
	h := NewWebhookHandler(l, d, []byte(testWebhookSecret))

	body := chargeSuccessBody("ref_transient")
	rec := postWebhook(t, h, body, webhook.Sign([]byte(body), []byte(testWebhookSecret)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "EVENT_HANDLER_FAILED", resp.Error.Code)

	// Record stays in_progress so the staleness window can reclaim it on
	// redelivery.
	assert.Empty(t, l.completed)
}

func TestReceivePaystackWebhook_TerminalFailure(t *testing.T) {
	l := &mockLedger{reserveResult: ledger.Reserved}
	d := &mockDispatcher{outcome: webhook.FailedTerminal(errors.New("payload missing reference"))}
	h := NewWebhookHandler(l, d, []byte(testWebhookSecret))

	body := chargeSuccessBody("ref_terminal")
	rec := postWebhook(t, h, body, webhook.Sign([]byte(body), []byte(testWebhookSecret)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, d.dispatched, 1)
	assert.Equal(t, ledger.StatusFailed, l.completed[d.dispatched[0].ID])
}

func TestReceivePaystackWebhook_ReserveError(t *testing.T) {
	l := &mockLedger{reserveErr: errors.New("connection refused")}
	d := &mockDispatcher{}
	h := NewWebhookHandler(l, d, []byte(testWebhookSecret))

	body := chargeSuccessBody("ref_db_down")
	rec := postWebhook(t, h, body, webhook.Sign([]byte(body), []byte(testWebhookSecret)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, d.dispatched)
}

func TestReceivePaystackWebhook_SameBodySameEventID(t *testing.T) {
	l := &mockLedger{reserveResult: ledger.Reserved}
	d := &mockDispatcher{outcome: webhook.Completed()}
	h := NewWebhookHandler(l, d, []byte(testWebhookSecret))

	body := chargeSuccessBody("ref_stable")
	sig := webhook.Sign([]byte(body), []byte(testWebhookSecret))

	postWebhook(t, h, body, sig)
	postWebhook(t, h, body, sig)

	require.Len(t, l.reserved, 2)
	assert.Equal(t, l.reserved[0], l.reserved[1], "redelivery must reserve the same event id")
}
