package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/oseni-a/paystack-marketplace/internal/ledger"
	"github.com/oseni-a/paystack-marketplace/internal/logging"
	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

const maxWebhookBody = 1 << 20

type webhookLedger interface {
	Reserve(ctx context.Context, eventID string) (ledger.ReserveResult, error)
	Complete(ctx context.Context, eventID string, final ledger.Status) error
}

type webhookDispatcher interface {
	Dispatch(ctx context.Context, event webhook.Event) webhook.Outcome
}

// WebhookHandler is the ingestion endpoint for Paystack notifications. Per
// request: verify signature on the raw bytes, decode, reserve the event in
// the idempotency ledger, dispatch, and map the outcome to a status code
// that steers the sender's redelivery.
type WebhookHandler struct {
	ledger     webhookLedger
	dispatcher webhookDispatcher
	secret     []byte
}

func NewWebhookHandler(l webhookLedger, d webhookDispatcher, secret []byte) *WebhookHandler {
	return &WebhookHandler{ledger: l, dispatcher: d, secret: secret}
}

var receivedBody = map[string]bool{"received": true}

func (h *WebhookHandler) ReceivePaystackWebhook(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		log.Error("failed to read webhook body", "error", err)
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	sig := r.Header.Get(webhook.SignatureHeader)
	if !webhook.VerifySignature(body, sig, h.secret) {
		// No payload detail in this path: the body is unauthenticated.
		log.Warn("webhook signature verification failed")
		RespondAppError(w, ErrInvalidSignature, nil)
		return
	}

	event, err := webhook.Decode(body)
	if err != nil {
		log.Warn("webhook payload rejected", "error", err)
		RespondAppError(w, ErrMalformedPayload, nil)
		return
	}

	log = log.With("event_id", event.ID, "kind", event.Kind)

	res, err := h.ledger.Reserve(r.Context(), event.ID)
	if err != nil {
		log.Error("ledger reservation failed", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	switch res {
	case ledger.AlreadyCompleted:
		log.Info("duplicate delivery of completed event acknowledged")
		RespondJSON(w, http.StatusOK, receivedBody)
		return
	case ledger.AlreadyFailed:
		log.Warn("delivery of terminally failed event acknowledged, manual intervention required")
		RespondJSON(w, http.StatusOK, receivedBody)
		return
	case ledger.AlreadyInProgress:
		log.Info("concurrent delivery rejected, reservation still fresh")
		RespondAppError(w, ErrEventInProgress, nil)
		return
	}

	outcome := h.dispatcher.Dispatch(r.Context(), event)

	// The reservation outlives the inbound connection; ledger completion
	// must too.
	ctx := context.WithoutCancel(r.Context())

	switch outcome.Status {
	case webhook.OutcomeCompleted, webhook.OutcomeIgnored:
		if err := h.ledger.Complete(ctx, event.ID, ledger.StatusCompleted); err != nil {
			// The transition itself is done and self-guarding, so a
			// redelivery after the staleness window is harmless.
			log.Error("failed to complete ledger record", "error", err)
			RespondAppError(w, ErrInternalError, nil)
			return
		}
		log.Info("webhook processed", "outcome", outcome.Status.String())
		RespondJSON(w, http.StatusOK, receivedBody)
	case webhook.OutcomeFailed:
		log.Error("webhook handler failed",
			"error", outcome.Err,
			"terminal", outcome.Terminal,
		)
		if outcome.Terminal {
			if err := h.ledger.Complete(ctx, event.ID, ledger.StatusFailed); err != nil {
				log.Error("failed to record terminal failure", "error", err)
			}
		}
		// Non-terminal failures leave the record in_progress; the
		// staleness window reclaims it on a later redelivery.
		RespondAppError(w, ErrEventHandlerFailed, nil)
	default:
		log.Error("dispatcher returned unknown outcome", "outcome", int(outcome.Status))
		RespondAppError(w, ErrInternalError, nil)
	}
}
