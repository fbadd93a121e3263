// Package webhook implements the inbound Paystack notification pipeline:
// signature verification, payload decoding and handler dispatch.
package webhook

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

type Kind string

const (
	KindChargeSuccess                 Kind = "charge.success"
	KindTransferSuccess               Kind = "transfer.success"
	KindTransferFailed                Kind = "transfer.failed"
	KindTransferReversed              Kind = "transfer.reversed"
	KindCustomerIdentificationSuccess Kind = "customer_identification.success"
	KindCustomerIdentificationFailed  Kind = "customer_identification.failed"
	KindPaymentRequestPending         Kind = "payment_request.pending"
	KindPaymentRequestSuccess         Kind = "payment_request.success"
	KindSubscriptionCreate            Kind = "subscription.create"
	KindSubscriptionDisable           Kind = "subscription.disable"
	KindInvoiceCreate                 Kind = "invoice.create"
	KindInvoiceUpdate                 Kind = "invoice.update"
	KindInvoicePaymentFailed          Kind = "invoice.payment_failed"
	KindUnrecognized                  Kind = "unrecognized"
)

// kindByEventType maps the event-type strings Paystack declares on the wire
// to kinds. Paystack spells the customer-identification and payment-request
// families without separators.
var kindByEventType = map[string]Kind{
	"charge.success":                 KindChargeSuccess,
	"transfer.success":               KindTransferSuccess,
	"transfer.failed":                KindTransferFailed,
	"transfer.reversed":              KindTransferReversed,
	"customeridentification.success": KindCustomerIdentificationSuccess,
	"customeridentification.failed":  KindCustomerIdentificationFailed,
	"paymentrequest.pending":         KindPaymentRequestPending,
	"paymentrequest.success":         KindPaymentRequestSuccess,
	"subscription.create":            KindSubscriptionCreate,
	"subscription.disable":           KindSubscriptionDisable,
	"invoice.create":                 KindInvoiceCreate,
	"invoice.update":                 KindInvoiceUpdate,
	"invoice.payment_failed":         KindInvoicePaymentFailed,
}

var ErrMalformedPayload = errors.New("malformed webhook payload")

// Data is the union of the kind-specific fields the handlers read. Fields
// absent from a given payload stay zero.
type Data struct {
	ID               int64  `json:"id"`
	Reference        string `json:"reference"`
	TransferCode     string `json:"transfer_code"`
	CustomerCode     string `json:"customer_code"`
	SubscriptionCode string `json:"subscription_code"`
	RequestCode      string `json:"request_code"`
	Status           string `json:"status"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Reason           string `json:"reason"`
	Description      string `json:"description"`
	Channel          string `json:"channel"`
	Email            string `json:"email"`

	PaidAt        string `json:"paid_at"`
	TransferredAt string `json:"transferred_at"`
	UpdatedAt     string `json:"updated_at"`
	CreatedAt     string `json:"created_at"`

	Customer struct {
		CustomerCode string `json:"customer_code"`
		Email        string `json:"email"`
	} `json:"customer"`
	Plan struct {
		PlanCode string `json:"plan_code"`
	} `json:"plan"`
	Recipient struct {
		RecipientCode string `json:"recipient_code"`
	} `json:"recipient"`
}

// Event is the decoded unit of work. ID is derived deterministically from the
// payload and serves as the idempotency key.
type Event struct {
	ID           string
	Kind         Kind
	DeclaredType string
	OccurredAt   time.Time
	Data         Data
	Raw          json.RawMessage
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Decode parses a verified raw body into an Event. Unknown event-type strings
// are not an error: they decode to KindUnrecognized so new Paystack event
// families never bounce deliveries.
func Decode(rawBody []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return Event{}, fmt.Errorf("decode: %w: %s", ErrMalformedPayload, "invalid JSON")
	}
	if env.Event == "" {
		return Event{}, fmt.Errorf("decode: %w: %s", ErrMalformedPayload, "missing event type")
	}

	var data Data
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return Event{}, fmt.Errorf("decode: %w: %s", ErrMalformedPayload, "invalid data block")
		}
	}

	kind, ok := kindByEventType[env.Event]
	if !ok {
		kind = KindUnrecognized
	}

	occurredAt, hasPayloadTime := payloadTime(data)
	if !hasPayloadTime {
		occurredAt = time.Now().UTC()
	}

	return Event{
		ID:           deriveEventID(env.Event, kind, data, rawBody),
		Kind:         kind,
		DeclaredType: env.Event,
		OccurredAt:   occurredAt,
		Data:         data,
		Raw:          env.Data,
	}, nil
}

// PrimaryReference is the processor-assigned key the event's handler keys
// its state transition on.
func (e Event) PrimaryReference() string {
	return primaryReference(e.Kind, e.Data)
}

func primaryReference(kind Kind, data Data) string {
	switch kind {
	case KindChargeSuccess:
		return data.Reference
	case KindTransferSuccess, KindTransferFailed, KindTransferReversed:
		return data.TransferCode
	case KindCustomerIdentificationSuccess, KindCustomerIdentificationFailed:
		return data.CustomerCode
	case KindSubscriptionCreate, KindSubscriptionDisable:
		return data.SubscriptionCode
	case KindPaymentRequestPending, KindPaymentRequestSuccess,
		KindInvoiceCreate, KindInvoiceUpdate, KindInvoicePaymentFailed:
		if data.RequestCode != "" {
			return data.RequestCode
		}
		if data.ID != 0 {
			return strconv.FormatInt(data.ID, 10)
		}
		return ""
	default:
		return ""
	}
}

// deriveEventID computes the idempotency key. Paystack supplies no stable
// event identifier, so the key is a SHA-256 over the declared type, the
// primary reference and the payload timestamp (when present). Payloads with
// no usable reference fall back to hashing the raw body, which is identical
// across redeliveries of the same delivery attempt.
func deriveEventID(declared string, kind Kind, data Data, rawBody []byte) string {
	ref := primaryReference(kind, data)
	if ref == "" {
		sum := sha256.Sum256(rawBody)
		return hex.EncodeToString(sum[:])
	}

	h := sha256.New()
	io.WriteString(h, declared)
	h.Write([]byte{'\n'})
	io.WriteString(h, ref)
	h.Write([]byte{'\n'})
	if ts, ok := payloadTime(data); ok {
		// Truncated to whole seconds so redeliveries that differ only in
		// sub-second rendering hash identically.
		io.WriteString(h, ts.UTC().Format(time.RFC3339))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func payloadTime(data Data) (time.Time, bool) {
	for _, candidate := range []string{data.PaidAt, data.TransferredAt, data.UpdatedAt, data.CreatedAt} {
		if candidate == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, candidate); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
