package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

func TestRegisterHandlers_BindsEverySupportedKind(t *testing.T) {
	d := webhook.NewDispatcher(time.Second)

	err := RegisterHandlers(
		d,
		NewChargeHandler(&mockTransactionRepo{}, nil),
		NewTransferHandler(&mockTransferRepo{}),
		NewCustomerHandler(&mockCustomerRepo{}),
		NewSubscriptionHandler(&mockSubscriptionRepo{}),
		NewInvoiceHandler(&mockInvoiceRepo{}),
	)
	require.NoError(t, err)

	// Every supported kind must route to a real handler. A kind reaching a
	// handler with an empty payload is rejected there, not ignored by the
	// dispatcher.
	kinds := []webhook.Kind{
		webhook.KindChargeSuccess,
		webhook.KindTransferSuccess,
		webhook.KindTransferFailed,
		webhook.KindTransferReversed,
		webhook.KindCustomerIdentificationSuccess,
		webhook.KindCustomerIdentificationFailed,
		webhook.KindSubscriptionCreate,
		webhook.KindSubscriptionDisable,
		webhook.KindInvoiceCreate,
		webhook.KindInvoiceUpdate,
		webhook.KindInvoicePaymentFailed,
		webhook.KindPaymentRequestPending,
		webhook.KindPaymentRequestSuccess,
	}

	for _, kind := range kinds {
		out := d.Dispatch(context.Background(), webhook.Event{ID: "ev_probe", Kind: kind})
		assert.NotEqual(t, webhook.OutcomeIgnored, out.Status, "kind %s has no handler", kind)
	}

	out := d.Dispatch(context.Background(), webhook.Event{ID: "ev_probe", Kind: webhook.KindUnrecognized})
	assert.Equal(t, webhook.OutcomeIgnored, out.Status)
}
