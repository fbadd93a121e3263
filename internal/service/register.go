package service

import (
	"fmt"

	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

// RegisterHandlers binds every supported event kind to its handler. Kinds
// without a binding here (and unrecognized ones) are acknowledged and ignored
// by the dispatcher.
func RegisterHandlers(
	d *webhook.Dispatcher,
	charges *ChargeHandler,
	transfers *TransferHandler,
	customers *CustomerHandler,
	subscriptions *SubscriptionHandler,
	invoices *InvoiceHandler,
) error {
	bindings := []struct {
		kind webhook.Kind
		fn   webhook.HandlerFunc
	}{
		{webhook.KindChargeSuccess, charges.Success},
		{webhook.KindTransferSuccess, transfers.Success},
		{webhook.KindTransferFailed, transfers.Failed},
		{webhook.KindTransferReversed, transfers.Reversed},
		{webhook.KindCustomerIdentificationSuccess, customers.IdentificationSuccess},
		{webhook.KindCustomerIdentificationFailed, customers.IdentificationFailed},
		{webhook.KindSubscriptionCreate, subscriptions.Create},
		{webhook.KindSubscriptionDisable, subscriptions.Disable},
		{webhook.KindInvoiceCreate, invoices.Create},
		{webhook.KindInvoiceUpdate, invoices.Update},
		{webhook.KindInvoicePaymentFailed, invoices.PaymentFailed},
		{webhook.KindPaymentRequestPending, invoices.PaymentRequestPending},
		{webhook.KindPaymentRequestSuccess, invoices.PaymentRequestSuccess},
	}

	for _, b := range bindings {
		if err := d.Register(b.kind, b.fn); err != nil {
			return fmt.Errorf("RegisterHandlers: %w", err)
		}
	}
	return nil
}
