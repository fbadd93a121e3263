package domain

import (
	"time"

	"github.com/google/uuid"
)

// Invoice models a Paystack payment request. The paymentrequest.* and
// invoice.* webhook families both act on this record.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusPending       InvoiceStatus = "pending"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusPaymentFailed InvoiceStatus = "payment_failed"
)

type Invoice struct {
	ID             uuid.UUID
	RequestCode    string
	CustomerCode   string
	AmountSubunits int64
	Currency       string
	Description    string
	Status         InvoiceStatus
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
