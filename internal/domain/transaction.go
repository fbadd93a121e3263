package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending     TransactionStatus = "pending"
	TransactionStatusInitialized TransactionStatus = "initialized"
	TransactionStatusSettled     TransactionStatus = "settled"
	TransactionStatusAbandoned   TransactionStatus = "abandoned"
)

// SettleablePriorStatuses are the states from which a charge.success
// notification may settle a transaction. Anything else is treated as a
// reordered or duplicate delivery and left untouched.
var SettleablePriorStatuses = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusInitialized,
}

type Transaction struct {
	ID             uuid.UUID
	Reference      string
	CustomerEmail  string
	AmountSubunits int64
	Currency       string
	SubaccountCode *string
	Status         TransactionStatus
	Channel        *string
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
