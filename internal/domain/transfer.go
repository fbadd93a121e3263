package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransferStatus string

const (
	TransferStatusPending    TransferStatus = "pending"
	TransferStatusProcessing TransferStatus = "processing"
	TransferStatusCompleted  TransferStatus = "completed"
	TransferStatusFailed     TransferStatus = "failed"
	TransferStatusReversed   TransferStatus = "reversed"
)

var (
	// A transfer settles or fails only while it is still in flight.
	TransferInFlightStatuses = []TransferStatus{
		TransferStatusPending,
		TransferStatusProcessing,
	}

	// A reversal only makes sense once the provider has reported a
	// terminal outcome for the payout.
	TransferReversiblePriorStatuses = []TransferStatus{
		TransferStatusCompleted,
		TransferStatusFailed,
	}
)

type Transfer struct {
	ID             uuid.UUID
	TransferCode   string
	RecipientCode  string
	AmountSubunits int64
	Currency       string
	Reason         string
	Status         TransferStatus
	FailureReason  *string
	TransferredAt  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
