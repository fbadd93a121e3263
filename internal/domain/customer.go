package domain

import (
	"time"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "unverified"
	VerificationStatusPending    VerificationStatus = "pending"
	VerificationStatusVerified   VerificationStatus = "verified"
	VerificationStatusFailed     VerificationStatus = "verification_failed"
)

// VerifiablePriorStatuses are the states an identification result may act on.
// A customer that is already verified (or failed) keeps its outcome.
var VerifiablePriorStatuses = []VerificationStatus{
	VerificationStatusUnverified,
	VerificationStatusPending,
}

type Customer struct {
	ID                 uuid.UUID
	CustomerCode       string
	Email              string
	VerificationStatus VerificationStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
