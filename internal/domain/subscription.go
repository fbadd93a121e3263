package domain

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusDisabled SubscriptionStatus = "disabled"
)

type Subscription struct {
	ID               uuid.UUID
	SubscriptionCode string
	CustomerCode     string
	PlanCode         string
	Status           SubscriptionStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
