package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
)

func SeedTransaction(t *testing.T, db *sql.DB, reference string, status domain.TransactionStatus) *domain.Transaction {
	t.Helper()

	now := time.Now().UTC()
	tx := &domain.Transaction{
		ID:             uuid.New(),
		Reference:      reference,
		CustomerEmail:  "buyer@example.com",
		AmountSubunits: 500_000,
		Currency:       "NGN",
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := db.Exec(
		`INSERT INTO transactions (id, reference, customer_email, amount, currency, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.Reference, tx.CustomerEmail, tx.AmountSubunits, tx.Currency, tx.Status, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed transaction %s: %v", reference, err)
	}
	return tx
}

func SeedTransfer(t *testing.T, db *sql.DB, transferCode string, status domain.TransferStatus) *domain.Transfer {
	t.Helper()

	now := time.Now().UTC()
	tr := &domain.Transfer{
		ID:             uuid.New(),
		TransferCode:   transferCode,
		RecipientCode:  "RCP_test",
		AmountSubunits: 250_000,
		Currency:       "NGN",
		Reason:         "payout",
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := db.Exec(
		`INSERT INTO transfers (id, transfer_code, recipient_code, amount, currency, reason, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tr.ID, tr.TransferCode, tr.RecipientCode, tr.AmountSubunits, tr.Currency, tr.Reason, tr.Status, tr.CreatedAt, tr.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed transfer %s: %v", transferCode, err)
	}
	return tr
}

func SeedCustomer(t *testing.T, db *sql.DB, customerCode string, status domain.VerificationStatus) *domain.Customer {
	t.Helper()

	now := time.Now().UTC()
	c := &domain.Customer{
		ID:                 uuid.New(),
		CustomerCode:       customerCode,
		Email:              "buyer@example.com",
		VerificationStatus: status,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	_, err := db.Exec(
		`INSERT INTO customers (id, customer_code, email, verification_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.CustomerCode, c.Email, c.VerificationStatus, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed customer %s: %v", customerCode, err)
	}
	return c
}

func SeedSubscription(t *testing.T, db *sql.DB, subscriptionCode string, status domain.SubscriptionStatus) *domain.Subscription {
	t.Helper()

	now := time.Now().UTC()
	s := &domain.Subscription{
		ID:               uuid.New(),
		SubscriptionCode: subscriptionCode,
		CustomerCode:     "CUS_test",
		PlanCode:         "PLN_test",
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := db.Exec(
		`INSERT INTO subscriptions (id, subscription_code, customer_code, plan_code, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.SubscriptionCode, s.CustomerCode, s.PlanCode, s.Status, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed subscription %s: %v", subscriptionCode, err)
	}
	return s
}

func SeedInvoice(t *testing.T, db *sql.DB, requestCode string, status domain.InvoiceStatus) *domain.Invoice {
	t.Helper()

	now := time.Now().UTC()
	inv := &domain.Invoice{
		ID:             uuid.New(),
		RequestCode:    requestCode,
		CustomerCode:   "CUS_test",
		AmountSubunits: 120_000,
		Currency:       "NGN",
		Description:    "monthly settlement",
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := db.Exec(
		`INSERT INTO invoices (id, request_code, customer_code, amount, currency, description, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		inv.ID, inv.RequestCode, inv.CustomerCode, inv.AmountSubunits, inv.Currency, inv.Description, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed invoice %s: %v", requestCode, err)
	}
	return inv
}

func GetTransactionStatus(t *testing.T, db *sql.DB, reference string) domain.TransactionStatus {
	t.Helper()

	var status domain.TransactionStatus
	err := db.QueryRow(`SELECT status FROM transactions WHERE reference = $1`, reference).Scan(&status)
	if err != nil {
		t.Fatalf("get transaction status %s: %v", reference, err)
	}
	return status
}

func GetTransferStatus(t *testing.T, db *sql.DB, transferCode string) domain.TransferStatus {
	t.Helper()

	var status domain.TransferStatus
	err := db.QueryRow(`SELECT status FROM transfers WHERE transfer_code = $1`, transferCode).Scan(&status)
	if err != nil {
		t.Fatalf("get transfer status %s: %v", transferCode, err)
	}
	return status
}

func GetLedgerStatus(t *testing.T, db *sql.DB, eventID string) string {
	t.Helper()

	var status string
	err := db.QueryRow(`SELECT status FROM webhook_events WHERE event_id = $1`, eventID).Scan(&status)
	if err != nil {
		t.Fatalf("get ledger status %s: %v", eventID, err)
	}
	return status
}
