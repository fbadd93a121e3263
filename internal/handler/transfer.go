package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
	"github.com/oseni-a/paystack-marketplace/internal/logging"
	"github.com/oseni-a/paystack-marketplace/internal/paystack"
)

type transferClient interface {
	CreateTransferRecipient(ctx context.Context, req paystack.CreateTransferRecipientRequest) (*paystack.TransferRecipient, error)
	InitiateTransfer(ctx context.Context, req paystack.InitiateTransferRequest) (*paystack.Transfer, error)
}

type transferRepository interface {
	Create(ctx context.Context, t *domain.Transfer) error
}

type TransferHandler struct {
	client    transferClient
	transfers transferRepository
	validate  *validator.Validate
}

func NewTransferHandler(client transferClient, transfers transferRepository, v *validator.Validate) *TransferHandler {
	return &TransferHandler{client: client, transfers: transfers, validate: v}
}

type initiateTransferRequest struct {
	Name           string `json:"name" validate:"required"`
	AccountNumber  string `json:"account_number" validate:"required,len=10,numeric"`
	BankCode       string `json:"bank_code" validate:"required"`
	AmountSubunits int64  `json:"amount" validate:"required,gt=0"`
	Currency       string `json:"currency"`
	Reason         string `json:"reason"`
}

// Initiate creates a transfer recipient and starts the payout, then records
// a local pending transfer keyed by the transfer code. The transfer.* webhook
// family drives the rest of its lifecycle.
func (h *TransferHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req initiateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := validateStruct(h.validate, req); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "NGN"
	}

	recipient, err := h.client.CreateTransferRecipient(r.Context(), paystack.CreateTransferRecipientRequest{
		Type:          "nuban",
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		BankCode:      req.BankCode,
		Currency:      currency,
	})
	if err != nil {
		log.Error("transfer recipient creation failed", "bank_code", req.BankCode, "error", err)
		RespondDomainError(w, err)
		return
	}

	transfer, err := h.client.InitiateTransfer(r.Context(), paystack.InitiateTransferRequest{
		Source:         "balance",
		AmountSubunits: req.AmountSubunits,
		RecipientCode:  recipient.RecipientCode,
		Reason:         req.Reason,
		Currency:       currency,
	})
	if err != nil {
		log.Error("transfer initiation failed", "recipient_code", recipient.RecipientCode, "error", err)
		RespondDomainError(w, err)
		return
	}

	now := time.Now().UTC()
	local := &domain.Transfer{
		ID:             uuid.New(),
		TransferCode:   transfer.TransferCode,
		RecipientCode:  recipient.RecipientCode,
		AmountSubunits: req.AmountSubunits,
		Currency:       currency,
		Reason:         req.Reason,
		Status:         domain.TransferStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.transfers.Create(r.Context(), local); err != nil {
		log.Error("failed to record pending transfer", "transfer_code", transfer.TransferCode, "error", err)
		RespondDomainError(w, err)
		return
	}

	log.Info("transfer initiated", "transfer_code", transfer.TransferCode)
	RespondSuccess(w, http.StatusCreated, transfer)
}
