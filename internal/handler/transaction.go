package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/oseni-a/paystack-marketplace/internal/domain"
	"github.com/oseni-a/paystack-marketplace/internal/logging"
	"github.com/oseni-a/paystack-marketplace/internal/paystack"
)

type transactionClient interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeTransactionRequest) (*paystack.TransactionAuthorization, error)
	ListTransactions(ctx context.Context, params paystack.ListTransactionsParams) ([]paystack.Transaction, error)
}

type transactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
}

type TransactionHandler struct {
	client       transactionClient
	transactions transactionRepository
	validate     *validator.Validate
}

func NewTransactionHandler(client transactionClient, transactions transactionRepository, v *validator.Validate) *TransactionHandler {
	return &TransactionHandler{client: client, transactions: transactions, validate: v}
}

type initializeTransactionRequest struct {
	Email          string `json:"email" validate:"required,email"`
	AmountSubunits int64  `json:"amount" validate:"required,gt=0"`
	Currency       string `json:"currency"`
	SubaccountCode string `json:"subaccount"`
	CallbackURL    string `json:"callback_url" validate:"omitempty,url"`
}

// Initialize starts a checkout with Paystack and records a local pending
// transaction keyed by the returned reference; charge.success later settles it.
func (h *TransactionHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req initializeTransactionRequest
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

	auth, err := h.client.InitializeTransaction(r.Context(), paystack.InitializeTransactionRequest{
		Email:          req.Email,
		AmountSubunits: req.AmountSubunits,
		Currency:       currency,
		CallbackURL:    req.CallbackURL,
		SubaccountCode: req.SubaccountCode,
	})
	if err != nil {
		log.Error("transaction initialization failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	now := time.Now().UTC()
	var subaccount *string
	if req.SubaccountCode != "" {
		subaccount = &req.SubaccountCode
	}
	tx := &domain.Transaction{
		ID:             uuid.New(),
		Reference:      auth.Reference,
		CustomerEmail:  req.Email,
		AmountSubunits: req.AmountSubunits,
		Currency:       currency,
		SubaccountCode: subaccount,
		Status:         domain.TransactionStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.transactions.Create(r.Context(), tx); err != nil {
		log.Error("failed to record pending transaction", "reference", auth.Reference, "error", err)
		RespondDomainError(w, err)
		return
	}

	log.Info("transaction initialized", "reference", auth.Reference)
	RespondSuccess(w, http.StatusCreated, auth)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	params := paystack.ListTransactionsParams{
		Status: r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("perPage"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.PerPage = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.Page = n
		}
	}

	txs, err := h.client.ListTransactions(r.Context(), params)
	if err != nil {
		log.Error("transaction list failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, txs)
}
