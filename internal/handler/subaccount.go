package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/oseni-a/paystack-marketplace/internal/logging"
	"github.com/oseni-a/paystack-marketplace/internal/paystack"
)

type subaccountClient interface {
	CreateSubaccount(ctx context.Context, req paystack.CreateSubaccountRequest) (*paystack.Subaccount, error)
}

type SubaccountHandler struct {
	client   subaccountClient
	validate *validator.Validate
}

func NewSubaccountHandler(client subaccountClient, v *validator.Validate) *SubaccountHandler {
	return &SubaccountHandler{client: client, validate: v}
}

type createSubaccountRequest struct {
	BusinessName        string          `json:"business_name" validate:"required"`
	SettlementBank      string          `json:"settlement_bank" validate:"required"`
	AccountNumber       string          `json:"account_number" validate:"required,len=10,numeric"`
	PercentageCharge    decimal.Decimal `json:"percentage_charge" validate:"required"`
	Description         string          `json:"description"`
	PrimaryContactEmail string          `json:"primary_contact_email" validate:"omitempty,email"`
	PrimaryContactName  string          `json:"primary_contact_name"`
	PrimaryContactPhone string          `json:"primary_contact_phone"`
}

func (h *SubaccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req createSubaccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	fields := validateStruct(h.validate, req)
	if req.PercentageCharge.IsNegative() || req.PercentageCharge.GreaterThan(decimal.NewFromInt(100)) {
		fields = append(fields, FieldError{Field: "percentage_charge", Message: "must be between 0 and 100"})
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	sub, err := h.client.CreateSubaccount(r.Context(), paystack.CreateSubaccountRequest{
		BusinessName:        req.BusinessName,
		SettlementBank:      req.SettlementBank,
		AccountNumber:       req.AccountNumber,
		PercentageCharge:    req.PercentageCharge,
		Description:         req.Description,
		PrimaryContactEmail: req.PrimaryContactEmail,
		PrimaryContactName:  req.PrimaryContactName,
		PrimaryContactPhone: req.PrimaryContactPhone,
	})
	if err != nil {
		log.Error("subaccount creation failed", "business_name", req.BusinessName, "error", err)
		RespondDomainError(w, err)
		return
	}

	log.Info("subaccount created", "subaccount_code", sub.SubaccountCode)
	RespondSuccess(w, http.StatusCreated, sub)
}
