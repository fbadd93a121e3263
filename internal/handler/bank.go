package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/oseni-a/paystack-marketplace/internal/cache"
	"github.com/oseni-a/paystack-marketplace/internal/logging"
	"github.com/oseni-a/paystack-marketplace/internal/paystack"
)

type bankClient interface {
	ListBanks(ctx context.Context, country string) ([]paystack.Bank, error)
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*paystack.AccountResolution, error)
}

// Bank lists change rarely; the resolve endpoint is never cached because it
// is used to verify fresh account details during onboarding.
const bankListTTL = 12 * time.Hour

type BankHandler struct {
	client bankClient
	cache  *cache.Cache
}

func NewBankHandler(client bankClient, c *cache.Cache) *BankHandler {
	return &BankHandler{client: client, cache: c}
}

func (h *BankHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	country := r.URL.Query().Get("country")
	if country == "" {
		country = "nigeria"
	}
	cacheKey := "banks:" + country

	var banks []paystack.Bank
	hit, err := h.cache.GetJSON(r.Context(), cacheKey, &banks)
	if err != nil {
		log.Warn("bank list cache read failed", "error", err)
	}
	if hit {
		RespondSuccess(w, http.StatusOK, banks)
		return
	}

	banks, err = h.client.ListBanks(r.Context(), country)
	if err != nil {
		log.Error("bank list fetch failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	if err := h.cache.SetJSON(r.Context(), cacheKey, banks, bankListTTL); err != nil {
		log.Warn("bank list cache write failed", "error", err)
	}

	RespondSuccess(w, http.StatusOK, banks)
}

func (h *BankHandler) ResolveAccount(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	accountNumber := r.URL.Query().Get("account_number")
	bankCode := r.URL.Query().Get("bank_code")

	var fields []FieldError
	if accountNumber == "" {
		fields = append(fields, FieldError{Field: "account_number", Message: "required"})
	}
	if bankCode == "" {
		fields = append(fields, FieldError{Field: "bank_code", Message: "required"})
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	resolution, err := h.client.ResolveAccount(r.Context(), accountNumber, bankCode)
	if err != nil {
		log.Warn("account resolution failed", "bank_code", bankCode, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, resolution)
}
