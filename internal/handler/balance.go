package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/oseni-a/paystack-marketplace/internal/cache"
	"github.com/oseni-a/paystack-marketplace/internal/logging"
	"github.com/oseni-a/paystack-marketplace/internal/paystack"
)

type balanceClient interface {
	FetchBalance(ctx context.Context) ([]paystack.Balance, error)
}

const balanceTTL = 30 * time.Second

type BalanceHandler struct {
	client balanceClient
	cache  *cache.Cache
}

func NewBalanceHandler(client balanceClient, c *cache.Cache) *BalanceHandler {
	return &BalanceHandler{client: client, cache: c}
}

func (h *BalanceHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var balances []paystack.Balance
	hit, err := h.cache.GetJSON(r.Context(), "balance", &balances)
	if err != nil {
		log.Warn("balance cache read failed", "error", err)
	}
	if hit {
		RespondSuccess(w, http.StatusOK, balances)
		return
	}

	balances, err = h.client.FetchBalance(r.Context())
	if err != nil {
		log.Error("balance fetch failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	if err := h.cache.SetJSON(r.Context(), "balance", balances, balanceTTL); err != nil {
		log.Warn("balance cache write failed", "error", err)
	}

	RespondSuccess(w, http.StatusOK, balances)
}
