// Package paystack is a typed client for the subset of the Paystack REST API
// this service consumes. The client is constructed explicitly and injected;
// there is no package-level instance.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oseni-a/paystack-marketplace/internal/logging"
)

const defaultBaseURL = "https://api.paystack.co"

// APIError is a non-2xx or status:false response from Paystack. The message
// comes from the response envelope and is safe to log.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paystack: %d %s", e.StatusCode, e.Message)
}

type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope is the uniform Paystack response shape.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("do: marshal: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("do: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	logging.FromContext(ctx).Debug("paystack request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("do: read body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "unparseable response"}
	}
	if resp.StatusCode >= 400 || !env.Status {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("do: decode data: %w", err)
		}
	}
	return nil
}

func (c *Client) ListBanks(ctx context.Context, country string) ([]Bank, error) {
	query := url.Values{}
	if country != "" {
		query.Set("country", country)
	}
	var banks []Bank
	if err := c.do(ctx, http.MethodGet, "/bank", query, nil, &banks); err != nil {
		return nil, fmt.Errorf("ListBanks: %w", err)
	}
	return banks, nil
}

func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*AccountResolution, error) {
	query := url.Values{}
	query.Set("account_number", accountNumber)
	query.Set("bank_code", bankCode)
	var res AccountResolution
	if err := c.do(ctx, http.MethodGet, "/bank/resolve", query, nil, &res); err != nil {
		return nil, fmt.Errorf("ResolveAccount: %w", err)
	}
	return &res, nil
}

func (c *Client) FetchBalance(ctx context.Context) ([]Balance, error) {
	var balances []Balance
	if err := c.do(ctx, http.MethodGet, "/balance", nil, nil, &balances); err != nil {
		return nil, fmt.Errorf("FetchBalance: %w", err)
	}
	return balances, nil
}

func (c *Client) CreateSubaccount(ctx context.Context, req CreateSubaccountRequest) (*Subaccount, error) {
	var sub Subaccount
	if err := c.do(ctx, http.MethodPost, "/subaccount", nil, req, &sub); err != nil {
		return nil, fmt.Errorf("CreateSubaccount: %w", err)
	}
	return &sub, nil
}

func (c *Client) InitializeTransaction(ctx context.Context, req InitializeTransactionRequest) (*TransactionAuthorization, error) {
	var auth TransactionAuthorization
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", nil, req, &auth); err != nil {
		return nil, fmt.Errorf("InitializeTransaction: %w", err)
	}
	return &auth, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, nil, &tx); err != nil {
		return nil, fmt.Errorf("VerifyTransaction: %w", err)
	}
	return &tx, nil
}

func (c *Client) ListTransactions(ctx context.Context, params ListTransactionsParams) ([]Transaction, error) {
	query := url.Values{}
	if params.PerPage > 0 {
		query.Set("perPage", strconv.Itoa(params.PerPage))
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	var txs []Transaction
	if err := c.do(ctx, http.MethodGet, "/transaction", query, nil, &txs); err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}
	return txs, nil
}

func (c *Client) CreateTransferRecipient(ctx context.Context, req CreateTransferRecipientRequest) (*TransferRecipient, error) {
	var rec TransferRecipient
	if err := c.do(ctx, http.MethodPost, "/transferrecipient", nil, req, &rec); err != nil {
		return nil, fmt.Errorf("CreateTransferRecipient: %w", err)
	}
	return &rec, nil
}

func (c *Client) InitiateTransfer(ctx context.Context, req InitiateTransferRequest) (*Transfer, error) {
	var tr Transfer
	if err := c.do(ctx, http.MethodPost, "/transfer", nil, req, &tr); err != nil {
		return nil, fmt.Errorf("InitiateTransfer: %w", err)
	}
	return &tr, nil
}
