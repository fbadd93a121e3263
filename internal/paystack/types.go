package paystack

import "github.com/shopspring/decimal"

type Bank struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Code     string `json:"code"`
	Currency string `json:"currency"`
}

type AccountResolution struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

type Balance struct {
	Currency string `json:"currency"`
	Balance  int64  `json:"balance"`
}

type CreateSubaccountRequest struct {
	BusinessName        string          `json:"business_name"`
	SettlementBank      string          `json:"settlement_bank"`
	AccountNumber       string          `json:"account_number"`
	PercentageCharge    decimal.Decimal `json:"percentage_charge"`
	Description         string          `json:"description,omitempty"`
	PrimaryContactEmail string          `json:"primary_contact_email,omitempty"`
	PrimaryContactName  string          `json:"primary_contact_name,omitempty"`
	PrimaryContactPhone string          `json:"primary_contact_phone,omitempty"`
}

type Subaccount struct {
	ID               int64           `json:"id"`
	SubaccountCode   string          `json:"subaccount_code"`
	BusinessName     string          `json:"business_name"`
	SettlementBank   string          `json:"settlement_bank"`
	AccountNumber    string          `json:"account_number"`
	PercentageCharge decimal.Decimal `json:"percentage_charge"`
	Active           bool            `json:"active"`
}

type InitializeTransactionRequest struct {
	Email          string `json:"email"`
	AmountSubunits int64  `json:"amount"`
	Currency       string `json:"currency,omitempty"`
	Reference      string `json:"reference,omitempty"`
	CallbackURL    string `json:"callback_url,omitempty"`
	SubaccountCode string `json:"subaccount,omitempty"`
	Bearer         string `json:"bearer,omitempty"`
}

type TransactionAuthorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type Transaction struct {
	ID             int64  `json:"id"`
	Reference      string `json:"reference"`
	AmountSubunits int64  `json:"amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	Channel        string `json:"channel"`
	PaidAt         string `json:"paid_at"`
	Customer       struct {
		Email        string `json:"email"`
		CustomerCode string `json:"customer_code"`
	} `json:"customer"`
}

type ListTransactionsParams struct {
	PerPage int
	Page    int
	Status  string
}

type CreateTransferRecipientRequest struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	Currency      string `json:"currency,omitempty"`
}

type TransferRecipient struct {
	ID            int64  `json:"id"`
	RecipientCode string `json:"recipient_code"`
	Type          string `json:"type"`
	Name          string `json:"name"`
}

type InitiateTransferRequest struct {
	Source         string `json:"source"`
	AmountSubunits int64  `json:"amount"`
	RecipientCode  string `json:"recipient"`
	Reason         string `json:"reason,omitempty"`
	Currency       string `json:"currency,omitempty"`
	Reference      string `json:"reference,omitempty"`
}

type Transfer struct {
	ID             int64  `json:"id"`
	TransferCode   string `json:"transfer_code"`
	AmountSubunits int64  `json:"amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	Reference      string `json:"reference"`
}
