package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
)

// AccountResponse represents an account in API responses. Balance is
// derived from the entry history at read time.
type AccountResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Direction string          `json:"direction"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountFromDomain converts a domain account with balance to a response.
func AccountFromDomain(a *domain.AccountWithBalance) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Direction: string(a.Direction),
		Balance:   a.Balance.Decimal(),
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.AccountWithBalance) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Direction string          `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Entries []*EntryResponse `json:"entries"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	domainEntries := t.Entries()
	entries := make([]*EntryResponse, len(domainEntries))
	for i, e := range domainEntries {
		entries[i] = &EntryResponse{
			ID:        e.ID,
			AccountID: e.AccountID,
			Direction: string(e.Direction),
			Amount:    e.Amount.Decimal(),
		}
	}
	return &TransactionResponse{
		ID:      t.ID(),
		Name:    t.Name(),
		Entries: entries,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse wraps a list of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// ErrorResponse represents an error in API responses. For duplicate
// submissions OriginalTransactionID names the transaction that already
// recorded the payload.
type ErrorResponse struct {
	Error                 string `json:"error"`
	Message               string `json:"message,omitempty"`
	OriginalTransactionID string `json:"original_transaction_id,omitempty"`
}
