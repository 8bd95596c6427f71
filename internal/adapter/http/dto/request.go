package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Direction string `json:"direction"`
}

// Validate checks the request fields before they reach the use case. The
// name is optional; only the direction is constrained.
func (r *CreateAccountRequest) Validate() error {
	if !domain.Direction(r.Direction).Valid() {
		return &domain.ValidationError{Field: "direction", Reason: "must be debit or credit"}
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		ID:        r.ID,
		Name:      r.Name,
		Direction: domain.Direction(r.Direction),
	}
}

// EntryRequest represents a single entry in a transaction request.
type EntryRequest struct {
	ID        string          `json:"id,omitempty"`
	AccountID string          `json:"account_id"`
	Direction string          `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
}

// CreateTransactionRequest represents a request to post a transaction.
type CreateTransactionRequest struct {
	ID      string         `json:"id,omitempty"`
	Name    string         `json:"name"`
	Entries []EntryRequest `json:"entries"`
}

// Validate checks the request fields before they reach the use case.
// Balance, precision and account existence are checked deeper in the stack.
func (r *CreateTransactionRequest) Validate() error {
	for i, e := range r.Entries {
		if e.AccountID == "" {
			return &domain.ValidationError{
				Field:  fmt.Sprintf("entries[%d].account_id", i),
				Reason: "must not be empty",
			}
		}
		if !domain.Direction(e.Direction).Valid() {
			return &domain.ValidationError{
				Field:  fmt.Sprintf("entries[%d].direction", i),
				Reason: "must be debit or credit",
			}
		}
		if !e.Amount.IsPositive() {
			return &domain.ValidationError{
				Field:  fmt.Sprintf("entries[%d].amount", i),
				Reason: "must be positive",
			}
		}
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	entries := make([]usecase.CreateEntryInput, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = usecase.CreateEntryInput{
			ID:        e.ID,
			AccountID: e.AccountID,
			Direction: domain.Direction(e.Direction),
			Amount:    e.Amount,
		}
	}
	return usecase.CreateTransactionInput{
		ID:      r.ID,
		Name:    r.Name,
		Entries: entries,
	}
}
