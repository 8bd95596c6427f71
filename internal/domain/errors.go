package domain

import (
	"errors"
	"fmt"
)

var (
	// Lookup errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Transaction invariant errors
	ErrEmptyTransaction      = errors.New("transaction must have at least one entry")
	ErrUnbalancedTransaction = errors.New("transaction entries must balance: sum of debits must equal sum of credits")
	ErrDuplicateTransaction  = errors.New("duplicate transaction")

	// Money errors
	ErrInvalidAmount     = errors.New("invalid monetary amount")
	ErrPrecisionExceeded = errors.New("amount must have at most 2 decimal places")
	ErrCurrencyMismatch  = errors.New("currency mismatch")

	// Store errors
	ErrImmutableLedger = errors.New("the ledger is immutable: accounts, transactions and entries cannot be deleted")
)

// DuplicateTransactionError reports a resubmission of an already-processed
// transaction payload. OriginalID is the id of the transaction created by the
// first submission; it is empty when the first submission is still in flight.
type DuplicateTransactionError struct {
	OriginalID string
}

func (e *DuplicateTransactionError) Error() string {
	if e.OriginalID == "" {
		return "duplicate transaction: original submission is still being processed"
	}

	return fmt.Sprintf("duplicate transaction: original transaction id %s", e.OriginalID)
}

// Is makes the error match ErrDuplicateTransaction under errors.Is.
func (e *DuplicateTransactionError) Is(target error) bool {
	return target == ErrDuplicateTransaction
}

// ValidationError reports a malformed field in an inbound request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
