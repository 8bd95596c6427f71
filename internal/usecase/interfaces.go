package usecase

import (
	"context"

	"github.com/iho/ledgerbook/internal/domain"
)

// AccountRepository defines data access for accounts. Save is
// insert-or-replace by id; Delete must always fail, the ledger is
// append-only.
type AccountRepository interface {
	Save(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	FindAll(ctx context.Context) ([]*domain.Account, error)
	Delete(ctx context.Context, id string) error
}

// TransactionRepository defines data access for transactions and their
// entries. Create is insert-only and writes the header and every entry
// atomically, or nothing at all; an existing id is rejected with
// DuplicateTransactionError carrying that id. Save keeps the
// replace-entries contract for audited correction flows. Delete must
// always fail.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	Save(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	FindAll(ctx context.Context) ([]*domain.Transaction, error)
	GetEntriesForAccount(ctx context.Context, accountID string) ([]domain.Entry, error)
	Delete(ctx context.Context, id string) error
}

// IdempotencyCache deduplicates transaction submissions within a time
// window. Implementations own their TTL.
type IdempotencyCache interface {
	// CheckAndReserve atomically claims key for the caller. Exactly one of
	// many racing callers gets reserved=true. When reserved is false,
	// existingID carries the transaction id recorded for the key, or "" if
	// the first submission is still in flight.
	CheckAndReserve(ctx context.Context, key string) (existingID string, reserved bool, err error)
	// Store records the outcome for a reserved key, restarting the TTL.
	Store(ctx context.Context, key, transactionID string) error
	// Release frees a reservation whose submission failed, so the payload
	// can be retried.
	Release(ctx context.Context, key string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
