package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
)

// TransactionUseCase handles transaction posting and retrieval.
type TransactionUseCase struct {
	txRepo      TransactionRepository
	accountRepo AccountRepository
	cache       IdempotencyCache
	idGen       IDGenerator
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txRepo TransactionRepository,
	accountRepo AccountRepository,
	cache IdempotencyCache,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txRepo:      txRepo,
		accountRepo: accountRepo,
		cache:       cache,
		idGen:       idGen,
	}
}

// CreateEntryInput represents one movement in a transaction-creation
// request. ID is optional.
type CreateEntryInput struct {
	ID        string
	AccountID string
	Direction domain.Direction
	Amount    decimal.Decimal
}

// CreateTransactionInput represents input for posting a transaction. ID is
// optional; when empty a new id is generated.
type CreateTransactionInput struct {
	ID      string
	Name    string
	Entries []CreateEntryInput
}

// CreateTransaction posts a balanced transaction. The payload is
// fingerprinted (ids excluded) and checked against the idempotency cache
// before anything is persisted; a resubmission within the dedup window is
// rejected with DuplicateTransactionError carrying the original transaction
// id and causes no side effects. On any failure after the claim the
// reservation is released so a corrected payload can be retried.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	entries := make([]domain.Entry, 0, len(input.Entries))
	for _, in := range input.Entries {
		amount, err := domain.NewFromDecimal(in.Amount, domain.USD)
		if err != nil {
			return nil, err
		}

		id := in.ID
		if id == "" {
			id = uc.idGen.Generate()
		}

		entries = append(entries, domain.Entry{
			ID:        id,
			AccountID: in.AccountID,
			Direction: in.Direction,
			Amount:    amount,
		})
	}

	key := TransactionFingerprint(input.Name, entries)

	existingID, reserved, err := uc.cache.CheckAndReserve(ctx, key)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, &domain.DuplicateTransactionError{OriginalID: existingID}
	}

	tx, err := uc.buildAndSave(ctx, input, entries)
	if err != nil {
		_ = uc.cache.Release(ctx, key)
		return nil, err
	}

	// A failure to record the outcome leaves the pending claim to expire
	// with the TTL; posting already succeeded, so the transaction is
	// returned regardless.
	_ = uc.cache.Store(ctx, key, tx.ID())

	return tx, nil
}

func (uc *TransactionUseCase) buildAndSave(ctx context.Context, input CreateTransactionInput, entries []domain.Entry) (*domain.Transaction, error) {
	id := input.ID
	if id == "" {
		id = uc.idGen.Generate()
	}

	tx, err := domain.NewTransaction(id, input.Name, entries)
	if err != nil {
		return nil, err
	}

	// Referenced accounts must exist. The store enforces this too, but
	// checking here yields a precise not-found for the offending account.
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}

		if _, err := uc.accountRepo.GetByID(ctx, e.AccountID); err != nil {
			return nil, err
		}
	}

	// Creation only ever inserts. The store rejects an existing id with
	// DuplicateTransactionError; the replace-entries path of Save is
	// reserved for audited correction flows and is never reached here,
	// even when two submissions race on the same supplied id.
	if err := uc.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// GetTransaction retrieves a transaction with its entries.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// ListTransactions lists all transactions, most recently created first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return uc.txRepo.FindAll(ctx)
}

// DeleteTransaction always fails: the ledger is immutable.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	return uc.txRepo.Delete(ctx, id)
}
