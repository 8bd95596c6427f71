// Package memory provides an in-process implementation of the ledger store
// honoring the same contracts as the Postgres-backed one: atomic transaction
// saves, referential integrity, and the deletion prohibition. It backs tests
// and the embedded (no DATABASE_URL) mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/iho/ledgerbook/internal/domain"
)

// Ledger is the shared in-memory state behind both repositories. All
// mutation is serialized by one mutex, so a transaction save is observed as
// a single unit of work.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	txs      map[string]*domain.Transaction
	txOrder  []string
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[string]domain.Account),
		txs:      make(map[string]*domain.Transaction),
	}
}

// Accounts returns the account repository view of the ledger.
func (l *Ledger) Accounts() *AccountRepository {
	return &AccountRepository{ledger: l}
}

// Transactions returns the transaction repository view of the ledger.
func (l *Ledger) Transactions() *TransactionRepository {
	return &TransactionRepository{ledger: l}
}

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	ledger *Ledger
}

// Save inserts or replaces an account by id.
func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()

	r.ledger.accounts[account.ID] = *account

	return nil
}

// GetByID retrieves an account by id.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	account, ok := r.ledger.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return &account, nil
}

// FindAll returns all accounts ordered by name.
func (r *AccountRepository) FindAll(ctx context.Context) ([]*domain.Account, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.ledger.accounts))
	for _, account := range r.ledger.accounts {
		a := account
		accounts = append(accounts, &a)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })

	return accounts, nil
}

// Delete always fails: the ledger is immutable.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	return domain.ErrImmutableLedger
}

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	ledger *Ledger
}

// Create inserts the transaction and its entries as one unit. The existence
// check and the insert happen under the same lock, so of any number of
// racing creations with the same id exactly one wins; the rest get
// DuplicateTransactionError naming the winner.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()

	if _, ok := r.ledger.txs[transaction.ID()]; ok {
		return &domain.DuplicateTransactionError{OriginalID: transaction.ID()}
	}

	for _, e := range transaction.Entries() {
		if _, ok := r.ledger.accounts[e.AccountID]; !ok {
			return domain.ErrAccountNotFound
		}
	}

	r.ledger.txOrder = append(r.ledger.txOrder, transaction.ID())
	r.ledger.txs[transaction.ID()] = transaction

	return nil
}

// Save writes the transaction and its entries as one unit. Every entry must
// reference a known account; when any does not, nothing is written. Saving
// an existing id replaces its entries while keeping its original position in
// creation order.
func (r *TransactionRepository) Save(ctx context.Context, transaction *domain.Transaction) error {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()

	for _, e := range transaction.Entries() {
		if _, ok := r.ledger.accounts[e.AccountID]; !ok {
			return domain.ErrAccountNotFound
		}
	}

	if _, ok := r.ledger.txs[transaction.ID()]; !ok {
		r.ledger.txOrder = append(r.ledger.txOrder, transaction.ID())
	}
	r.ledger.txs[transaction.ID()] = transaction

	return nil
}

// GetByID retrieves a transaction with its entries.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	tx, ok := r.ledger.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	return tx, nil
}

// FindAll returns all transactions, most recently created first.
func (r *TransactionRepository) FindAll(ctx context.Context) ([]*domain.Transaction, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	txs := make([]*domain.Transaction, 0, len(r.ledger.txOrder))
	for i := len(r.ledger.txOrder) - 1; i >= 0; i-- {
		txs = append(txs, r.ledger.txs[r.ledger.txOrder[i]])
	}

	return txs, nil
}

// GetEntriesForAccount returns every entry touching the account.
func (r *TransactionRepository) GetEntriesForAccount(ctx context.Context, accountID string) ([]domain.Entry, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	var entries []domain.Entry
	for _, id := range r.ledger.txOrder {
		for _, e := range r.ledger.txs[id].Entries() {
			if e.AccountID == accountID {
				entries = append(entries, e)
			}
		}
	}

	return entries, nil
}

// Delete always fails: the ledger is immutable.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return domain.ErrImmutableLedger
}
