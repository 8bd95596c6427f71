package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/iho/ledgerbook/internal/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository. With
// no Func overrides it behaves as a map-backed store.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	SaveFunc    func(ctx context.Context, account *domain.Account) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Account, error)
	FindAllFunc func(ctx context.Context) ([]*domain.Account, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Save(ctx context.Context, account *domain.Account) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) FindAll(ctx context.Context) ([]*domain.Account, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return domain.ErrImmutableLedger
}

// MockTransactionRepository is a mock implementation of
// TransactionRepository. With no Func overrides it behaves as a map-backed
// store.
type MockTransactionRepository struct {
	mu    sync.RWMutex
	txs   map[string]*domain.Transaction
	order []string

	CreateFn                 func(ctx context.Context, tx *domain.Transaction) error
	SaveFunc                 func(ctx context.Context, tx *domain.Transaction) error
	GetByIDFunc              func(ctx context.Context, id string) (*domain.Transaction, error)
	FindAllFunc              func(ctx context.Context) ([]*domain.Transaction, error)
	GetEntriesForAccountFunc func(ctx context.Context, accountID string) ([]domain.Entry, error)
	DeleteFunc               func(ctx context.Context, id string) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		txs: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txs[tx.ID()]; ok {
		return &domain.DuplicateTransactionError{OriginalID: tx.ID()}
	}
	m.order = append(m.order, tx.ID())
	m.txs[tx.ID()] = tx
	return nil
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txs[tx.ID()]; !ok {
		m.order = append(m.order, tx.ID())
	}
	m.txs[tx.ID()] = tx
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tx, ok := m.txs[id]; ok {
		return tx, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) FindAll(ctx context.Context) ([]*domain.Transaction, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	txs := make([]*domain.Transaction, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		txs = append(txs, m.txs[m.order[i]])
	}
	return txs, nil
}

func (m *MockTransactionRepository) GetEntriesForAccount(ctx context.Context, accountID string) ([]domain.Entry, error) {
	if m.GetEntriesForAccountFunc != nil {
		return m.GetEntriesForAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []domain.Entry
	for _, id := range m.order {
		for _, e := range m.txs[id].Entries() {
			if e.AccountID == accountID {
				entries = append(entries, e)
			}
		}
	}
	return entries, nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return domain.ErrImmutableLedger
}

// MockIdempotencyCache is a mock implementation of IdempotencyCache. With no
// Func overrides it behaves as a map-backed cache without expiry.
type MockIdempotencyCache struct {
	mu      sync.Mutex
	results map[string]string
	pending map[string]bool

	CheckAndReserveFunc func(ctx context.Context, key string) (string, bool, error)
	StoreFunc           func(ctx context.Context, key, transactionID string) error
	ReleaseFunc         func(ctx context.Context, key string) error
}

func NewMockIdempotencyCache() *MockIdempotencyCache {
	return &MockIdempotencyCache{
		results: make(map[string]string),
		pending: make(map[string]bool),
	}
}

func (m *MockIdempotencyCache) CheckAndReserve(ctx context.Context, key string) (string, bool, error) {
	if m.CheckAndReserveFunc != nil {
		return m.CheckAndReserveFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.results[key]; ok {
		return id, false, nil
	}
	if m.pending[key] {
		return "", false, nil
	}
	m.pending[key] = true
	return "", true, nil
}

func (m *MockIdempotencyCache) Store(ctx context.Context, key, transactionID string) error {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, key, transactionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	m.results[key] = transactionID
	return nil
}

func (m *MockIdempotencyCache) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	delete(m.results, key)
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator. With no Func
// override it generates real UUIDs.
type MockIDGenerator struct {
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return uuid.NewString()
}
