package usecase

import (
	"context"

	"github.com/iho/ledgerbook/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	txRepo      TransactionRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, txRepo TransactionRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account. ID is
// optional; when empty a new id is generated.
type CreateAccountInput struct {
	ID        string
	Name      string
	Direction domain.Direction
}

// CreateAccount creates (or, for an existing id, corrects) an account. A
// fresh account always reports a zero balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.AccountWithBalance, error) {
	id := input.ID
	if id == "" {
		id = uc.idGen.Generate()
	}

	account := &domain.Account{
		ID:        id,
		Name:      input.Name,
		Direction: input.Direction,
	}

	if err := uc.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	return &domain.AccountWithBalance{
		Account: *account,
		Balance: domain.Zero(domain.USD),
	}, nil
}

// GetAccount retrieves an account with its balance derived from the full
// entry history.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.AccountWithBalance, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, err := uc.txRepo.GetEntriesForAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &domain.AccountWithBalance{
		Account: *account,
		Balance: domain.BalanceOf(account.Direction, entries),
	}, nil
}

// ListAccounts lists all accounts ordered by name, each with its derived
// balance.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) ([]*domain.AccountWithBalance, error) {
	accounts, err := uc.accountRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.AccountWithBalance, 0, len(accounts))
	for _, account := range accounts {
		entries, err := uc.txRepo.GetEntriesForAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		result = append(result, &domain.AccountWithBalance{
			Account: *account,
			Balance: domain.BalanceOf(account.Direction, entries),
		})
	}

	return result, nil
}

// DeleteAccount always fails: the ledger is immutable.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string) error {
	return uc.accountRepo.Delete(ctx, id)
}
