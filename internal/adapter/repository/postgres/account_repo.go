package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgerbook/internal/domain"
)

// AccountRepository implements usecase.AccountRepository on Postgres.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Save inserts or replaces an account by id.
func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, name, direction)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			direction = EXCLUDED.direction`,
		account.ID, textOrNull(account.Name), string(account.Direction),
	)

	return err
}

// GetByID retrieves an account by id.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, direction FROM accounts WHERE id = $1`, id)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// FindAll returns all accounts ordered by name.
func (r *AccountRepository) FindAll(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, direction FROM accounts ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// Delete always fails: the ledger is immutable. Database triggers guard the
// tables against direct SQL deletes as well.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	return domain.ErrImmutableLedger
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		id, direction string
		name          pgtype.Text
	)

	if err := row.Scan(&id, &name, &direction); err != nil {
		return nil, err
	}

	return &domain.Account{
		ID:        id,
		Name:      name.String,
		Direction: domain.Direction(direction),
	}, nil
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
