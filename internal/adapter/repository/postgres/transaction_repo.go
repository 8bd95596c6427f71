package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgerbook/internal/domain"
)

const pgErrForeignKeyViolation = "23503"

// TransactionRepository implements usecase.TransactionRepository on
// Postgres.
type TransactionRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

// Create inserts the transaction header and all entries in one database
// transaction: either everything commits or nothing does. The header insert
// carries ON CONFLICT DO NOTHING, so of any number of racing creations with
// the same id exactly one inserts a row; the rest see zero rows affected
// and get DuplicateTransactionError without touching the winner's entries.
// An entry referencing an unknown account trips the foreign key and rolls
// the whole insert back.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	err := r.retrier.Retry(ctx, func() error {
		return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
			tag, err := tx.Exec(ctx, `
				INSERT INTO transactions (id, name)
				VALUES ($1, $2)
				ON CONFLICT (id) DO NOTHING`,
				transaction.ID(), textOrNull(transaction.Name()),
			)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return &domain.DuplicateTransactionError{OriginalID: transaction.ID()}
			}

			return insertEntries(ctx, tx, transaction)
		})
	})

	return mapConstraintError(err)
}

// Save writes the transaction header and all entries in one database
// transaction: either everything commits or nothing does. An entry
// referencing an unknown account trips the foreign key and rolls the whole
// save back. Saving an existing id replaces its entries; that path is for
// controlled correction flows, the creation use case never reaches it.
func (r *TransactionRepository) Save(ctx context.Context, transaction *domain.Transaction) error {
	err := r.retrier.Retry(ctx, func() error {
		return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, `
				INSERT INTO transactions (id, name)
				VALUES ($1, $2)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name`,
				transaction.ID(), textOrNull(transaction.Name()),
			)
			if err != nil {
				return err
			}

			_, err = tx.Exec(ctx, `
				DELETE FROM entries WHERE transaction_id = $1`, transaction.ID())
			if err != nil {
				return err
			}

			return insertEntries(ctx, tx, transaction)
		})
	})

	return mapConstraintError(err)
}

func insertEntries(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error {
	for _, e := range transaction.Entries() {
		_, err := tx.Exec(ctx, `
			INSERT INTO entries (transaction_id, account_id, direction, amount_minor_units)
			VALUES ($1, $2, $3, $4)`,
			transaction.ID(), e.AccountID, string(e.Direction), e.Amount.MinorUnits(),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
		return domain.ErrAccountNotFound
	}

	return err
}

// GetByID retrieves a transaction with its entries in insertion order.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var name pgtype.Text
	err := r.pool.QueryRow(ctx, `
		SELECT name FROM transactions WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	entries, err := r.entriesForTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	return domain.NewTransaction(id, name.String, entries)
}

// FindAll returns all transactions with their entries, most recently
// created first.
func (r *TransactionRepository) FindAll(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name FROM transactions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type header struct {
		id   string
		name string
	}

	var headers []header
	for rows.Next() {
		var (
			id   string
			name pgtype.Text
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		headers = append(headers, header{id: id, name: name.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, 0, len(headers))
	for _, h := range headers {
		entries, err := r.entriesForTransaction(ctx, h.id)
		if err != nil {
			return nil, err
		}

		tx, err := domain.NewTransaction(h.id, h.name, entries)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, tx)
	}

	return transactions, nil
}

// GetEntriesForAccount returns every entry touching the account. Order is
// unspecified; the balance derivation does not depend on it.
func (r *TransactionRepository) GetEntriesForAccount(ctx context.Context, accountID string) ([]domain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT account_id, direction, amount_minor_units
		FROM entries WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Delete always fails: the ledger is immutable. Database triggers guard the
// tables against direct SQL deletes as well.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return domain.ErrImmutableLedger
}

func (r *TransactionRepository) entriesForTransaction(ctx context.Context, id string) ([]domain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT account_id, direction, amount_minor_units
		FROM entries WHERE transaction_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]domain.Entry, error) {
	var entries []domain.Entry
	for rows.Next() {
		var (
			accountID, direction string
			minorUnits           int64
		)
		if err := rows.Scan(&accountID, &direction, &minorUnits); err != nil {
			return nil, err
		}

		entries = append(entries, domain.Entry{
			ID:        uuid.NewString(),
			AccountID: accountID,
			Direction: domain.Direction(direction),
			Amount:    domain.FromMinorUnits(minorUnits, domain.USD),
		})
	}

	return entries, rows.Err()
}
