package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/ledger"
)

// AccountRepository implements ledger.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const createAccountSQL = `
INSERT INTO accounts (balance, version, created_at, updated_at)
VALUES ($1, $2, $3, $4)
RETURNING id`

// Create inserts a new account and assigns its ID.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.pool.QueryRow(ctx, createAccountSQL,
		decimalToNumeric(account.Balance),
		account.Version,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	).Scan(&account.ID)
}

const getAccountSQL = `
SELECT id, balance, version, created_at, updated_at
FROM accounts
WHERE id = $1`

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, getAccountSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// Exists reports whether an account exists.
func (r *AccountRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool

	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

const getForUpdateSQL = `
SELECT id, balance, version, created_at, updated_at
FROM accounts
WHERE id = ANY($1::bigint[])
ORDER BY id
FOR UPDATE`

// GetForUpdate locks the given accounts for the duration of tx. The
// ORDER BY before FOR UPDATE fixes the lock acquisition order to
// ascending ID, which is what prevents deadlocks between concurrent
// opposite-direction transfers.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx ledger.Tx, ids []int64) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, getForUpdateSQL, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0, len(ids))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

const adjustBalanceSQL = `
UPDATE accounts
SET balance = balance + $2, version = version + 1, updated_at = $3
WHERE id = $1 AND balance + $2 >= $4
RETURNING balance`

// AdjustBalance applies balance += delta with the floor enforced in the
// UPDATE itself; the caller is expected to hold the row lock already.
func (r *AccountRepository) AdjustBalance(ctx context.Context, tx ledger.Tx, id int64, delta, minBalance decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var balance pgtype.Numeric

	err := pgxTx.QueryRow(ctx, adjustBalanceSQL,
		id,
		decimalToNumeric(delta),
		timeToPgTimestamptz(updatedAt),
		decimalToNumeric(minBalance),
	).Scan(&balance)
	if err != nil {
		// The row is locked and known to exist, so a missing row means
		// the balance floor predicate rejected the update.
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrInsufficientFunds
		}

		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// Delete removes an account row. The engine only calls this for
// accounts whose balance is zero, checked under the row lock.
func (r *AccountRepository) Delete(ctx context.Context, tx ledger.Tx, id int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

const listAccountsSQL = `
SELECT id, balance, version, created_at, updated_at
FROM accounts
ORDER BY id
LIMIT $1 OFFSET $2`

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, listAccountsSQL, int32(limit), int32(offset))
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

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&account.ID, &balance, &account.Version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}
