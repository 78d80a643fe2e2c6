package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/ledger"
)

// EntryRepository implements ledger.EntryRepository over the
// append-only entries table. Rows are never updated or deleted.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const appendEntrySQL = `
INSERT INTO entries (kind, from_account_id, to_account_id, amount, status, description, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

// Append persists one immutable entry inside tx and returns the
// bigserial ID the database assigned.
func (r *EntryRepository) Append(ctx context.Context, tx ledger.Tx, entry *domain.Entry) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var id int64

	err := pgxTx.QueryRow(ctx, appendEntrySQL,
		string(entry.Kind),
		entry.FromAccountID,
		entry.ToAccountID,
		decimalToNumeric(entry.Amount),
		string(entry.Status),
		entry.Description,
		timeToPgTimestamptz(entry.OccurredAt),
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	entry.ID = id

	return id, nil
}

const findEntrySQL = `
SELECT id, kind, from_account_id, to_account_id, amount, status, description, occurred_at
FROM entries
WHERE id = $1`

// FindByID retrieves an entry by ID.
func (r *EntryRepository) FindByID(ctx context.Context, id int64) (*domain.Entry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, findEntrySQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return entry, nil
}

// ListForAccount lists an account's entries newest first, with optional
// kind, free-text and date-range filters. All filter values travel as
// query parameters; only the clause skeleton is assembled here.
func (r *EntryRepository) ListForAccount(ctx context.Context, accountID int64, filter domain.EntryFilter, page domain.Page) ([]*domain.Entry, error) {
	var sb strings.Builder

	sb.WriteString(`
SELECT id, kind, from_account_id, to_account_id, amount, status, description, occurred_at
FROM entries
WHERE (from_account_id = $1 OR to_account_id = $1)`)

	args := []any{accountID}

	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		fmt.Fprintf(&sb, " AND kind = $%d", len(args))
	}

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		fmt.Fprintf(&sb, " AND occurred_at >= $%d", len(args))
	}

	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		fmt.Fprintf(&sb, " AND occurred_at <= $%d", len(args))
	}

	if filter.Search != "" {
		args = append(args, filter.Search)
		n := len(args)
		fmt.Fprintf(&sb,
			" AND (description ILIKE '%%' || $%d || '%%'"+
				" OR amount::text LIKE '%%' || $%d || '%%'"+
				" OR from_account_id::text LIKE '%%' || $%d || '%%'"+
				" OR to_account_id::text LIKE '%%' || $%d || '%%')",
			n, n, n, n)
	}

	args = append(args, int32(page.Limit))
	fmt.Fprintf(&sb, " ORDER BY occurred_at DESC, id DESC LIMIT $%d", len(args))

	args = append(args, int32(page.Offset))
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Statistics recomputes an account's aggregates from the log. COALESCE
// keeps an empty history at zeros instead of NULLs.
func (r *EntryRepository) Statistics(ctx context.Context, accountID int64, dr domain.DateRange) (*domain.Statistics, error) {
	var sb strings.Builder

	sb.WriteString(`
SELECT
    COALESCE(SUM(amount) FILTER (WHERE kind = 'deposit' AND to_account_id = $1), 0),
    COALESCE(SUM(amount) FILTER (WHERE kind = 'withdrawal' AND from_account_id = $1), 0),
    COALESCE(SUM(amount) FILTER (WHERE kind = 'transfer' AND from_account_id = $1), 0),
    COALESCE(SUM(amount) FILTER (WHERE kind = 'transfer' AND to_account_id = $1), 0),
    COUNT(*)
FROM entries
WHERE (from_account_id = $1 OR to_account_id = $1)`)

	args := []any{accountID}

	if dr.Start != nil {
		args = append(args, *dr.Start)
		fmt.Fprintf(&sb, " AND occurred_at >= $%d", len(args))
	}

	if dr.End != nil {
		args = append(args, *dr.End)
		fmt.Fprintf(&sb, " AND occurred_at <= $%d", len(args))
	}

	var (
		deposits    pgtype.Numeric
		withdrawals pgtype.Numeric
		sent        pgtype.Numeric
		received    pgtype.Numeric
		count       int64
	)

	err := r.pool.QueryRow(ctx, sb.String(), args...).Scan(&deposits, &withdrawals, &sent, &received, &count)
	if err != nil {
		return nil, err
	}

	stats := &domain.Statistics{
		TotalDeposits:    numericToDecimal(deposits),
		TotalWithdrawals: numericToDecimal(withdrawals),
		TotalSent:        numericToDecimal(sent),
		TotalReceived:    numericToDecimal(received),
		EntryCount:       count,
	}
	stats.NetTransfers = stats.TotalReceived.Sub(stats.TotalSent)

	return stats, nil
}

const signedSumSQL = `
SELECT COALESCE(SUM(CASE WHEN to_account_id = $1 THEN amount ELSE -amount END), 0)
FROM entries
WHERE from_account_id = $1 OR to_account_id = $1`

// SignedSum recomputes the account balance from the log: credits
// positive, debits negative. Self-transfers cannot exist, so no entry
// is counted twice.
func (r *EntryRepository) SignedSum(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx, signedSumSQL, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry      domain.Entry
		kind       string
		status     string
		amount     pgtype.Numeric
		occurredAt pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&kind,
		&entry.FromAccountID,
		&entry.ToAccountID,
		&amount,
		&status,
		&entry.Description,
		&occurredAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Kind = domain.EntryKind(kind)
	entry.Status = domain.EntryStatus(status)
	entry.Amount = numericToDecimal(amount)
	entry.OccurredAt = occurredAt.Time

	return &entry, nil
}
