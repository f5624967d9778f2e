package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, reference, account_id, kind, symbol, brand, usd_amount,
	crypto_amount, rate, fee, status, processed_by, created_at, completed_at`

// Create inserts a new transaction inside an existing unit of work.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO transactions (
			id, reference, account_id, kind, symbol, brand, usd_amount,
			crypto_amount, rate, fee, status, processed_by, created_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		txn.ID,
		txn.Reference,
		txn.AccountID,
		txn.Kind,
		txn.Symbol,
		txn.Brand,
		decimalToNumeric(txn.USDAmount),
		decimalToNumeric(txn.CryptoAmount),
		decimalToNumeric(txn.Rate),
		decimalToNumeric(txn.Fee),
		txn.Status,
		txn.ProcessedBy,
		timeToPgTimestamptz(txn.CreatedAt),
		txn.CompletedAt,
	)

	return err
}

// MarkCompleted transitions a transaction to completed.
func (r *TransactionRepository) MarkCompleted(ctx context.Context, tx usecase.Transaction, id string, completedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE transactions
		SET status = $2, completed_at = $3
		WHERE id = $1
	`,
		id,
		domain.TransactionStatusCompleted,
		timeToPgTimestamptz(completedAt),
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	return scanTransaction(row)
}

// ListByAccount lists an account's transactions, newest first, with an
// optional kind filter.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, kind domain.TransactionKind, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	args := []any{accountID, limit, offset}

	if kind != "" {
		query = `
			SELECT ` + transactionColumns + `
			FROM transactions
			WHERE account_id = $1 AND kind = $4
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		args = append(args, kind)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// CountByAccount counts an account's transactions with an optional kind
// filter.
func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID string, kind domain.TransactionKind) (int64, error) {
	var count int64

	if kind == "" {
		err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
		return count, err
	}

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1 AND kind = $2`, accountID, kind).Scan(&count)
	return count, err
}

// Stats aggregates completed transactions since the given time.
func (r *TransactionRepository) Stats(ctx context.Context, since time.Time) (*usecase.TransactionStats, error) {
	var (
		stats      usecase.TransactionStats
		volume     pgtype.Numeric
		feeRevenue pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(usd_amount), 0), COALESCE(SUM(fee), 0)
		FROM transactions
		WHERE status = $1 AND created_at >= $2
	`,
		domain.TransactionStatusCompleted,
		timeToPgTimestamptz(since),
	).Scan(&stats.Count, &volume, &feeRevenue)
	if err != nil {
		return nil, err
	}

	stats.Volume = numericToDecimal(volume)
	stats.FeeRevenue = numericToDecimal(feeRevenue)

	return &stats, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn          domain.Transaction
		symbol       pgtype.Text
		brand        pgtype.Text
		usdAmount    pgtype.Numeric
		cryptoAmount pgtype.Numeric
		rate         pgtype.Numeric
		fee          pgtype.Numeric
		createdAt    pgtype.Timestamptz
		completedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.Reference,
		&txn.AccountID,
		&txn.Kind,
		&symbol,
		&brand,
		&usdAmount,
		&cryptoAmount,
		&rate,
		&fee,
		&txn.Status,
		&txn.ProcessedBy,
		&createdAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.Symbol = symbol.String
	txn.Brand = brand.String
	txn.USDAmount = numericToDecimal(usdAmount)
	txn.CryptoAmount = numericToDecimal(cryptoAmount)
	txn.Rate = numericToDecimal(rate)
	txn.Fee = numericToDecimal(fee)
	txn.CreatedAt = createdAt.Time
	if completedAt.Valid {
		txn.CompletedAt = &completedAt.Time
	}

	return &txn, nil
}
