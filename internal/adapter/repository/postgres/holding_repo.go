package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/usecase"
)

// HoldingRepository implements usecase.HoldingRepository.
type HoldingRepository struct {
	pool *pgxpool.Pool
}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository(pool *pgxpool.Pool) *HoldingRepository {
	return &HoldingRepository{pool: pool}
}

const holdingColumns = `account_id, symbol, quantity, created_at, updated_at`

// Get retrieves one holding.
func (r *HoldingRepository) Get(ctx context.Context, accountID, symbol string) (*domain.Holding, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+holdingColumns+`
		FROM holdings
		WHERE account_id = $1 AND symbol = $2
	`, accountID, symbol)

	return scanHolding(row)
}

// GetForUpdate retrieves one holding with a FOR UPDATE lock.
func (r *HoldingRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID, symbol string) (*domain.Holding, error) {
	row := txQuerier(tx).QueryRow(ctx, `
		SELECT `+holdingColumns+`
		FROM holdings
		WHERE account_id = $1 AND symbol = $2
		FOR UPDATE
	`, accountID, symbol)

	return scanHolding(row)
}

// Upsert sets the holding quantity, creating the row on first acquisition.
func (r *HoldingRepository) Upsert(ctx context.Context, tx usecase.Transaction, accountID, symbol string, quantity decimal.Decimal, updatedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO holdings (account_id, symbol, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (account_id, symbol)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
	`,
		accountID,
		symbol,
		decimalToNumeric(quantity),
		timeToPgTimestamptz(updatedAt),
	)

	return err
}

// ListByAccount lists all holdings of an account.
func (r *HoldingRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+holdingColumns+`
		FROM holdings
		WHERE account_id = $1
		ORDER BY symbol
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, holding)
	}

	return holdings, rows.Err()
}

func scanHolding(row pgx.Row) (*domain.Holding, error) {
	var (
		holding   domain.Holding
		quantity  pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&holding.AccountID,
		&holding.Symbol,
		&quantity,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHoldingNotFound
		}

		return nil, err
	}

	holding.Quantity = numericToDecimal(quantity)
	holding.CreatedAt = createdAt.Time
	holding.UpdatedAt = updatedAt.Time

	return &holding, nil
}
