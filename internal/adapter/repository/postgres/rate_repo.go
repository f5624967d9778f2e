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

// RateRepository implements usecase.RateRepository for crypto rates and
// gift card brands.
type RateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new RateRepository.
func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

const cryptoRateColumns = `symbol, name, buy_rate, sell_rate, active, updated_by, updated_at`

// GetCryptoRate retrieves the current rate for a symbol.
func (r *RateRepository) GetCryptoRate(ctx context.Context, symbol string) (*domain.CryptoRate, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+cryptoRateColumns+` FROM crypto_rates WHERE symbol = $1`, symbol)

	return scanCryptoRate(row)
}

// ListCryptoRates lists rates, optionally only active ones.
func (r *RateRepository) ListCryptoRates(ctx context.Context, activeOnly bool) ([]*domain.CryptoRate, error) {
	query := `SELECT ` + cryptoRateColumns + ` FROM crypto_rates ORDER BY symbol`
	if activeOnly {
		query = `SELECT ` + cryptoRateColumns + ` FROM crypto_rates WHERE active ORDER BY symbol`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []*domain.CryptoRate
	for rows.Next() {
		rate, err := scanCryptoRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}

	return rates, rows.Err()
}

// UpsertCryptoRate inserts or replaces the rate for a symbol.
func (r *RateRepository) UpsertCryptoRate(ctx context.Context, tx usecase.Transaction, rate *domain.CryptoRate) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO crypto_rates (symbol, name, buy_rate, sell_rate, active, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol)
		DO UPDATE SET
			buy_rate = EXCLUDED.buy_rate,
			sell_rate = EXCLUDED.sell_rate,
			active = EXCLUDED.active,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
	`,
		rate.Symbol,
		rate.Name,
		decimalToNumeric(rate.BuyRate),
		decimalToNumeric(rate.SellRate),
		rate.Active,
		rate.UpdatedBy,
		timeToPgTimestamptz(rate.UpdatedAt),
	)

	return err
}

const brandColumns = `id, code, name, exchange_rate, min_amount, max_amount, active, created_at, updated_at`

// GetBrand retrieves a gift card brand by code.
func (r *RateRepository) GetBrand(ctx context.Context, code string) (*domain.GiftCardBrand, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+brandColumns+` FROM gift_card_brands WHERE code = $1`, code)

	return scanBrand(row)
}

// ListBrands lists brands, optionally only active ones.
func (r *RateRepository) ListBrands(ctx context.Context, activeOnly bool) ([]*domain.GiftCardBrand, error) {
	query := `SELECT ` + brandColumns + ` FROM gift_card_brands ORDER BY name`
	if activeOnly {
		query = `SELECT ` + brandColumns + ` FROM gift_card_brands WHERE active ORDER BY name`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []*domain.GiftCardBrand
	for rows.Next() {
		brand, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, brand)
	}

	return brands, rows.Err()
}

// UpdateBrandRate sets the payout percentage for a brand.
func (r *RateRepository) UpdateBrandRate(ctx context.Context, tx usecase.Transaction, code string, percent decimal.Decimal, updatedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE gift_card_brands
		SET exchange_rate = $2, updated_at = $3
		WHERE code = $1
	`,
		code,
		decimalToNumeric(percent),
		timeToPgTimestamptz(updatedAt),
	)

	return err
}

func scanCryptoRate(row pgx.Row) (*domain.CryptoRate, error) {
	var (
		rate      domain.CryptoRate
		buyRate   pgtype.Numeric
		sellRate  pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&rate.Symbol,
		&rate.Name,
		&buyRate,
		&sellRate,
		&rate.Active,
		&rate.UpdatedBy,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRateUnavailable
		}

		return nil, err
	}

	rate.BuyRate = numericToDecimal(buyRate)
	rate.SellRate = numericToDecimal(sellRate)
	rate.UpdatedAt = updatedAt.Time

	return &rate, nil
}

func scanBrand(row pgx.Row) (*domain.GiftCardBrand, error) {
	var (
		brand        domain.GiftCardBrand
		exchangeRate pgtype.Numeric
		minAmount    pgtype.Numeric
		maxAmount    pgtype.Numeric
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&brand.ID,
		&brand.Code,
		&brand.Name,
		&exchangeRate,
		&minAmount,
		&maxAmount,
		&brand.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBrandNotSupported
		}

		return nil, err
	}

	brand.ExchangeRate = numericToDecimal(exchangeRate)
	brand.MinAmount = numericToDecimal(minAmount)
	brand.MaxAmount = numericToDecimal(maxAmount)
	brand.CreatedAt = createdAt.Time
	brand.UpdatedAt = updatedAt.Time

	return &brand, nil
}
