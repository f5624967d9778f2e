package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository implements usecase.LedgerRepository with whole-ledger
// consistency queries.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CountNegativeBalances counts accounts whose balance has gone negative.
func (r *LedgerRepository) CountNegativeBalances(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE balance < 0`).Scan(&count)

	return count, err
}

// CountNegativeHoldings counts holdings whose quantity has gone negative.
func (r *LedgerRepository) CountNegativeHoldings(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM holdings WHERE quantity < 0`).Scan(&count)

	return count, err
}

// CountUnmatchedApprovals counts approved gift card submissions that have
// no completed redemption transaction for the same account and payout.
func (r *LedgerRepository) CountUnmatchedApprovals(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM gift_card_submissions s
		WHERE s.status = 'approved'
		  AND NOT EXISTS (
			SELECT 1
			FROM transactions t
			WHERE t.account_id = s.account_id
			  AND t.kind = 'gift_card_redemption'
			  AND t.status = 'completed'
			  AND t.usd_amount = s.payout_amount
			  AND t.created_at >= s.created_at
		  )
	`).Scan(&count)

	return count, err
}
