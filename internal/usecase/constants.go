package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking rows
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultFeeRate is the trading fee charged on buys and sells (0.5%)
	DefaultFeeRate = "0.005"

	// DefaultMinTradeAmount is the minimum USD value of a single trade
	DefaultMinTradeAmount = "10.00"

	// DefaultMaxTradeAmount is the maximum USD value of a single trade
	DefaultMaxTradeAmount = "50000.00"

	// RateCacheTTL is how long spot rates are cached
	RateCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
