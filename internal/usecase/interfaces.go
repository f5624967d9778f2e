package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fexhq/fex/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// HoldingRepository defines data access for crypto holdings.
type HoldingRepository interface {
	Get(ctx context.Context, accountID, symbol string) (*domain.Holding, error)
	GetForUpdate(ctx context.Context, tx Transaction, accountID, symbol string) (*domain.Holding, error)
	Upsert(ctx context.Context, tx Transaction, accountID, symbol string, quantity decimal.Decimal, updatedAt time.Time) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error)
}

// RateRepository defines data access for crypto rates and gift card brands.
type RateRepository interface {
	GetCryptoRate(ctx context.Context, symbol string) (*domain.CryptoRate, error)
	ListCryptoRates(ctx context.Context, activeOnly bool) ([]*domain.CryptoRate, error)
	UpsertCryptoRate(ctx context.Context, tx Transaction, rate *domain.CryptoRate) error
	GetBrand(ctx context.Context, code string) (*domain.GiftCardBrand, error)
	ListBrands(ctx context.Context, activeOnly bool) ([]*domain.GiftCardBrand, error)
	UpdateBrandRate(ctx context.Context, tx Transaction, code string, percent decimal.Decimal, updatedAt time.Time) error
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	MarkCompleted(ctx context.Context, tx Transaction, id string, completedAt time.Time) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, kind domain.TransactionKind, limit, offset int) ([]*domain.Transaction, error)
	CountByAccount(ctx context.Context, accountID string, kind domain.TransactionKind) (int64, error)
	Stats(ctx context.Context, since time.Time) (*TransactionStats, error)
}

// TransactionStats is an aggregate over completed transactions.
type TransactionStats struct {
	Count      int64
	Volume     decimal.Decimal
	FeeRevenue decimal.Decimal
}

// SubmissionRepository defines data access for gift card submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, tx Transaction, submission *domain.GiftCardSubmission) error
	GetByID(ctx context.Context, id string) (*domain.GiftCardSubmission, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.GiftCardSubmission, error)
	UpdateReview(ctx context.Context, tx Transaction, submission *domain.GiftCardSubmission) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.GiftCardSubmission, error)
	ListPending(ctx context.Context, limit, offset int) ([]*domain.GiftCardSubmission, error)
	CountPending(ctx context.Context) (int64, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, tx Transaction, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// LedgerRepository defines ledger-wide consistency queries.
type LedgerRepository interface {
	CountNegativeBalances(ctx context.Context) (int64, error)
	CountNegativeHoldings(ctx context.Context) (int64, error)
	CountUnmatchedApprovals(ctx context.Context) (int64, error)
}

// Transaction represents a database transaction (unit of work).
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CardCipher encrypts and decrypts gift card codes at rest.
type CardCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
