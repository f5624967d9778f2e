package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fexhq/fex/internal/domain"
)

const (
	cryptoRatesCacheKey   = "rates:crypto"
	giftCardRatesCacheKey = "rates:giftcard"
)

// RateUseCase exposes current rates and accepts administrative bulk
// updates. Reads are spot reads; a trade executed moments before an
// update simply used the previous rate.
type RateUseCase struct {
	txManager  TransactionManager
	rateRepo   RateRepository
	auditRepo  AuditRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	cache      Cache
	logger     zerolog.Logger
}

// NewRateUseCase creates a new RateUseCase.
func NewRateUseCase(
	txManager TransactionManager,
	rateRepo RateRepository,
	auditRepo AuditRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	logger zerolog.Logger,
) *RateUseCase {
	return &RateUseCase{
		txManager:  txManager,
		rateRepo:   rateRepo,
		auditRepo:  auditRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		cache:      cache,
		logger:     logger,
	}
}

// ListCryptoRates returns all active crypto rates, cache-aside.
func (uc *RateUseCase) ListCryptoRates(ctx context.Context) ([]*domain.CryptoRate, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cryptoRatesCacheKey); err == nil {
			var rates []*domain.CryptoRate
			if err := json.Unmarshal([]byte(cached), &rates); err == nil {
				return rates, nil
			}
		}
	}

	rates, err := uc.rateRepo.ListCryptoRates(ctx, true)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, cryptoRatesCacheKey, rates)

	return rates, nil
}

// ListGiftCardBrands returns all active brands, cache-aside.
func (uc *RateUseCase) ListGiftCardBrands(ctx context.Context) ([]*domain.GiftCardBrand, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, giftCardRatesCacheKey); err == nil {
			var brands []*domain.GiftCardBrand
			if err := json.Unmarshal([]byte(cached), &brands); err == nil {
				return brands, nil
			}
		}
	}

	brands, err := uc.rateRepo.ListBrands(ctx, true)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, giftCardRatesCacheKey, brands)

	return brands, nil
}

// CryptoRateUpdate is one entry of a bulk crypto rate update.
type CryptoRateUpdate struct {
	BuyRate  *decimal.Decimal
	SellRate *decimal.Decimal
}

// UpdateCryptoRates upserts the given rates in one transaction. Entries
// with a missing buy or sell price, or a non-positive price, are skipped
// silently; the skip count is only logged.
func (uc *RateUseCase) UpdateCryptoRates(ctx context.Context, updates map[string]CryptoRateUpdate) error {
	updatedBy := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		updatedBy = user.ID
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	applied := 0
	skipped := 0

	for symbol, update := range updates {
		normalized, err := domain.NormalizeSymbol(symbol)
		if err != nil || update.BuyRate == nil || update.SellRate == nil ||
			!update.BuyRate.IsPositive() || !update.SellRate.IsPositive() {
			skipped++
			continue
		}

		rate := &domain.CryptoRate{
			Symbol:    normalized,
			BuyRate:   *update.BuyRate,
			SellRate:  *update.SellRate,
			Active:    true,
			UpdatedBy: updatedBy,
			UpdatedAt: now,
		}

		if err := uc.rateRepo.UpsertCryptoRate(txCtx, tx, rate); err != nil {
			return err
		}
		applied++
	}

	if err := uc.writeRatesEvent(txCtx, tx, domain.EventTypeCryptoRatesUpdated, applied, skipped, updatedBy, now); err != nil {
		return err
	}

	if err := uc.writeRatesAudit(txCtx, tx, domain.AuditActionCryptoRatesUpdate, updatedBy, applied, skipped); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if skipped > 0 {
		uc.logger.Warn().Int("skipped", skipped).Msg("skipped malformed crypto rate entries")
	}

	uc.cacheInvalidate(ctx, cryptoRatesCacheKey)

	return nil
}

// UpdateGiftCardRates sets brand payout percentages in one transaction.
// Percentages outside [0,100] are skipped silently.
func (uc *RateUseCase) UpdateGiftCardRates(ctx context.Context, updates map[string]decimal.Decimal) error {
	updatedBy := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		updatedBy = user.ID
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	applied := 0
	skipped := 0

	hundred := decimal.NewFromInt(100)

	for code, percent := range updates {
		normalized, err := domain.NormalizeBrandCode(code)
		if err != nil || percent.IsNegative() || percent.GreaterThan(hundred) {
			skipped++
			continue
		}

		if err := uc.rateRepo.UpdateBrandRate(txCtx, tx, normalized, percent, now); err != nil {
			return err
		}
		applied++
	}

	if err := uc.writeRatesEvent(txCtx, tx, domain.EventTypeGiftCardRatesUpdated, applied, skipped, updatedBy, now); err != nil {
		return err
	}

	if err := uc.writeRatesAudit(txCtx, tx, domain.AuditActionGiftCardRatesUpdate, updatedBy, applied, skipped); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if skipped > 0 {
		uc.logger.Warn().Int("skipped", skipped).Msg("skipped out-of-range gift card rate entries")
	}

	uc.cacheInvalidate(ctx, giftCardRatesCacheKey)

	return nil
}

func (uc *RateUseCase) writeRatesEvent(ctx context.Context, tx Transaction, eventType string, applied, skipped int, updatedBy string, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   updatedBy,
		AggregateType: domain.AggregateTypeRate,
		EventType:     eventType,
		Payload: map[string]any{
			"applied":    applied,
			"skipped":    skipped,
			"updated_by": updatedBy,
		},
		CreatedAt: now,
		Published: false,
	}

	return uc.outboxRepo.Create(ctx, tx, event)
}

func (uc *RateUseCase) writeRatesAudit(ctx context.Context, tx Transaction, action domain.AuditAction, updatedBy string, applied, skipped int) error {
	if uc.auditRepo == nil {
		return nil
	}

	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       updatedBy,
		Action:       string(action),
		ResourceType: "rate",
		AfterState:   domain.JSON{"applied": applied, "skipped": skipped},
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}

	return uc.auditRepo.CreateTx(ctx, tx, auditLog)
}

func (uc *RateUseCase) cacheSet(ctx context.Context, key string, value any) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, key, string(data), RateCacheTTL); err != nil {
		uc.logger.Debug().Err(err).Str("key", key).Msg("rate cache set failed")
	}
}

func (uc *RateUseCase) cacheInvalidate(ctx context.Context, key string) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.logger.Debug().Err(err).Str("key", key).Msg("rate cache invalidation failed")
	}
}
