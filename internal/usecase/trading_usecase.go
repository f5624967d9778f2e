package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/infrastructure/metrics"
)

// TradingConfig holds the trading limits and fee schedule.
type TradingConfig struct {
	FeeRate        decimal.Decimal
	MinTradeAmount decimal.Decimal
	MaxTradeAmount decimal.Decimal
}

// DefaultTradingConfig returns the platform default limits.
func DefaultTradingConfig() TradingConfig {
	feeRate, _ := decimal.NewFromString(DefaultFeeRate)
	minAmount, _ := decimal.NewFromString(DefaultMinTradeAmount)
	maxAmount, _ := decimal.NewFromString(DefaultMaxTradeAmount)

	return TradingConfig{
		FeeRate:        feeRate,
		MinTradeAmount: minAmount,
		MaxTradeAmount: maxAmount,
	}
}

// TradingUseCase executes buys and sells of cryptocurrency against an
// account's cash balance and holdings at the current spot rate.
type TradingUseCase struct {
	cfg         TradingConfig
	txManager   TransactionManager
	accountRepo AccountRepository
	holdingRepo HoldingRepository
	rateRepo    RateRepository
	txnRepo     TransactionRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewTradingUseCase creates a new TradingUseCase.
func NewTradingUseCase(
	cfg TradingConfig,
	txManager TransactionManager,
	accountRepo AccountRepository,
	holdingRepo HoldingRepository,
	rateRepo RateRepository,
	txnRepo TransactionRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *TradingUseCase {
	return &TradingUseCase{
		cfg:         cfg,
		txManager:   txManager,
		accountRepo: accountRepo,
		holdingRepo: holdingRepo,
		rateRepo:    rateRepo,
		txnRepo:     txnRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
	}
}

// BuyInput represents input for buying cryptocurrency.
type BuyInput struct {
	AccountID string
	Symbol    string
	USDAmount decimal.Decimal
}

// BuyResult is the outcome of a completed buy.
type BuyResult struct {
	Transaction  *domain.Transaction
	CryptoAmount decimal.Decimal
	TotalCharge  decimal.Decimal
}

// Buy purchases crypto for USD at the current buy rate. The fee is charged
// on top of the USD amount; balance debit, holding credit and the
// transaction record commit as one unit.
func (uc *TradingUseCase) Buy(ctx context.Context, input BuyInput) (*BuyResult, error) {
	symbol, err := domain.NormalizeSymbol(input.Symbol)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	if input.USDAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if input.USDAmount.LessThan(uc.cfg.MinTradeAmount) {
		return nil, domain.ErrBelowMinimumTrade
	}

	if input.USDAmount.GreaterThan(uc.cfg.MaxTradeAmount) {
		return nil, domain.ErrAboveMaximumTrade
	}

	// Spot-rate execution: the rate is whatever is current now, no
	// reservation window.
	rate, err := uc.rateRepo.GetCryptoRate(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if !rate.Tradable() {
		return nil, domain.ErrRateUnavailable
	}

	fee := input.USDAmount.Mul(uc.cfg.FeeRate).Round(2)
	totalCharge := input.USDAmount.Add(fee)
	cryptoAmount := input.USDAmount.DivRound(rate.BuyRate, 8)

	var result *BuyResult

	execute := func() error {
		var execErr error
		result, execErr = uc.executeBuy(ctx, input.AccountID, symbol, input.USDAmount, cryptoAmount, fee, totalCharge, rate.BuyRate)
		return execErr
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, execute)
	} else {
		err = execute()
	}

	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TradesExecuted.WithLabelValues("buy", symbol).Inc()
		uc.metrics.TradeVolume.Observe(input.USDAmount.InexactFloat64())
	}

	return result, nil
}

func (uc *TradingUseCase) executeBuy(
	ctx context.Context,
	accountID, symbol string,
	usdAmount, cryptoAmount, fee, totalCharge, buyRate decimal.Decimal,
) (*BuyResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock the account row for the duration of the transaction so two
	// concurrent trades cannot both pass the balance guard against a
	// stale snapshot.
	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.CanTrade() {
		return nil, domain.ErrAccountNotActive
	}

	if err := account.ValidateDebit(totalCharge); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		Reference:    uc.reference("BUY", now),
		AccountID:    accountID,
		Kind:         domain.TransactionKindBuy,
		Symbol:       symbol,
		USDAmount:    usdAmount,
		CryptoAmount: cryptoAmount,
		Rate:         buyRate,
		Fee:          fee,
		Status:       domain.TransactionStatusProcessing,
		CreatedAt:    now,
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	newBalance := account.ApplyDebit(totalCharge)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, accountID, newBalance, now); err != nil {
		return nil, err
	}

	newQuantity := cryptoAmount

	holding, err := uc.holdingRepo.GetForUpdate(txCtx, tx, accountID, symbol)
	switch {
	case err == nil:
		newQuantity = holding.Quantity.Add(cryptoAmount)
	case errors.Is(err, domain.ErrHoldingNotFound):
		// First acquisition of this symbol; the upsert creates the row.
	default:
		return nil, err
	}

	if err := uc.holdingRepo.Upsert(txCtx, tx, accountID, symbol, newQuantity, now); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.MarkCompleted(txCtx, tx, txn.ID, now); err != nil {
		return nil, err
	}
	txn.Status = domain.TransactionStatusCompleted
	txn.CompletedAt = &now

	if err := uc.writeTradeEvent(txCtx, tx, txn, now); err != nil {
		return nil, err
	}

	if err := uc.writeTradeAudit(ctx, txCtx, tx, domain.AuditActionTradeBuy, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return &BuyResult{
		Transaction:  txn,
		CryptoAmount: cryptoAmount,
		TotalCharge:  totalCharge,
	}, nil
}

// SellInput represents input for selling cryptocurrency.
type SellInput struct {
	AccountID    string
	Symbol       string
	CryptoAmount decimal.Decimal
}

// SellResult is the outcome of a completed sell.
type SellResult struct {
	Transaction *domain.Transaction
	NetAmount   decimal.Decimal
	Fee         decimal.Decimal
}

// Sell converts crypto back to USD at the current sell rate, net of fee.
func (uc *TradingUseCase) Sell(ctx context.Context, input SellInput) (*SellResult, error) {
	symbol, err := domain.NormalizeSymbol(input.Symbol)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	if input.CryptoAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	rate, err := uc.rateRepo.GetCryptoRate(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if !rate.Tradable() {
		return nil, domain.ErrRateUnavailable
	}

	usdAmount := input.CryptoAmount.Mul(rate.SellRate).Round(2)
	if usdAmount.LessThan(uc.cfg.MinTradeAmount) {
		return nil, domain.ErrBelowMinimumTrade
	}

	fee := usdAmount.Mul(uc.cfg.FeeRate).Round(2)
	netAmount := usdAmount.Sub(fee)

	var result *SellResult

	execute := func() error {
		var execErr error
		result, execErr = uc.executeSell(ctx, input.AccountID, symbol, usdAmount, input.CryptoAmount, fee, netAmount, rate.SellRate)
		return execErr
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, execute)
	} else {
		err = execute()
	}

	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TradesExecuted.WithLabelValues("sell", symbol).Inc()
		uc.metrics.TradeVolume.Observe(usdAmount.InexactFloat64())
	}

	return result, nil
}

func (uc *TradingUseCase) executeSell(
	ctx context.Context,
	accountID, symbol string,
	usdAmount, cryptoAmount, fee, netAmount, sellRate decimal.Decimal,
) (*SellResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock order is always account then holding; both trades and reviews
	// follow it, so concurrent operations cannot deadlock.
	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.CanTrade() {
		return nil, domain.ErrAccountNotActive
	}

	holding, err := uc.holdingRepo.GetForUpdate(txCtx, tx, accountID, symbol)
	if err != nil {
		if errors.Is(err, domain.ErrHoldingNotFound) {
			return nil, domain.ErrInsufficientHoldings
		}
		return nil, err
	}

	if err := holding.ValidateDebit(cryptoAmount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		Reference:    uc.reference("SELL", now),
		AccountID:    accountID,
		Kind:         domain.TransactionKindSell,
		Symbol:       symbol,
		USDAmount:    usdAmount,
		CryptoAmount: cryptoAmount,
		Rate:         sellRate,
		Fee:          fee,
		Status:       domain.TransactionStatusProcessing,
		CreatedAt:    now,
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	newQuantity := holding.Quantity.Sub(cryptoAmount)
	if err := uc.holdingRepo.Upsert(txCtx, tx, accountID, symbol, newQuantity, now); err != nil {
		return nil, err
	}

	newBalance := account.ApplyCredit(netAmount)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, accountID, newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.MarkCompleted(txCtx, tx, txn.ID, now); err != nil {
		return nil, err
	}
	txn.Status = domain.TransactionStatusCompleted
	txn.CompletedAt = &now

	if err := uc.writeTradeEvent(txCtx, tx, txn, now); err != nil {
		return nil, err
	}

	if err := uc.writeTradeAudit(ctx, txCtx, tx, domain.AuditActionTradeSell, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return &SellResult{
		Transaction: txn,
		NetAmount:   netAmount,
		Fee:         fee,
	}, nil
}

func (uc *TradingUseCase) writeTradeEvent(ctx context.Context, tx Transaction, txn *domain.Transaction, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionCompleted,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"reference":      txn.Reference,
			"account_id":     txn.AccountID,
			"kind":           string(txn.Kind),
			"usd_amount":     txn.USDAmount.String(),
			"fee":            txn.Fee.String(),
		},
		CreatedAt: now,
		Published: false,
	}

	return uc.outboxRepo.Create(ctx, tx, event)
}

func (uc *TradingUseCase) writeTradeAudit(ctx, txCtx context.Context, tx Transaction, action domain.AuditAction, txn *domain.Transaction) error {
	if uc.auditRepo == nil {
		return nil
	}

	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: "transaction",
		ResourceID:   txn.ID,
		AfterState:   domain.MarshalState(txn),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}

	return uc.auditRepo.CreateTx(txCtx, tx, auditLog)
}

// reference builds a human-readable transaction reference like
// BUY20251031A7K2MQ.
func (uc *TradingUseCase) reference(prefix string, now time.Time) string {
	id := uc.idGen.Generate()
	suffix := id
	if len(id) > 6 {
		suffix = id[len(id)-6:]
	}

	return prefix + now.Format("20060102") + strings.ToUpper(suffix)
}
