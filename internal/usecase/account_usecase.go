package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fexhq/fex/internal/domain"
)

// AccountUseCase serves account overview and history queries.
type AccountUseCase struct {
	accountRepo AccountRepository
	holdingRepo HoldingRepository
	rateRepo    RateRepository
	txnRepo     TransactionRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	holdingRepo HoldingRepository,
	rateRepo RateRepository,
	txnRepo TransactionRepository,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		holdingRepo: holdingRepo,
		rateRepo:    rateRepo,
		txnRepo:     txnRepo,
	}
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetAccountByUser retrieves the account owned by a user.
func (uc *AccountUseCase) GetAccountByUser(ctx context.Context, userID string) (*domain.Account, error) {
	return uc.accountRepo.GetByUserID(ctx, userID)
}

// HoldingValue is a holding together with its spot USD valuation.
type HoldingValue struct {
	Holding  *domain.Holding
	SellRate decimal.Decimal
	USDValue decimal.Decimal
}

// Overview is the account dashboard payload.
type Overview struct {
	Account            *domain.Account
	Holdings           []*HoldingValue
	RecentTransactions []*domain.Transaction
}

// GetOverview returns the account balance, holdings valued at the current
// sell rate, and the most recent transactions.
func (uc *AccountUseCase) GetOverview(ctx context.Context, accountID string) (*Overview, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	holdings, err := uc.holdingRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	values := make([]*HoldingValue, 0, len(holdings))
	for _, h := range holdings {
		if h.Quantity.IsZero() {
			continue
		}

		value := &HoldingValue{Holding: h}

		rate, err := uc.rateRepo.GetCryptoRate(ctx, h.Symbol)
		switch {
		case err == nil:
			value.SellRate = rate.SellRate
			value.USDValue = h.Quantity.Mul(rate.SellRate).Round(2)
		case errors.Is(err, domain.ErrRateUnavailable):
			// Holding survives its rate being deactivated; valued at zero.
		default:
			return nil, err
		}

		values = append(values, value)
	}

	recent, err := uc.txnRepo.ListByAccount(ctx, accountID, "", 5, 0)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Account:            account,
		Holdings:           values,
		RecentTransactions: recent,
	}, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	AccountID string
	Kind      domain.TransactionKind
	Limit     int
	Offset    int
}

// TransactionPage is one page of transaction history.
type TransactionPage struct {
	Transactions []*domain.Transaction
	Total        int64
	Limit        int
	Offset       int
}

// ListTransactions lists an account's transaction history with an
// optional kind filter.
func (uc *AccountUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) (*TransactionPage, error) {
	if input.Kind != "" && !input.Kind.IsValid() {
		return nil, domain.ErrInvalidInput
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	total, err := uc.txnRepo.CountByAccount(ctx, input.AccountID, input.Kind)
	if err != nil {
		return nil, err
	}

	transactions, err := uc.txnRepo.ListByAccount(ctx, input.AccountID, input.Kind, limit, offset)
	if err != nil {
		return nil, err
	}

	return &TransactionPage{
		Transactions: transactions,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *AccountUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}
