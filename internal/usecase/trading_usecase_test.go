package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/usecase"
	"github.com/fexhq/fex/internal/usecase/mocks"
)

func newTradingFixture() (*usecase.TradingUseCase, *mocks.MockAccountRepository, *mocks.MockHoldingRepository, *mocks.MockRateRepository, *mocks.MockTransactionRepository) {
	accRepo := mocks.NewMockAccountRepository()
	holdRepo := mocks.NewMockHoldingRepository()
	rateRepo := mocks.NewMockRateRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	auditRepo := mocks.NewMockAuditRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	retrier := mocks.NewMockRetrier()

	uc := usecase.NewTradingUseCase(
		usecase.DefaultTradingConfig(),
		txMgr, accRepo, holdRepo, rateRepo, txnRepo, outboxRepo, auditRepo,
		idGen, retrier, nil,
	)

	return uc, accRepo, holdRepo, rateRepo, txnRepo
}

func seedBTCRate(rateRepo *mocks.MockRateRepository) {
	rateRepo.SeedRate(&domain.CryptoRate{
		Symbol:   "BTC",
		Name:     "Bitcoin",
		BuyRate:  decimal.NewFromInt(50000),
		SellRate: decimal.NewFromInt(49000),
		Active:   true,
	})
}

func TestTradingUseCase_Buy(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		status      domain.AccountStatus
		input       usecase.BuyInput
		expectError bool
		errorType   error
	}{
		{
			name:    "successful buy",
			balance: decimal.RequireFromString("1000.00"),
			status:  domain.AccountStatusActive,
			input: usecase.BuyInput{
				AccountID: "acc-1",
				Symbol:    "BTC",
				USDAmount: decimal.RequireFromString("100.00"),
			},
			expectError: false,
		},
		{
			name:    "fee pushes charge past balance",
			balance: decimal.RequireFromString("100.00"),
			status:  domain.AccountStatusActive,
			input: usecase.BuyInput{
				AccountID: "acc-1",
				Symbol:    "BTC",
				USDAmount: decimal.RequireFromString("100.00"),
			},
			expectError: true,
			errorType:   domain.ErrInsufficientBalance,
		},
		{
			name:    "below minimum trade",
			balance: decimal.RequireFromString("1000.00"),
			status:  domain.AccountStatusActive,
			input: usecase.BuyInput{
				AccountID: "acc-1",
				Symbol:    "BTC",
				USDAmount: decimal.RequireFromString("9.99"),
			},
			expectError: true,
			errorType:   domain.ErrBelowMinimumTrade,
		},
		{
			name:    "above maximum trade",
			balance: decimal.RequireFromString("100000.00"),
			status:  domain.AccountStatusActive,
			input: usecase.BuyInput{
				AccountID: "acc-1",
				Symbol:    "BTC",
				USDAmount: decimal.RequireFromString("50000.01"),
			},
			expectError: true,
			errorType:   domain.ErrAboveMaximumTrade,
		},
		{
			name:    "non-positive amount",
			balance: decimal.RequireFromString("1000.00"),
			status:  domain.AccountStatusActive,
			input: usecase.BuyInput{
				AccountID: "acc-1",
				Symbol:    "BTC",
				USDAmount: decimal.Zero,
			},
			expectError: true,
			errorType:   domain.ErrInvalidAmount,
		},
		{
			name:    "malformed symbol",
			balance: decimal.RequireFromString("1000.00"),
			status:  domain.AccountStatusActive,
			input: usecase.BuyInput{
				AccountID: "acc-1",
				Symbol:    "not a symbol!",
				USDAmount: decimal.RequireFromString("100.00"),
			},
			expectError: true,
			errorType:   domain.ErrInvalidInput,
		},
		{
			name:    "suspended account cannot trade",
			balance: decimal.RequireFromString("1000.00"),
			status:  domain.AccountStatusSuspended,
			input: usecase.BuyInput{
				AccountID: "acc-1",
				Symbol:    "BTC",
				USDAmount: decimal.RequireFromString("100.00"),
			},
			expectError: true,
			errorType:   domain.ErrAccountNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, accRepo, _, rateRepo, _ := newTradingFixture()
			seedBTCRate(rateRepo)

			accRepo.Create(context.Background(), &domain.Account{
				ID:      "acc-1",
				UserID:  "user-1",
				Balance: tt.balance,
				Status:  tt.status,
			})

			result, err := uc.Buy(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result == nil {
					t.Fatal("expected result, got nil")
				}
			}
		})
	}
}

func TestTradingUseCase_Buy_LedgerEffects(t *testing.T) {
	uc, accRepo, holdRepo, rateRepo, txnRepo := newTradingFixture()
	seedBTCRate(rateRepo)

	accRepo.Create(context.Background(), &domain.Account{
		ID:      "acc-1",
		UserID:  "user-1",
		Balance: decimal.RequireFromString("1000.00"),
		Status:  domain.AccountStatusActive,
	})

	result, err := uc.Buy(context.Background(), usecase.BuyInput{
		AccountID: "acc-1",
		Symbol:    "BTC",
		USDAmount: decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// fee 0.50 on top, so the charge is 100.50
	if !result.TotalCharge.Equal(decimal.RequireFromString("100.50")) {
		t.Errorf("expected total charge 100.50, got %s", result.TotalCharge)
	}

	// 100 / 50000 = 0.002 BTC
	if !result.CryptoAmount.Equal(decimal.RequireFromString("0.002")) {
		t.Errorf("expected crypto amount 0.002, got %s", result.CryptoAmount)
	}

	account, err := accRepo.GetByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !account.Balance.Equal(decimal.RequireFromString("899.50")) {
		t.Errorf("expected balance 899.50, got %s", account.Balance)
	}

	holding, err := holdRepo.Get(context.Background(), "acc-1", "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !holding.Quantity.Equal(decimal.RequireFromString("0.002")) {
		t.Errorf("expected holding 0.002, got %s", holding.Quantity)
	}

	txn, err := txnRepo.GetByID(context.Background(), result.Transaction.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.Status != domain.TransactionStatusCompleted {
		t.Errorf("expected completed transaction, got %s", txn.Status)
	}
	if txn.Kind != domain.TransactionKindBuy {
		t.Errorf("expected buy transaction, got %s", txn.Kind)
	}
}

func TestTradingUseCase_Buy_FailureLeavesBalanceUntouched(t *testing.T) {
	uc, accRepo, _, rateRepo, _ := newTradingFixture()
	seedBTCRate(rateRepo)

	accRepo.Create(context.Background(), &domain.Account{
		ID:      "acc-1",
		UserID:  "user-1",
		Balance: decimal.RequireFromString("100.00"),
		Status:  domain.AccountStatusActive,
	})

	_, err := uc.Buy(context.Background(), usecase.BuyInput{
		AccountID: "acc-1",
		Symbol:    "BTC",
		USDAmount: decimal.RequireFromString("100.00"),
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	account, _ := accRepo.GetByID(context.Background(), "acc-1")
	if !account.Balance.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected balance unchanged at 100.00, got %s", account.Balance)
	}
}

func TestTradingUseCase_Buy_InactiveRate(t *testing.T) {
	uc, accRepo, _, rateRepo, _ := newTradingFixture()

	rateRepo.SeedRate(&domain.CryptoRate{
		Symbol:   "BTC",
		BuyRate:  decimal.NewFromInt(50000),
		SellRate: decimal.NewFromInt(49000),
		Active:   false,
	})

	accRepo.Create(context.Background(), &domain.Account{
		ID:      "acc-1",
		Balance: decimal.RequireFromString("1000.00"),
		Status:  domain.AccountStatusActive,
	})

	_, err := uc.Buy(context.Background(), usecase.BuyInput{
		AccountID: "acc-1",
		Symbol:    "BTC",
		USDAmount: decimal.RequireFromString("100.00"),
	})
	if !errors.Is(err, domain.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestTradingUseCase_Buy_ZeroRateNotTradable(t *testing.T) {
	uc, accRepo, _, rateRepo, _ := newTradingFixture()

	rateRepo.SeedRate(&domain.CryptoRate{
		Symbol:   "BTC",
		BuyRate:  decimal.Zero,
		SellRate: decimal.NewFromInt(49000),
		Active:   true,
	})

	accRepo.Create(context.Background(), &domain.Account{
		ID:      "acc-1",
		Balance: decimal.RequireFromString("1000.00"),
		Status:  domain.AccountStatusActive,
	})

	_, err := uc.Buy(context.Background(), usecase.BuyInput{
		AccountID: "acc-1",
		Symbol:    "BTC",
		USDAmount: decimal.RequireFromString("100.00"),
	})
	if !errors.Is(err, domain.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable for zero buy rate, got %v", err)
	}
}

func TestTradingUseCase_Sell(t *testing.T) {
	tests := []struct {
		name        string
		holding     decimal.Decimal
		input       usecase.SellInput
		expectError bool
		errorType   error
	}{
		{
			name:    "successful sell",
			holding: decimal.RequireFromString("0.01"),
			input: usecase.SellInput{
				AccountID:    "acc-1",
				Symbol:       "BTC",
				CryptoAmount: decimal.RequireFromString("0.002"),
			},
			expectError: false,
		},
		{
			name:    "insufficient holdings",
			holding: decimal.RequireFromString("0.001"),
			input: usecase.SellInput{
				AccountID:    "acc-1",
				Symbol:       "BTC",
				CryptoAmount: decimal.RequireFromString("0.002"),
			},
			expectError: true,
			errorType:   domain.ErrInsufficientHoldings,
		},
		{
			name:    "proceeds below minimum trade",
			holding: decimal.RequireFromString("0.01"),
			input: usecase.SellInput{
				AccountID:    "acc-1",
				Symbol:       "BTC",
				CryptoAmount: decimal.RequireFromString("0.0001"),
			},
			expectError: true,
			errorType:   domain.ErrBelowMinimumTrade,
		},
		{
			name:    "non-positive quantity",
			holding: decimal.RequireFromString("0.01"),
			input: usecase.SellInput{
				AccountID:    "acc-1",
				Symbol:       "BTC",
				CryptoAmount: decimal.Zero,
			},
			expectError: true,
			errorType:   domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, accRepo, holdRepo, rateRepo, _ := newTradingFixture()
			seedBTCRate(rateRepo)

			accRepo.Create(context.Background(), &domain.Account{
				ID:      "acc-1",
				UserID:  "user-1",
				Balance: decimal.RequireFromString("50.00"),
				Status:  domain.AccountStatusActive,
			})
			holdRepo.Seed(&domain.Holding{
				AccountID: "acc-1",
				Symbol:    "BTC",
				Quantity:  tt.holding,
				UpdatedAt: time.Now().UTC(),
			})

			result, err := uc.Sell(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result == nil {
					t.Fatal("expected result, got nil")
				}
			}
		})
	}
}

func TestTradingUseCase_Sell_LedgerEffects(t *testing.T) {
	uc, accRepo, holdRepo, rateRepo, _ := newTradingFixture()
	seedBTCRate(rateRepo)

	accRepo.Create(context.Background(), &domain.Account{
		ID:      "acc-1",
		UserID:  "user-1",
		Balance: decimal.RequireFromString("50.00"),
		Status:  domain.AccountStatusActive,
	})
	holdRepo.Seed(&domain.Holding{
		AccountID: "acc-1",
		Symbol:    "BTC",
		Quantity:  decimal.RequireFromString("0.01"),
	})

	// 0.002 * 49000 = 98.00 gross, fee 0.49, net 97.51
	result, err := uc.Sell(context.Background(), usecase.SellInput{
		AccountID:    "acc-1",
		Symbol:       "BTC",
		CryptoAmount: decimal.RequireFromString("0.002"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Fee.Equal(decimal.RequireFromString("0.49")) {
		t.Errorf("expected fee 0.49, got %s", result.Fee)
	}
	if !result.NetAmount.Equal(decimal.RequireFromString("97.51")) {
		t.Errorf("expected net amount 97.51, got %s", result.NetAmount)
	}

	account, _ := accRepo.GetByID(context.Background(), "acc-1")
	if !account.Balance.Equal(decimal.RequireFromString("147.51")) {
		t.Errorf("expected balance 147.51, got %s", account.Balance)
	}

	holding, _ := holdRepo.Get(context.Background(), "acc-1", "BTC")
	if !holding.Quantity.Equal(decimal.RequireFromString("0.008")) {
		t.Errorf("expected holding 0.008, got %s", holding.Quantity)
	}
}

func TestTradingUseCase_RoundTripLosesExactlyTheFees(t *testing.T) {
	uc, accRepo, holdRepo, rateRepo, _ := newTradingFixture()

	// Equal buy and sell rates isolate the fees: with no spread, an
	// immediate round trip must cost the trader the buy fee plus the
	// sell fee and can never come out ahead.
	rateRepo.SeedRate(&domain.CryptoRate{
		Symbol:   "ETH",
		Name:     "Ethereum",
		BuyRate:  decimal.NewFromInt(2500),
		SellRate: decimal.NewFromInt(2500),
		Active:   true,
	})

	start := decimal.RequireFromString("1000.00")
	accRepo.Create(context.Background(), &domain.Account{
		ID:      "acc-1",
		UserID:  "user-1",
		Balance: start,
		Status:  domain.AccountStatusActive,
	})

	usdAmount := decimal.RequireFromString("100.00")
	buyResult, err := uc.Buy(context.Background(), usecase.BuyInput{
		AccountID: "acc-1",
		Symbol:    "ETH",
		USDAmount: usdAmount,
	})
	if err != nil {
		t.Fatalf("unexpected buy error: %v", err)
	}
	buyFee := buyResult.TotalCharge.Sub(usdAmount)

	sellResult, err := uc.Sell(context.Background(), usecase.SellInput{
		AccountID:    "acc-1",
		Symbol:       "ETH",
		CryptoAmount: buyResult.CryptoAmount,
	})
	if err != nil {
		t.Fatalf("unexpected sell error: %v", err)
	}

	account, err := accRepo.GetByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	totalFees := buyFee.Add(sellResult.Fee)
	want := start.Sub(totalFees)
	if !account.Balance.Equal(want) {
		t.Errorf("expected balance %s (start minus the two fees), got %s", want, account.Balance)
	}
	if account.Balance.GreaterThanOrEqual(start) {
		t.Errorf("round trip must never be a gain: started %s, ended %s", start, account.Balance)
	}

	holding, err := holdRepo.Get(context.Background(), "acc-1", "ETH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !holding.Quantity.IsZero() {
		t.Errorf("expected flat position after round trip, got %s", holding.Quantity)
	}
}

func TestTradingUseCase_Sell_NoHolding(t *testing.T) {
	uc, accRepo, _, rateRepo, _ := newTradingFixture()
	seedBTCRate(rateRepo)

	accRepo.Create(context.Background(), &domain.Account{
		ID:      "acc-1",
		Balance: decimal.RequireFromString("50.00"),
		Status:  domain.AccountStatusActive,
	})

	_, err := uc.Sell(context.Background(), usecase.SellInput{
		AccountID:    "acc-1",
		Symbol:       "BTC",
		CryptoAmount: decimal.RequireFromString("0.002"),
	})
	if !errors.Is(err, domain.ErrInsufficientHoldings) {
		t.Fatalf("expected ErrInsufficientHoldings, got %v", err)
	}
}
