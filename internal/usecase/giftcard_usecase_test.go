package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/usecase"
	"github.com/fexhq/fex/internal/usecase/mocks"
)

func newGiftCardFixture() (*usecase.GiftCardUseCase, *mocks.MockAccountRepository, *mocks.MockRateRepository, *mocks.MockSubmissionRepository, *mocks.MockTransactionRepository) {
	accRepo := mocks.NewMockAccountRepository()
	rateRepo := mocks.NewMockRateRepository()
	subRepo := mocks.NewMockSubmissionRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	auditRepo := mocks.NewMockAuditRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	cipher := mocks.NewMockCardCipher()

	uc := usecase.NewGiftCardUseCase(
		txMgr, accRepo, rateRepo, subRepo, txnRepo, outboxRepo, auditRepo,
		idGen, cipher, nil,
	)

	return uc, accRepo, rateRepo, subRepo, txnRepo
}

func seedAmazonBrand(rateRepo *mocks.MockRateRepository) {
	rateRepo.SeedBrand(&domain.GiftCardBrand{
		ID:           "brand-1",
		Code:         "amazon",
		Name:         "Amazon",
		ExchangeRate: decimal.NewFromInt(85),
		MinAmount:    decimal.NewFromInt(10),
		MaxAmount:    decimal.NewFromInt(500),
		Active:       true,
	})
}

func TestGiftCardUseCase_Submit(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.SubmitInput
		expectError bool
		errorType   error
	}{
		{
			name: "successful submission",
			input: usecase.SubmitInput{
				AccountID: "acc-1",
				BrandCode: "amazon",
				CardValue: decimal.NewFromInt(50),
				CardCode:  "AMZN-1234-5678",
			},
			expectError: false,
		},
		{
			name: "unknown brand",
			input: usecase.SubmitInput{
				AccountID: "acc-1",
				BrandCode: "steam",
				CardValue: decimal.NewFromInt(50),
				CardCode:  "STM-1234",
			},
			expectError: true,
			errorType:   domain.ErrBrandNotSupported,
		},
		{
			name: "card value below brand minimum",
			input: usecase.SubmitInput{
				AccountID: "acc-1",
				BrandCode: "amazon",
				CardValue: decimal.NewFromInt(5),
				CardCode:  "AMZN-1234",
			},
			expectError: true,
			errorType:   domain.ErrCardValueOutOfRange,
		},
		{
			name: "card value above brand maximum",
			input: usecase.SubmitInput{
				AccountID: "acc-1",
				BrandCode: "amazon",
				CardValue: decimal.NewFromInt(1000),
				CardCode:  "AMZN-1234",
			},
			expectError: true,
			errorType:   domain.ErrCardValueOutOfRange,
		},
		{
			name: "empty card code",
			input: usecase.SubmitInput{
				AccountID: "acc-1",
				BrandCode: "amazon",
				CardValue: decimal.NewFromInt(50),
				CardCode:  "   ",
			},
			expectError: true,
			errorType:   domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, accRepo, rateRepo, _, _ := newGiftCardFixture()
			seedAmazonBrand(rateRepo)

			accRepo.Create(context.Background(), &domain.Account{
				ID:      "acc-1",
				Balance: decimal.Zero,
				Status:  domain.AccountStatusActive,
			})

			submission, err := uc.Submit(context.Background(), tt.input)

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
				if submission.Status != domain.SubmissionStatusPending {
					t.Errorf("expected pending submission, got %s", submission.Status)
				}
				// 50 * 85% = 42.50, fixed at submission time
				if !submission.PayoutAmount.Equal(decimal.RequireFromString("42.50")) {
					t.Errorf("expected payout 42.50, got %s", submission.PayoutAmount)
				}
				if strings.Contains(submission.EncryptedCode, "AMZN-1234-5678") == false {
					// the mock cipher prefixes rather than encrypts
					t.Errorf("expected encrypted code to wrap the plaintext, got %q", submission.EncryptedCode)
				}
			}
		})
	}
}

func TestGiftCardUseCase_Review_Approve(t *testing.T) {
	uc, accRepo, _, subRepo, txnRepo := newGiftCardFixture()

	accRepo.Create(context.Background(), &domain.Account{
		ID:      "acc-1",
		Balance: decimal.RequireFromString("10.00"),
		Status:  domain.AccountStatusActive,
	})
	subRepo.Seed(&domain.GiftCardSubmission{
		ID:           "sub-1",
		AccountID:    "acc-1",
		BrandCode:    "amazon",
		BrandName:    "Amazon",
		CardValue:    decimal.NewFromInt(50),
		ExchangeRate: decimal.NewFromInt(85),
		PayoutAmount: decimal.RequireFromString("42.50"),
		Status:       domain.SubmissionStatusPending,
	})

	reviewer := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	ctx := domain.WithUser(context.Background(), reviewer)

	result, err := uc.Review(ctx, usecase.ReviewInput{
		SubmissionID: "sub-1",
		Decision:     domain.ReviewDecisionApprove,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Submission.Status != domain.SubmissionStatusApproved {
		t.Errorf("expected approved, got %s", result.Submission.Status)
	}
	if result.Submission.ReviewedBy == nil || *result.Submission.ReviewedBy != "admin-1" {
		t.Error("expected reviewer recorded on submission")
	}

	account, _ := accRepo.GetByID(context.Background(), "acc-1")
	if !account.Balance.Equal(decimal.RequireFromString("52.50")) {
		t.Errorf("expected balance 52.50 after payout, got %s", account.Balance)
	}

	if result.Transaction == nil {
		t.Fatal("expected a redemption transaction")
	}
	txn, err := txnRepo.GetByID(context.Background(), result.Transaction.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.Kind != domain.TransactionKindGiftCardRedemption {
		t.Errorf("expected gift_card_redemption, got %s", txn.Kind)
	}
	if txn.Status != domain.TransactionStatusCompleted {
		t.Errorf("expected completed transaction, got %s", txn.Status)
	}
	if !txn.USDAmount.Equal(decimal.RequireFromString("42.50")) {
		t.Errorf("expected amount 42.50, got %s", txn.USDAmount)
	}
	if !txn.Fee.IsZero() {
		t.Errorf("expected zero fee, got %s", txn.Fee)
	}
}

func TestGiftCardUseCase_Review_Reject(t *testing.T) {
	uc, accRepo, _, subRepo, _ := newGiftCardFixture()

	accRepo.Create(context.Background(), &domain.Account{
		ID:      "acc-1",
		Balance: decimal.RequireFromString("10.00"),
		Status:  domain.AccountStatusActive,
	})
	subRepo.Seed(&domain.GiftCardSubmission{
		ID:           "sub-1",
		AccountID:    "acc-1",
		PayoutAmount: decimal.RequireFromString("42.50"),
		Status:       domain.SubmissionStatusPending,
	})

	result, err := uc.Review(context.Background(), usecase.ReviewInput{
		SubmissionID:    "sub-1",
		Decision:        domain.ReviewDecisionReject,
		RejectionReason: "card image unreadable",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Submission.Status != domain.SubmissionStatusRejected {
		t.Errorf("expected rejected, got %s", result.Submission.Status)
	}
	if result.Submission.RejectionReason != "card image unreadable" {
		t.Errorf("unexpected rejection reason %q", result.Submission.RejectionReason)
	}
	if result.Transaction != nil {
		t.Error("rejection must not record a transaction")
	}

	account, _ := accRepo.GetByID(context.Background(), "acc-1")
	if !account.Balance.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("expected balance unchanged at 10.00, got %s", account.Balance)
	}
}

func TestGiftCardUseCase_Review_AlreadyReviewed(t *testing.T) {
	uc, accRepo, _, subRepo, _ := newGiftCardFixture()

	accRepo.Create(context.Background(), &domain.Account{
		ID:      "acc-1",
		Balance: decimal.Zero,
		Status:  domain.AccountStatusActive,
	})
	subRepo.Seed(&domain.GiftCardSubmission{
		ID:           "sub-1",
		AccountID:    "acc-1",
		PayoutAmount: decimal.RequireFromString("42.50"),
		Status:       domain.SubmissionStatusPending,
	})

	if _, err := uc.Review(context.Background(), usecase.ReviewInput{
		SubmissionID: "sub-1",
		Decision:     domain.ReviewDecisionApprove,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second review of the same submission must fail and must not pay
	// out a second time.
	_, err := uc.Review(context.Background(), usecase.ReviewInput{
		SubmissionID: "sub-1",
		Decision:     domain.ReviewDecisionApprove,
	})
	if !errors.Is(err, domain.ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}

	account, _ := accRepo.GetByID(context.Background(), "acc-1")
	if !account.Balance.Equal(decimal.RequireFromString("42.50")) {
		t.Errorf("expected single payout of 42.50, got %s", account.Balance)
	}
}

func TestGiftCardUseCase_Review_InvalidDecision(t *testing.T) {
	uc, _, _, _, _ := newGiftCardFixture()

	_, err := uc.Review(context.Background(), usecase.ReviewInput{
		SubmissionID: "sub-1",
		Decision:     domain.ReviewDecision("maybe"),
	})
	if !errors.Is(err, domain.ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestGiftCardUseCase_ListPendingSubmissions(t *testing.T) {
	uc, _, _, subRepo, _ := newGiftCardFixture()

	subRepo.Seed(&domain.GiftCardSubmission{ID: "sub-1", Status: domain.SubmissionStatusPending, CreatedAt: time.Now()})
	subRepo.Seed(&domain.GiftCardSubmission{ID: "sub-2", Status: domain.SubmissionStatusApproved, CreatedAt: time.Now()})

	pending, err := uc.ListPendingSubmissions(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "sub-1" {
		t.Errorf("expected only the pending submission, got %d", len(pending))
	}
}
