package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/infrastructure/metrics"
)

// GiftCardUseCase handles gift card submissions and their review.
type GiftCardUseCase struct {
	txManager      TransactionManager
	accountRepo    AccountRepository
	rateRepo       RateRepository
	submissionRepo SubmissionRepository
	txnRepo        TransactionRepository
	outboxRepo     OutboxRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	cipher         CardCipher
	metrics        *metrics.Metrics
}

// NewGiftCardUseCase creates a new GiftCardUseCase.
func NewGiftCardUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	rateRepo RateRepository,
	submissionRepo SubmissionRepository,
	txnRepo TransactionRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	cipher CardCipher,
	metrics *metrics.Metrics,
) *GiftCardUseCase {
	return &GiftCardUseCase{
		txManager:      txManager,
		accountRepo:    accountRepo,
		rateRepo:       rateRepo,
		submissionRepo: submissionRepo,
		txnRepo:        txnRepo,
		outboxRepo:     outboxRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		cipher:         cipher,
		metrics:        metrics,
	}
}

// SubmitInput represents a user's gift card submission.
type SubmitInput struct {
	AccountID string
	BrandCode string
	CardValue decimal.Decimal
	CardCode  string
	ImageRef  string
}

// Submit records a pending gift card claim. The payout amount is fixed at
// submission time from the brand's current exchange rate; the card code is
// encrypted at rest and the image reference stored verbatim.
func (uc *GiftCardUseCase) Submit(ctx context.Context, input SubmitInput) (*domain.GiftCardSubmission, error) {
	brandCode, err := domain.NormalizeBrandCode(input.BrandCode)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	if input.CardValue.LessThanOrEqual(decimal.Zero) || strings.TrimSpace(input.CardCode) == "" {
		return nil, domain.ErrInvalidInput
	}

	brand, err := uc.rateRepo.GetBrand(ctx, brandCode)
	if err != nil {
		return nil, err
	}

	if !brand.Active {
		return nil, domain.ErrBrandNotSupported
	}

	if err := brand.ValidateCardValue(input.CardValue); err != nil {
		return nil, err
	}

	encryptedCode, err := uc.cipher.Encrypt(input.CardCode)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByID(txCtx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if !account.CanTrade() {
		return nil, domain.ErrAccountNotActive
	}

	now := time.Now().UTC()

	submission := &domain.GiftCardSubmission{
		ID:            uc.idGen.Generate(),
		Reference:     uc.reference("GC", now),
		AccountID:     account.ID,
		BrandCode:     brand.Code,
		BrandName:     brand.Name,
		CardValue:     input.CardValue,
		EncryptedCode: encryptedCode,
		ImageRef:      input.ImageRef,
		ExchangeRate:  brand.ExchangeRate,
		PayoutAmount:  brand.Payout(input.CardValue),
		Status:        domain.SubmissionStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.submissionRepo.Create(txCtx, tx, submission); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   submission.ID,
			AggregateType: domain.AggregateTypeSubmission,
			EventType:     domain.EventTypeSubmissionCreated,
			Payload: map[string]any{
				"submission_id": submission.ID,
				"account_id":    submission.AccountID,
				"brand_code":    submission.BrandCode,
				"card_value":    submission.CardValue.String(),
				"payout_amount": submission.PayoutAmount.String(),
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := uc.writeAudit(ctx, txCtx, tx, domain.AuditActionGiftCardSubmit, submission); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SubmissionsCreated.Inc()
	}

	return submission, nil
}

// ReviewInput represents an admin's review of a pending submission.
type ReviewInput struct {
	SubmissionID    string
	Decision        domain.ReviewDecision
	RejectionReason string
}

// ReviewResult is the outcome of a completed review.
type ReviewResult struct {
	Submission  *domain.GiftCardSubmission
	Transaction *domain.Transaction
}

// Review transitions a pending submission to approved or rejected.
// Approval credits the account balance by the payout amount and records a
// completed gift_card_redemption transaction; the status transition, the
// credit and the transaction insert commit as one unit, so a crash can
// never leave a credited balance without an approved status or vice versa.
func (uc *GiftCardUseCase) Review(ctx context.Context, input ReviewInput) (*ReviewResult, error) {
	if !input.Decision.IsValid() {
		return nil, domain.ErrInvalidDecision
	}

	reviewer := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		reviewer = user.ID
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock the submission row so a concurrent double review observes the
	// new status and fails with ErrAlreadyReviewed.
	submission, err := uc.submissionRepo.GetByIDForUpdate(txCtx, tx, input.SubmissionID)
	if err != nil {
		return nil, err
	}

	if err := submission.ValidateReview(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	submission.ReviewedBy = &reviewer
	submission.ReviewedAt = &now
	submission.UpdatedAt = now

	result := &ReviewResult{Submission: submission}

	if input.Decision == domain.ReviewDecisionApprove {
		submission.Status = domain.SubmissionStatusApproved

		account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, submission.AccountID)
		if err != nil {
			return nil, err
		}

		newBalance := account.ApplyCredit(submission.PayoutAmount)
		if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, newBalance, now); err != nil {
			return nil, err
		}

		completedAt := now
		txn := &domain.Transaction{
			ID:          uc.idGen.Generate(),
			Reference:   uc.reference("GC", now),
			AccountID:   submission.AccountID,
			Kind:        domain.TransactionKindGiftCardRedemption,
			Brand:       submission.BrandName,
			USDAmount:   submission.PayoutAmount,
			Rate:        submission.ExchangeRate,
			Fee:         decimal.Zero,
			Status:      domain.TransactionStatusCompleted,
			ProcessedBy: &reviewer,
			CreatedAt:   now,
			CompletedAt: &completedAt,
		}

		if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
			return nil, err
		}

		result.Transaction = txn
	} else {
		submission.Status = domain.SubmissionStatusRejected
		submission.RejectionReason = input.RejectionReason
	}

	if err := uc.submissionRepo.UpdateReview(txCtx, tx, submission); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		eventType := domain.EventTypeSubmissionApproved
		if submission.Status == domain.SubmissionStatusRejected {
			eventType = domain.EventTypeSubmissionRejected
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   submission.ID,
			AggregateType: domain.AggregateTypeSubmission,
			EventType:     eventType,
			Payload: map[string]any{
				"submission_id": submission.ID,
				"account_id":    submission.AccountID,
				"decision":      string(input.Decision),
				"payout_amount": submission.PayoutAmount.String(),
				"reviewed_by":   reviewer,
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := uc.writeAudit(ctx, txCtx, tx, domain.AuditActionGiftCardReview, submission); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SubmissionsReviewed.WithLabelValues(string(submission.Status)).Inc()
	}

	return result, nil
}

// GetSubmission retrieves a submission by ID.
func (uc *GiftCardUseCase) GetSubmission(ctx context.Context, id string) (*domain.GiftCardSubmission, error) {
	return uc.submissionRepo.GetByID(ctx, id)
}

// ListSubmissionsByAccount lists an account's submissions.
func (uc *GiftCardUseCase) ListSubmissionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.GiftCardSubmission, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.submissionRepo.ListByAccount(ctx, accountID, limit, offset)
}

// ListPendingSubmissions lists the admin review queue.
func (uc *GiftCardUseCase) ListPendingSubmissions(ctx context.Context, limit, offset int) ([]*domain.GiftCardSubmission, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.submissionRepo.ListPending(ctx, limit, offset)
}

func (uc *GiftCardUseCase) writeAudit(ctx, txCtx context.Context, tx Transaction, action domain.AuditAction, submission *domain.GiftCardSubmission) error {
	if uc.auditRepo == nil {
		return nil
	}

	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	// The encrypted code never leaves the submissions table, not even
	// into audit rows.
	redacted := *submission
	redacted.EncryptedCode = ""

	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: "submission",
		ResourceID:   submission.ID,
		AfterState:   domain.MarshalState(redacted),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}

	return uc.auditRepo.CreateTx(txCtx, tx, auditLog)
}

func (uc *GiftCardUseCase) reference(prefix string, now time.Time) string {
	id := uc.idGen.Generate()
	suffix := id
	if len(id) > 6 {
		suffix = id[len(id)-6:]
	}

	return prefix + now.Format("20060102") + strings.ToUpper(suffix)
}
