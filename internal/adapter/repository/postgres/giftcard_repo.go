package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/usecase"
)

// SubmissionRepository implements usecase.SubmissionRepository.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

const submissionColumns = `id, reference, account_id, brand_code, brand_name, card_value,
	encrypted_code, image_ref, exchange_rate, payout_amount, status,
	rejection_reason, reviewed_by, reviewed_at, created_at, updated_at`

// Create inserts a new submission inside an existing unit of work.
func (r *SubmissionRepository) Create(ctx context.Context, tx usecase.Transaction, submission *domain.GiftCardSubmission) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO gift_card_submissions (
			id, reference, account_id, brand_code, brand_name, card_value,
			encrypted_code, image_ref, exchange_rate, payout_amount, status,
			rejection_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		submission.ID,
		submission.Reference,
		submission.AccountID,
		submission.BrandCode,
		submission.BrandName,
		decimalToNumeric(submission.CardValue),
		submission.EncryptedCode,
		submission.ImageRef,
		decimalToNumeric(submission.ExchangeRate),
		decimalToNumeric(submission.PayoutAmount),
		submission.Status,
		submission.RejectionReason,
		timeToPgTimestamptz(submission.CreatedAt),
		timeToPgTimestamptz(submission.UpdatedAt),
	)

	return err
}

// GetByID retrieves a submission by ID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*domain.GiftCardSubmission, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+submissionColumns+` FROM gift_card_submissions WHERE id = $1`, id)

	return scanSubmission(row)
}

// GetByIDForUpdate retrieves a submission with a FOR UPDATE lock, so a
// concurrent review of the same submission blocks until this one commits.
func (r *SubmissionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.GiftCardSubmission, error) {
	row := txQuerier(tx).QueryRow(ctx, `SELECT `+submissionColumns+` FROM gift_card_submissions WHERE id = $1 FOR UPDATE`, id)

	return scanSubmission(row)
}

// UpdateReview persists the outcome of a review.
func (r *SubmissionRepository) UpdateReview(ctx context.Context, tx usecase.Transaction, submission *domain.GiftCardSubmission) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE gift_card_submissions
		SET status = $2, rejection_reason = $3, reviewed_by = $4, reviewed_at = $5, updated_at = $6
		WHERE id = $1
	`,
		submission.ID,
		submission.Status,
		submission.RejectionReason,
		submission.ReviewedBy,
		submission.ReviewedAt,
		timeToPgTimestamptz(submission.UpdatedAt),
	)

	return err
}

// ListByAccount lists an account's submissions, newest first.
func (r *SubmissionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.GiftCardSubmission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM gift_card_submissions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// ListPending lists the review queue, oldest first.
func (r *SubmissionRepository) ListPending(ctx context.Context, limit, offset int) ([]*domain.GiftCardSubmission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM gift_card_submissions
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`, domain.SubmissionStatusPending, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// CountPending counts pending submissions.
func (r *SubmissionRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM gift_card_submissions WHERE status = $1
	`, domain.SubmissionStatusPending).Scan(&count)

	return count, err
}

func collectSubmissions(rows pgx.Rows) ([]*domain.GiftCardSubmission, error) {
	var submissions []*domain.GiftCardSubmission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}

	return submissions, rows.Err()
}

func scanSubmission(row pgx.Row) (*domain.GiftCardSubmission, error) {
	var (
		submission   domain.GiftCardSubmission
		cardValue    pgtype.Numeric
		exchangeRate pgtype.Numeric
		payoutAmount pgtype.Numeric
		reviewedAt   pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&submission.ID,
		&submission.Reference,
		&submission.AccountID,
		&submission.BrandCode,
		&submission.BrandName,
		&cardValue,
		&submission.EncryptedCode,
		&submission.ImageRef,
		&exchangeRate,
		&payoutAmount,
		&submission.Status,
		&submission.RejectionReason,
		&submission.ReviewedBy,
		&reviewedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}

		return nil, err
	}

	submission.CardValue = numericToDecimal(cardValue)
	submission.ExchangeRate = numericToDecimal(exchangeRate)
	submission.PayoutAmount = numericToDecimal(payoutAmount)
	if reviewedAt.Valid {
		submission.ReviewedAt = &reviewedAt.Time
	}
	submission.CreatedAt = createdAt.Time
	submission.UpdatedAt = updatedAt.Time

	return &submission, nil
}
