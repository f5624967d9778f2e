package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmissionStatus is the review state of a gift card submission.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// ReviewDecision is an admin's verdict on a pending submission.
type ReviewDecision string

const (
	ReviewDecisionApprove ReviewDecision = "approve"
	ReviewDecisionReject  ReviewDecision = "reject"
)

// IsValid checks if the decision is a known review decision.
func (d ReviewDecision) IsValid() bool {
	return d == ReviewDecisionApprove || d == ReviewDecisionReject
}

// GiftCardSubmission is a user's claim that a gift card of the declared
// value should be exchanged for cash. A submission transitions at most
// once: pending -> approved or pending -> rejected. Approval credits the
// account balance exactly once.
type GiftCardSubmission struct {
	ID              string
	Reference       string
	AccountID       string
	BrandCode       string
	BrandName       string
	CardValue       decimal.Decimal
	EncryptedCode   string
	ImageRef        string
	ExchangeRate    decimal.Decimal
	PayoutAmount    decimal.Decimal
	Status          SubmissionStatus
	RejectionReason string
	ReviewedBy      *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidateReview checks that the submission can still be reviewed.
func (s *GiftCardSubmission) ValidateReview() error {
	if s.Status != SubmissionStatusPending {
		return ErrAlreadyReviewed
	}
	return nil
}
