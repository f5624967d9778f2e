package domain

import "time"

// Event types
const (
	EventTypeTransactionCompleted = "transaction.completed"
	EventTypeSubmissionCreated    = "submission.created"
	EventTypeSubmissionApproved   = "submission.approved"
	EventTypeSubmissionRejected   = "submission.rejected"
	EventTypeCryptoRatesUpdated   = "rates.crypto_updated"
	EventTypeGiftCardRatesUpdated = "rates.giftcard_updated"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeSubmission  = "submission"
	AggregateTypeRate        = "rate"
)

// OutboxEvent represents an event written in the same unit of work as the
// state change it describes, to be published asynchronously.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionCompletedEvent payload
type TransactionCompletedEvent struct {
	TransactionID string `json:"transaction_id"`
	Reference     string `json:"reference"`
	AccountID     string `json:"account_id"`
	Kind          string `json:"kind"`
	USDAmount     string `json:"usd_amount"`
	Fee           string `json:"fee"`
}

// SubmissionReviewedEvent payload
type SubmissionReviewedEvent struct {
	SubmissionID string `json:"submission_id"`
	AccountID    string `json:"account_id"`
	Decision     string `json:"decision"`
	PayoutAmount string `json:"payout_amount,omitempty"`
	ReviewedBy   string `json:"reviewed_by"`
}
