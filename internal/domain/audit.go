package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is one row of the platform activity trail.
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	Action       string // What action (trade.buy, giftcard.review, ...)
	ResourceType string // Type of resource (transaction, submission, rate, user)
	ResourceID   string // ID of the resource
	IPAddress    string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	// Trading actions
	AuditActionTradeBuy  AuditAction = "trade.buy"
	AuditActionTradeSell AuditAction = "trade.sell"

	// Gift card actions
	AuditActionGiftCardSubmit AuditAction = "giftcard.submit"
	AuditActionGiftCardReview AuditAction = "giftcard.review"

	// Rate actions
	AuditActionCryptoRatesUpdate   AuditAction = "rates.crypto_update"
	AuditActionGiftCardRatesUpdate AuditAction = "rates.giftcard_update"

	// User actions
	AuditActionUserRegister     AuditAction = "user.register"
	AuditActionUserLogin        AuditAction = "user.login"
	AuditActionUserStatusUpdate AuditAction = "user.status_update"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
