package domain

import "errors"

var (
	// Ledger errors
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrAccountNotFound      = errors.New("account not found")
	ErrHoldingNotFound      = errors.New("holding not found")
	ErrAccountNotActive     = errors.New("account is not active")

	// Trading errors
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrBelowMinimumTrade = errors.New("amount is below the minimum trade amount")
	ErrAboveMaximumTrade = errors.New("amount is above the maximum trade amount")
	ErrRateUnavailable   = errors.New("rate unavailable for trading")

	// Gift card errors
	ErrBrandNotSupported   = errors.New("gift card brand not supported")
	ErrCardValueOutOfRange = errors.New("card value outside brand limits")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrAlreadyReviewed     = errors.New("submission has already been reviewed")
	ErrInvalidDecision     = errors.New("review decision must be approve or reject")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")

	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrInvalidStatus = errors.New("invalid status")
)
