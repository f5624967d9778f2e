package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of a trading account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusPending   AccountStatus = "pending"
)

var validAccountStatuses = map[AccountStatus]bool{
	AccountStatusActive:    true,
	AccountStatusSuspended: true,
	AccountStatusPending:   true,
}

// IsValid checks if the status is a known account status.
func (s AccountStatus) IsValid() bool {
	return validAccountStatuses[s]
}

// Account represents a user's cash account on the platform.
// The balance is denominated in USD and can never go negative.
type Account struct {
	ID        string
	UserID    string
	Balance   decimal.Decimal
	Status    AccountStatus
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTrade reports whether the account may execute trades.
func (a *Account) CanTrade() bool {
	return a.Status == AccountStatusActive
}

// ValidateDebit checks if the account can be debited by amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientBalance
	}
	return nil
}

// ApplyDebit returns the new balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the new balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}
