package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding represents the quantity of one cryptocurrency held by an account.
// A row is created on first acquisition and never deleted; zero is a valid
// resting state.
type Holding struct {
	AccountID string
	Symbol    string
	Quantity  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateDebit checks if the holding covers a sale of quantity.
func (h *Holding) ValidateDebit(quantity decimal.Decimal) error {
	if h.Quantity.Sub(quantity).IsNegative() {
		return ErrInsufficientHoldings
	}
	return nil
}
