package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CryptoRate is the spot buy/sell price for one cryptocurrency symbol.
// Trades use whatever rate is current at execution time; there is no
// reservation window.
type CryptoRate struct {
	Symbol    string
	Name      string
	BuyRate   decimal.Decimal
	SellRate  decimal.Decimal
	Active    bool
	UpdatedBy string
	UpdatedAt time.Time
}

// Tradable reports whether the rate can back a trade.
func (r *CryptoRate) Tradable() bool {
	return r.Active && r.BuyRate.IsPositive() && r.SellRate.IsPositive()
}

// GiftCardBrand is a supported gift card brand and its payout terms.
// ExchangeRate is the percentage of card face value paid out.
type GiftCardBrand struct {
	ID           string
	Code         string
	Name         string
	ExchangeRate decimal.Decimal
	MinAmount    decimal.Decimal
	MaxAmount    decimal.Decimal
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateCardValue checks a declared card value against the brand limits.
func (b *GiftCardBrand) ValidateCardValue(value decimal.Decimal) error {
	if value.LessThan(b.MinAmount) || value.GreaterThan(b.MaxAmount) {
		return ErrCardValueOutOfRange
	}
	return nil
}

// Payout computes the payout for a card of the given face value,
// rounded to cents.
func (b *GiftCardBrand) Payout(value decimal.Decimal) decimal.Decimal {
	return value.Mul(b.ExchangeRate).Div(decimal.NewFromInt(100)).Round(2)
}
