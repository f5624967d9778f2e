package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fexhq/fex/internal/usecase"
)

// RegisterRequest represents a request to register a new user.
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// BuyRequest represents a request to buy cryptocurrency.
type BuyRequest struct {
	Symbol    string          `json:"symbol"`
	USDAmount decimal.Decimal `json:"usd_amount"`
}

// ToUseCaseInput converts to use case input for the given account.
func (r *BuyRequest) ToUseCaseInput(accountID string) usecase.BuyInput {
	return usecase.BuyInput{
		AccountID: accountID,
		Symbol:    r.Symbol,
		USDAmount: r.USDAmount,
	}
}

// SellRequest represents a request to sell cryptocurrency.
type SellRequest struct {
	Symbol       string          `json:"symbol"`
	CryptoAmount decimal.Decimal `json:"crypto_amount"`
}

// ToUseCaseInput converts to use case input for the given account.
func (r *SellRequest) ToUseCaseInput(accountID string) usecase.SellInput {
	return usecase.SellInput{
		AccountID:    accountID,
		Symbol:       r.Symbol,
		CryptoAmount: r.CryptoAmount,
	}
}

// SubmitCardRequest represents a gift card submission.
type SubmitCardRequest struct {
	BrandCode string          `json:"brand_code"`
	CardValue decimal.Decimal `json:"card_value"`
	CardCode  string          `json:"card_code"`
	ImageRef  string          `json:"image_ref,omitempty"`
}

// ToUseCaseInput converts to use case input for the given account.
func (r *SubmitCardRequest) ToUseCaseInput(accountID string) usecase.SubmitInput {
	return usecase.SubmitInput{
		AccountID: accountID,
		BrandCode: r.BrandCode,
		CardValue: r.CardValue,
		CardCode:  r.CardCode,
		ImageRef:  r.ImageRef,
	}
}

// ReviewRequest represents an admin's review decision.
type ReviewRequest struct {
	Decision        string `json:"decision"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// CryptoRateUpdateItem is one entry of a bulk crypto rate update.
type CryptoRateUpdateItem struct {
	BuyRate  *decimal.Decimal `json:"buy_rate"`
	SellRate *decimal.Decimal `json:"sell_rate"`
}

// UpdateCryptoRatesRequest maps symbols to new prices.
type UpdateCryptoRatesRequest struct {
	Rates map[string]CryptoRateUpdateItem `json:"rates"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCryptoRatesRequest) ToUseCaseInput() map[string]usecase.CryptoRateUpdate {
	updates := make(map[string]usecase.CryptoRateUpdate, len(r.Rates))
	for symbol, item := range r.Rates {
		updates[symbol] = usecase.CryptoRateUpdate{
			BuyRate:  item.BuyRate,
			SellRate: item.SellRate,
		}
	}
	return updates
}

// UpdateGiftCardRatesRequest maps brand codes to new exchange rates.
type UpdateGiftCardRatesRequest struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// UpdateUserStatusRequest changes a user's account status.
type UpdateUserStatusRequest struct {
	Status string `json:"status"`
}
