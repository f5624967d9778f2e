package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        string(u.Role),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	Token   string           `json:"token,omitempty"`
	User    *UserResponse    `json:"user"`
	Account *AccountResponse `json:"account,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Balance:   a.Balance,
		Status:    string(a.Status),
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	AccountID    string          `json:"account_id"`
	Kind         string          `json:"kind"`
	Symbol       string          `json:"symbol,omitempty"`
	Brand        string          `json:"brand,omitempty"`
	USDAmount    decimal.Decimal `json:"usd_amount"`
	CryptoAmount decimal.Decimal `json:"crypto_amount"`
	Rate         decimal.Decimal `json:"rate"`
	Fee          decimal.Decimal `json:"fee"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID,
		Reference:    t.Reference,
		AccountID:    t.AccountID,
		Kind:         string(t.Kind),
		Symbol:       t.Symbol,
		Brand:        t.Brand,
		USDAmount:    t.USDAmount,
		CryptoAmount: t.CryptoAmount,
		Rate:         t.Rate,
		Fee:          t.Fee,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt,
		CompletedAt:  t.CompletedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TransactionPageResponse is one page of transaction history.
type TransactionPageResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

// TransactionPageFromUseCase converts a transaction page to a response.
func TransactionPageFromUseCase(page *usecase.TransactionPage) *TransactionPageResponse {
	return &TransactionPageResponse{
		Transactions: TransactionsFromDomain(page.Transactions),
		Total:        page.Total,
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
}

// BuyResponse is the outcome of a completed buy.
type BuyResponse struct {
	Transaction  *TransactionResponse `json:"transaction"`
	CryptoAmount decimal.Decimal      `json:"crypto_amount"`
	TotalCharge  decimal.Decimal      `json:"total_charge"`
}

// BuyFromUseCase converts a buy result to a response.
func BuyFromUseCase(r *usecase.BuyResult) *BuyResponse {
	return &BuyResponse{
		Transaction:  TransactionFromDomain(r.Transaction),
		CryptoAmount: r.CryptoAmount,
		TotalCharge:  r.TotalCharge,
	}
}

// SellResponse is the outcome of a completed sell.
type SellResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	NetAmount   decimal.Decimal      `json:"net_amount"`
	Fee         decimal.Decimal      `json:"fee"`
}

// SellFromUseCase converts a sell result to a response.
func SellFromUseCase(r *usecase.SellResult) *SellResponse {
	return &SellResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		NetAmount:   r.NetAmount,
		Fee:         r.Fee,
	}
}

// HoldingResponse is a holding with its spot valuation.
type HoldingResponse struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	SellRate decimal.Decimal `json:"sell_rate"`
	USDValue decimal.Decimal `json:"usd_value"`
}

// OverviewResponse is the account dashboard payload.
type OverviewResponse struct {
	Account            *AccountResponse       `json:"account"`
	Holdings           []*HoldingResponse     `json:"holdings"`
	RecentTransactions []*TransactionResponse `json:"recent_transactions"`
}

// OverviewFromUseCase converts an overview to a response.
func OverviewFromUseCase(o *usecase.Overview) *OverviewResponse {
	holdings := make([]*HoldingResponse, len(o.Holdings))
	for i, h := range o.Holdings {
		holdings[i] = &HoldingResponse{
			Symbol:   h.Holding.Symbol,
			Quantity: h.Holding.Quantity,
			SellRate: h.SellRate,
			USDValue: h.USDValue,
		}
	}
	return &OverviewResponse{
		Account:            AccountFromDomain(o.Account),
		Holdings:           holdings,
		RecentTransactions: TransactionsFromDomain(o.RecentTransactions),
	}
}

// CryptoRateResponse represents a crypto rate in API responses.
type CryptoRateResponse struct {
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	BuyRate   decimal.Decimal `json:"buy_rate"`
	SellRate  decimal.Decimal `json:"sell_rate"`
	Active    bool            `json:"active"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CryptoRatesFromDomain converts domain rates to responses.
func CryptoRatesFromDomain(rates []*domain.CryptoRate) []*CryptoRateResponse {
	result := make([]*CryptoRateResponse, len(rates))
	for i, r := range rates {
		result[i] = &CryptoRateResponse{
			Symbol:    r.Symbol,
			Name:      r.Name,
			BuyRate:   r.BuyRate,
			SellRate:  r.SellRate,
			Active:    r.Active,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return result
}

// BrandResponse represents a gift card brand in API responses.
type BrandResponse struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	MinAmount    decimal.Decimal `json:"min_amount"`
	MaxAmount    decimal.Decimal `json:"max_amount"`
	Active       bool            `json:"active"`
}

// BrandsFromDomain converts domain brands to responses.
func BrandsFromDomain(brands []*domain.GiftCardBrand) []*BrandResponse {
	result := make([]*BrandResponse, len(brands))
	for i, b := range brands {
		result[i] = &BrandResponse{
			Code:         b.Code,
			Name:         b.Name,
			ExchangeRate: b.ExchangeRate,
			MinAmount:    b.MinAmount,
			MaxAmount:    b.MaxAmount,
			Active:       b.Active,
		}
	}
	return result
}

// SubmissionResponse represents a gift card submission in API responses.
// The encrypted card code is never exposed.
type SubmissionResponse struct {
	ID              string          `json:"id"`
	Reference       string          `json:"reference"`
	AccountID       string          `json:"account_id"`
	BrandCode       string          `json:"brand_code"`
	BrandName       string          `json:"brand_name"`
	CardValue       decimal.Decimal `json:"card_value"`
	ImageRef        string          `json:"image_ref,omitempty"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	PayoutAmount    decimal.Decimal `json:"payout_amount"`
	Status          string          `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ReviewedBy      *string         `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SubmissionFromDomain converts a domain submission to a response.
func SubmissionFromDomain(s *domain.GiftCardSubmission) *SubmissionResponse {
	return &SubmissionResponse{
		ID:              s.ID,
		Reference:       s.Reference,
		AccountID:       s.AccountID,
		BrandCode:       s.BrandCode,
		BrandName:       s.BrandName,
		CardValue:       s.CardValue,
		ImageRef:        s.ImageRef,
		ExchangeRate:    s.ExchangeRate,
		PayoutAmount:    s.PayoutAmount,
		Status:          string(s.Status),
		RejectionReason: s.RejectionReason,
		ReviewedBy:      s.ReviewedBy,
		ReviewedAt:      s.ReviewedAt,
		CreatedAt:       s.CreatedAt,
	}
}

// SubmissionsFromDomain converts domain submissions to responses.
func SubmissionsFromDomain(subs []*domain.GiftCardSubmission) []*SubmissionResponse {
	result := make([]*SubmissionResponse, len(subs))
	for i, s := range subs {
		result[i] = SubmissionFromDomain(s)
	}
	return result
}

// ReviewResponse is the outcome of a completed review.
type ReviewResponse struct {
	Submission  *SubmissionResponse  `json:"submission"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// ReviewFromUseCase converts a review result to a response.
func ReviewFromUseCase(r *usecase.ReviewResult) *ReviewResponse {
	resp := &ReviewResponse{
		Submission: SubmissionFromDomain(r.Submission),
	}
	if r.Transaction != nil {
		resp.Transaction = TransactionFromDomain(r.Transaction)
	}
	return resp
}

// StatsResponse is an aggregate snapshot of platform activity.
type StatsResponse struct {
	TotalUsers         int64           `json:"total_users"`
	TransactionCount   int64           `json:"transaction_count"`
	TransactionVolume  decimal.Decimal `json:"transaction_volume"`
	FeeRevenue         decimal.Decimal `json:"fee_revenue"`
	PendingSubmissions int64           `json:"pending_submissions"`
	Since              time.Time       `json:"since"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// StatsFromUseCase converts platform stats to a response.
func StatsFromUseCase(s *usecase.PlatformStats) *StatsResponse {
	return &StatsResponse{
		TotalUsers:         s.TotalUsers,
		TransactionCount:   s.TransactionCount,
		TransactionVolume:  s.TransactionVolume,
		FeeRevenue:         s.FeeRevenue,
		PendingSubmissions: s.PendingSubmissions,
		Since:              s.Since,
		GeneratedAt:        s.GeneratedAt,
	}
}

// ConsistencyResponse is the result of a ledger-wide consistency check.
type ConsistencyResponse struct {
	NegativeBalances   int64     `json:"negative_balances"`
	NegativeHoldings   int64     `json:"negative_holdings"`
	UnmatchedApprovals int64     `json:"unmatched_approvals"`
	Consistent         bool      `json:"consistent"`
	CheckedAt          time.Time `json:"checked_at"`
}

// ConsistencyFromUseCase converts a consistency report to a response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		NegativeBalances:   r.NegativeBalances,
		NegativeHoldings:   r.NegativeHoldings,
		UnmatchedApprovals: r.UnmatchedApprovals,
		Consistent:         r.Consistent,
		CheckedAt:          r.CheckedAt,
	}
}
