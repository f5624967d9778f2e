package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fexhq/fex/internal/adapter/http/dto"
	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/usecase"
)

// TradingHandler handles buy and sell requests.
type TradingHandler struct {
	tradingUC *usecase.TradingUseCase
	accountUC *usecase.AccountUseCase
}

// NewTradingHandler creates a new TradingHandler.
func NewTradingHandler(tradingUC *usecase.TradingUseCase, accountUC *usecase.AccountUseCase) *TradingHandler {
	return &TradingHandler{
		tradingUC: tradingUC,
		accountUC: accountUC,
	}
}

// Buy purchases crypto for the authenticated user's account.
func (h *TradingHandler) Buy(w http.ResponseWriter, r *http.Request) {
	account, ok := h.actorAccount(w, r)
	if !ok {
		return
	}

	var req dto.BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.tradingUC.Buy(r.Context(), req.ToUseCaseInput(account.ID))
	if err != nil {
		writeUseCaseError(w, r, "failed to execute buy", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BuyFromUseCase(result))
}

// Sell converts crypto back to USD for the authenticated user's account.
func (h *TradingHandler) Sell(w http.ResponseWriter, r *http.Request) {
	account, ok := h.actorAccount(w, r)
	if !ok {
		return
	}

	var req dto.SellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.tradingUC.Sell(r.Context(), req.ToUseCaseInput(account.ID))
	if err != nil {
		writeUseCaseError(w, r, "failed to execute sell", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SellFromUseCase(result))
}

// actorAccount resolves the authenticated user's trading account.
func (h *TradingHandler) actorAccount(w http.ResponseWriter, r *http.Request) (*domain.Account, bool) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return nil, false
	}

	account, err := h.accountUC.GetAccountByUser(r.Context(), user.ID)
	if err != nil {
		writeUseCaseError(w, r, "failed to resolve account", err)
		return nil, false
	}

	return account, true
}
