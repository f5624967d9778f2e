package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fexhq/fex/internal/adapter/http/dto"
	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/usecase"
)

// AccountHandler serves the account dashboard and transaction history.
type AccountHandler struct {
	accountUC *usecase.AccountUseCase
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC *usecase.AccountUseCase) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Overview returns the balance, valued holdings and recent transactions
// for the authenticated user's account.
func (h *AccountHandler) Overview(w http.ResponseWriter, r *http.Request) {
	account, ok := h.actorAccount(w, r)
	if !ok {
		return
	}

	overview, err := h.accountUC.GetOverview(r.Context(), account.ID)
	if err != nil {
		writeUseCaseError(w, r, "failed to get overview", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OverviewFromUseCase(overview))
}

// ListTransactions lists the authenticated user's transaction history.
func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	account, ok := h.actorAccount(w, r)
	if !ok {
		return
	}

	page, err := h.accountUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		AccountID: account.ID,
		Kind:      domain.TransactionKind(r.URL.Query().Get("kind")),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeUseCaseError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionPageFromUseCase(page))
}

// GetTransaction retrieves one of the authenticated user's transactions.
func (h *AccountHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	account, ok := h.actorAccount(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.accountUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, r, "failed to get transaction", err)
		return
	}

	// Never leak other users' transactions.
	if txn.AccountID != account.ID {
		writeError(w, http.StatusNotFound, domain.ErrTransactionNotFound.Error(), "")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

func (h *AccountHandler) actorAccount(w http.ResponseWriter, r *http.Request) (*domain.Account, bool) {
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
