package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fexhq/fex/internal/adapter/http/dto"
	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/usecase"
)

// GiftCardHandler handles gift card submissions.
type GiftCardHandler struct {
	giftCardUC *usecase.GiftCardUseCase
	accountUC  *usecase.AccountUseCase
}

// NewGiftCardHandler creates a new GiftCardHandler.
func NewGiftCardHandler(giftCardUC *usecase.GiftCardUseCase, accountUC *usecase.AccountUseCase) *GiftCardHandler {
	return &GiftCardHandler{
		giftCardUC: giftCardUC,
		accountUC:  accountUC,
	}
}

// Submit records a pending gift card claim for the authenticated user.
func (h *GiftCardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	account, ok := h.actorAccount(w, r)
	if !ok {
		return
	}

	var req dto.SubmitCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	submission, err := h.giftCardUC.Submit(r.Context(), req.ToUseCaseInput(account.ID))
	if err != nil {
		writeUseCaseError(w, r, "failed to submit gift card", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SubmissionFromDomain(submission))
}

// List lists the authenticated user's submissions.
func (h *GiftCardHandler) List(w http.ResponseWriter, r *http.Request) {
	account, ok := h.actorAccount(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	submissions, err := h.giftCardUC.ListSubmissionsByAccount(r.Context(), account.ID, limit, offset)
	if err != nil {
		writeUseCaseError(w, r, "failed to list submissions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SubmissionsFromDomain(submissions))
}

// Get retrieves one of the authenticated user's submissions.
func (h *GiftCardHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, ok := h.actorAccount(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing submission ID", "")
		return
	}

	submission, err := h.giftCardUC.GetSubmission(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, r, "failed to get submission", err)
		return
	}

	if submission.AccountID != account.ID {
		writeError(w, http.StatusNotFound, domain.ErrSubmissionNotFound.Error(), "")
		return
	}

	writeJSON(w, http.StatusOK, dto.SubmissionFromDomain(submission))
}

func (h *GiftCardHandler) actorAccount(w http.ResponseWriter, r *http.Request) (*domain.Account, bool) {
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
