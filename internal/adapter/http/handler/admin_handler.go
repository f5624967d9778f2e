package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fexhq/fex/internal/adapter/http/dto"
	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/usecase"
)

// AdminHandler serves the review queue, rate management, user management
// and platform reports.
type AdminHandler struct {
	giftCardUC *usecase.GiftCardUseCase
	rateUC     *usecase.RateUseCase
	userUC     *usecase.UserUseCase
	reportUC   *usecase.ReportUseCase
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	giftCardUC *usecase.GiftCardUseCase,
	rateUC *usecase.RateUseCase,
	userUC *usecase.UserUseCase,
	reportUC *usecase.ReportUseCase,
) *AdminHandler {
	return &AdminHandler{
		giftCardUC: giftCardUC,
		rateUC:     rateUC,
		userUC:     userUC,
		reportUC:   reportUC,
	}
}

// ReviewQueue lists pending gift card submissions, oldest first.
func (h *AdminHandler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	submissions, err := h.giftCardUC.ListPendingSubmissions(r.Context(), limit, offset)
	if err != nil {
		writeUseCaseError(w, r, "failed to list pending submissions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SubmissionsFromDomain(submissions))
}

// Review approves or rejects a pending submission.
func (h *AdminHandler) Review(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing submission ID", "")
		return
	}

	var req dto.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.giftCardUC.Review(r.Context(), usecase.ReviewInput{
		SubmissionID:    id,
		Decision:        domain.ReviewDecision(req.Decision),
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		writeUseCaseError(w, r, "failed to review submission", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReviewFromUseCase(result))
}

// UpdateCryptoRates applies a bulk crypto rate update.
func (h *AdminHandler) UpdateCryptoRates(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCryptoRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.rateUC.UpdateCryptoRates(r.Context(), req.ToUseCaseInput()); err != nil {
		writeUseCaseError(w, r, "failed to update rates", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

// UpdateGiftCardRates applies a bulk gift card rate update.
func (h *AdminHandler) UpdateGiftCardRates(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateGiftCardRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.rateUC.UpdateGiftCardRates(r.Context(), req.Rates); err != nil {
		writeUseCaseError(w, r, "failed to update rates", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

// ListUsers lists registered users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	users, err := h.userUC.ListUsers(r.Context(), limit, offset)
	if err != nil {
		writeUseCaseError(w, r, "failed to list users", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UsersFromDomain(users))
}

// UpdateUserStatus activates or suspends a user and their account.
func (h *AdminHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	var req dto.UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.UpdateUserStatus(r.Context(), id, domain.AccountStatus(req.Status))
	if err != nil {
		writeUseCaseError(w, r, "failed to update user status", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Stats returns aggregate platform activity. The window defaults to the
// last 30 days and can be overridden with a since_days query parameter.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sinceDays := parseIntQuery(r, "since_days", 30)
	since := time.Now().AddDate(0, 0, -sinceDays)

	stats, err := h.reportUC.GetPlatformStats(r.Context(), since)
	if err != nil {
		writeUseCaseError(w, r, "failed to generate stats", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatsFromUseCase(stats))
}

// Consistency runs the ledger-wide consistency check.
func (h *AdminHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUC.CheckConsistency(r.Context())
	if err != nil {
		writeUseCaseError(w, r, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromUseCase(report))
}
