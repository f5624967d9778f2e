package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fexhq/fex/internal/adapter/http/dto"
	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/infrastructure/auth"
	"github.com/fexhq/fex/internal/infrastructure/metrics"
	"github.com/fexhq/fex/internal/usecase"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	userUC     *usecase.UserUseCase
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userUC *usecase.UserUseCase, jwtManager *auth.JWTManager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		userUC:     userUC,
		jwtManager: jwtManager,
		metrics:    m,
	}
}

// Register creates a new user and their trading account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, account, err := h.userUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeUseCaseError(w, r, "failed to register", err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeUseCaseError(w, r, "failed to generate token", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Token:   token,
		User:    dto.UserFromDomain(user),
		Account: dto.AccountFromDomain(account),
	})
}

// Login authenticates a user and returns a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), req.ToUseCaseInput())
	if err != nil {
		if h.metrics != nil {
			h.metrics.AuthAttempts.WithLabelValues("failure").Inc()
		}
		writeError(w, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeUseCaseError(w, r, "failed to generate token", err)
		return
	}

	if h.metrics != nil {
		h.metrics.AuthAttempts.WithLabelValues("success").Inc()
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	full, err := h.userUC.GetUser(r.Context(), user.ID)
	if err != nil {
		writeUseCaseError(w, r, "failed to get user", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(full))
}
