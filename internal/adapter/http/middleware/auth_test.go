package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/infrastructure/auth"
)

func TestAuthMiddlewarePopulatesContext(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Minute)
	token, err := manager.Generate(&domain.User{
		ID:    "user-1",
		Email: "user@example.com",
		Role:  domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var got *domain.User
	handler := Auth(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = domain.UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/overview", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got == nil || got.ID != "user-1" || got.Role != domain.RoleUser {
		t.Fatalf("expected user on context, got %+v", got)
	}
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Minute)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatalf("handler should not be reached")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/account/overview", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
		})
	}
}

func TestRequireRoleBlocksNonAdmins(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	req = req.WithContext(domain.WithUser(req.Context(), &domain.User{ID: "u", Role: domain.RoleUser}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	req = req.WithContext(domain.WithUser(req.Context(), &domain.User{ID: "a", Role: domain.RoleAdmin}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", rr.Code)
	}
}
