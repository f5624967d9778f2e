package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(0, 2, nil)

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rates/crypto", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates/crypto", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst exhausted, got %d", rr.Code)
	}
}

func TestRateLimiterTracksIPsSeparately(t *testing.T) {
	rl := NewRateLimiter(0, 1, nil)

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "/api/v1/rates/crypto", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, first)
	if rr.Code != http.StatusOK {
		t.Fatalf("first IP: expected 200, got %d", rr.Code)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/v1/rates/crypto", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, other)
	if rr.Code != http.StatusOK {
		t.Fatalf("second IP should have its own limiter, got %d", rr.Code)
	}
}

func TestCleanupLimitersResetsState(t *testing.T) {
	rl := NewRateLimiter(0, 1, nil)

	// Exhaust the burst for one IP.
	rl.getLimiter("10.0.0.1").Allow()
	if rl.getLimiter("10.0.0.1").Allow() {
		t.Fatal("expected limiter to be exhausted")
	}

	rl.CleanupLimiters()

	rl.mu.RLock()
	remaining := len(rl.limiters)
	rl.mu.RUnlock()
	if remaining != 0 {
		t.Fatalf("expected empty limiter map after cleanup, got %d entries", remaining)
	}

	if !rl.getLimiter("10.0.0.1").Allow() {
		t.Fatal("expected a fresh limiter after cleanup")
	}
}
