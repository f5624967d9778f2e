package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/fexhq/fex/internal/adapter/http/handler"
	apimiddleware "github.com/fexhq/fex/internal/adapter/http/middleware"
	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/infrastructure/auth"
	"github.com/fexhq/fex/internal/usecase"
	"github.com/fexhq/fex/internal/usecase/mocks"
)

type routerFixture struct {
	router     http.Handler
	jwtManager *auth.JWTManager
	userRepo   *mocks.MockUserRepository
	accRepo    *mocks.MockAccountRepository
	rateRepo   *mocks.MockRateRepository
}

func newRouterFixture(t *testing.T, opts ...func(*RouterConfig)) *routerFixture {
	t.Helper()

	txMgr := mocks.NewMockTransactionManager()
	accRepo := mocks.NewMockAccountRepository()
	holdRepo := mocks.NewMockHoldingRepository()
	rateRepo := mocks.NewMockRateRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	subRepo := mocks.NewMockSubmissionRepository()
	userRepo := mocks.NewMockUserRepository()
	auditRepo := mocks.NewMockAuditRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	ledgerRepo := mocks.NewMockLedgerRepository(gomock.NewController(t))
	idGen := mocks.NewMockIDGenerator()
	retrier := mocks.NewMockRetrier()
	cipher := mocks.NewMockCardCipher()

	tradingUC := usecase.NewTradingUseCase(usecase.DefaultTradingConfig(), txMgr, accRepo, holdRepo, rateRepo, txnRepo, outboxRepo, auditRepo, idGen, retrier, nil)
	giftCardUC := usecase.NewGiftCardUseCase(txMgr, accRepo, rateRepo, subRepo, txnRepo, outboxRepo, auditRepo, idGen, cipher, nil)
	rateUC := usecase.NewRateUseCase(txMgr, rateRepo, auditRepo, outboxRepo, idGen, nil, zerolog.Nop())
	accountUC := usecase.NewAccountUseCase(accRepo, holdRepo, rateRepo, txnRepo)
	userUC := usecase.NewUserUseCase(txMgr, userRepo, accRepo, auditRepo, idGen)
	reportUC := usecase.NewReportUseCase(userRepo, txnRepo, subRepo, ledgerRepo, zerolog.Nop())

	jwtManager := auth.NewJWTManager("router-test-secret", time.Minute)

	cfg := RouterConfig{
		AuthHandler:     handler.NewAuthHandler(userUC, jwtManager, nil),
		AccountHandler:  handler.NewAccountHandler(accountUC),
		TradingHandler:  handler.NewTradingHandler(tradingUC, accountUC),
		GiftCardHandler: handler.NewGiftCardHandler(giftCardUC, accountUC),
		RateHandler:     handler.NewRateHandler(rateUC),
		AdminHandler:    handler.NewAdminHandler(giftCardUC, rateUC, userUC, reportUC),
		HealthHandler:   handler.NewHealthHandler(nil, nil),
		JWTManager:      jwtManager,
		Logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &routerFixture{
		router:     NewRouter(cfg),
		jwtManager: jwtManager,
		userRepo:   userRepo,
		accRepo:    accRepo,
		rateRepo:   rateRepo,
	}
}

func (f *routerFixture) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := f.jwtManager.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func TestRouterHealthEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestRouterPublicRates(t *testing.T) {
	f := newRouterFixture(t)
	f.rateRepo.SeedRate(&domain.CryptoRate{
		Symbol:   "BTC",
		Name:     "Bitcoin",
		BuyRate:  decimal.NewFromInt(50000),
		SellRate: decimal.NewFromInt(49000),
		Active:   true,
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates/crypto", nil)
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rates []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rates); err != nil {
		t.Fatalf("failed to decode rates: %v", err)
	}
	if len(rates) != 1 || rates[0]["symbol"] != "BTC" {
		t.Fatalf("unexpected rates payload: %+v", rates)
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	f := newRouterFixture(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/account/overview"},
		{http.MethodPost, "/api/v1/trades/buy"},
		{http.MethodPost, "/api/v1/giftcards/"},
		{http.MethodGet, "/api/v1/admin/submissions"},
	}

	for _, p := range paths {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(p.method, p.path, strings.NewReader(`{}`))
		f.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestRouterAdminRequiresAdminRole(t *testing.T) {
	f := newRouterFixture(t)
	token := f.tokenFor(t, &domain.User{ID: "user-1", Email: "u@example.com", Role: domain.RoleUser})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
}

func TestRouterRegisterAndLoginFlow(t *testing.T) {
	f := newRouterFixture(t)

	body := `{"email":"new@example.com","first_name":"New","last_name":"User","password":"Sup3rSecret"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Email  string `json:"email"`
			Status string `json:"status"`
		} `json:"user"`
		Account struct {
			Balance string `json:"balance"`
		} `json:"account"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected a token in the register response")
	}
	if resp.User.Status != string(domain.AccountStatusPending) {
		t.Fatalf("expected pending status, got %s", resp.User.Status)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"new@example.com","password":"Sup3rSecret"}`))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterRateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	f := newRouterFixture(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	})

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	f.router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	f.router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestRouterIdempotencyInvokesStore(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	f := newRouterFixture(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	})

	body := `{"email":"idem@example.com","first_name":"I","last_name":"D","password":"Sup3rSecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if !store.CheckCalled() {
		t.Fatalf("expected idempotency store to be used")
	}
}
