package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fexhq/fex/internal/adapter/http/handler"
	"github.com/fexhq/fex/internal/adapter/http/middleware"
	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/infrastructure/auth"
	"github.com/fexhq/fex/internal/infrastructure/metrics"
	"github.com/fexhq/fex/internal/usecase"
	"github.com/rs/zerolog"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	AccountHandler   *handler.AccountHandler
	TradingHandler   *handler.TradingHandler
	GiftCardHandler  *handler.GiftCardHandler
	RateHandler      *handler.RateHandler
	AdminHandler     *handler.AdminHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
}

// NewRouter creates the HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
		}

		// Public endpoints
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)
		r.Get("/rates/crypto", cfg.RateHandler.ListCryptoRates)
		r.Get("/rates/giftcards", cfg.RateHandler.ListBrands)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTManager))

			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Route("/account", func(r chi.Router) {
				r.Get("/overview", cfg.AccountHandler.Overview)
				r.Get("/transactions", cfg.AccountHandler.ListTransactions)
				r.Get("/transactions/{id}", cfg.AccountHandler.GetTransaction)
			})

			r.Route("/trades", func(r chi.Router) {
				r.Post("/buy", cfg.TradingHandler.Buy)
				r.Post("/sell", cfg.TradingHandler.Sell)
			})

			r.Route("/giftcards", func(r chi.Router) {
				r.Post("/", cfg.GiftCardHandler.Submit)
				r.Get("/", cfg.GiftCardHandler.List)
				r.Get("/{id}", cfg.GiftCardHandler.Get)
			})

			// Admin endpoints
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))

				r.Get("/submissions", cfg.AdminHandler.ReviewQueue)
				r.Post("/submissions/{id}/review", cfg.AdminHandler.Review)
				r.Put("/rates/crypto", cfg.AdminHandler.UpdateCryptoRates)
				r.Put("/rates/giftcards", cfg.AdminHandler.UpdateGiftCardRates)
				r.Get("/users", cfg.AdminHandler.ListUsers)
				r.Put("/users/{id}/status", cfg.AdminHandler.UpdateUserStatus)
				r.Get("/stats", cfg.AdminHandler.Stats)
				r.Get("/consistency", cfg.AdminHandler.Consistency)
			})
		})
	})

	return r
}
