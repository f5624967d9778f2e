package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Trading metrics
	TradesExecuted *prometheus.CounterVec
	TradeVolume    prometheus.Histogram
	TradeDuration  prometheus.Histogram
	TradeErrors    *prometheus.CounterVec

	// Gift card metrics
	SubmissionsCreated  prometheus.Counter
	SubmissionsReviewed *prometheus.CounterVec
	PayoutAmount        prometheus.Histogram

	// Rate metrics
	RateUpdates        *prometheus.CounterVec
	RateEntriesSkipped *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Trading metrics
		TradesExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_trades_executed_total",
				Help: "Total number of trades executed by kind and symbol",
			},
			[]string{"kind", "symbol"},
		),
		TradeVolume: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fex_trade_volume_usd",
			Help:    "USD volume of executed trades",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),
		TradeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fex_trade_duration_seconds",
			Help:    "Duration of trade execution",
			Buckets: prometheus.DefBuckets,
		}),
		TradeErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_trade_errors_total",
				Help: "Total number of trade errors by type",
			},
			[]string{"error_type"},
		),

		// Gift card metrics
		SubmissionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fex_giftcard_submissions_total",
			Help: "Total number of gift card submissions created",
		}),
		SubmissionsReviewed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_giftcard_reviews_total",
				Help: "Total number of gift card reviews by outcome",
			},
			[]string{"outcome"},
		),
		PayoutAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fex_giftcard_payout_usd",
			Help:    "USD payout of approved gift card submissions",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		}),

		// Rate metrics
		RateUpdates: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_rate_updates_total",
				Help: "Total number of rate update operations by kind",
			},
			[]string{"kind"},
		),
		RateEntriesSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_rate_entries_skipped_total",
				Help: "Total number of malformed rate entries skipped",
			},
			[]string{"kind"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fex_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fex_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "fex_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fex_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fex_events_published_total",
			Help: "Total outbox events published",
		}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fex_event_publish_errors_total",
			Help: "Total outbox publish errors",
		}),
	}
}
