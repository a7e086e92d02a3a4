package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	Transactions        *prometheus.CounterVec
	TransactionDuration *prometheus.HistogramVec
	TransactionAmount   *prometheus.HistogramVec
	TransactionFailures *prometheus.CounterVec

	// Account metrics
	AccountsCreated  prometheus.Counter
	CustomersCreated prometheus.Counter

	// Notification metrics
	NotificationsQueued    prometheus.Counter
	NotificationsDropped   prometheus.Counter
	NotificationsDelivered *prometheus.CounterVec
	NotificationsFailed    *prometheus.CounterVec
	NotificationQueueDepth prometheus.Gauge

	// Account resolver cache
	AccountCacheLookups *prometheus.CounterVec

	// API metrics
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Ledger checks
	ConsistencyIssues prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_transactions_total",
				Help: "Total ledger operations by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		TransactionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_transaction_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_transaction_amount",
				Help:    "Committed transaction amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"type"},
		),
		TransactionFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_transaction_failures_total",
				Help: "Failed ledger operations by error kind and the stage reached",
			},
			[]string{"type", "kind", "stage"},
		),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		CustomersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_customers_created_total",
			Help: "Total number of customers created",
		}),

		NotificationsQueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_notifications_queued_total",
			Help: "Notifications accepted by the dispatcher",
		}),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_notifications_dropped_total",
			Help: "Notifications dropped because the queue was full or closed",
		}),
		NotificationsDelivered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_notifications_delivered_total",
				Help: "Notifications delivered by channel",
			},
			[]string{"channel"},
		),
		NotificationsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_notifications_failed_total",
				Help: "Notifications that exhausted retries by channel",
			},
			[]string{"channel"},
		),
		NotificationQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bankledger_notification_queue_depth",
			Help: "Notifications waiting for delivery",
		}),

		AccountCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_account_cache_lookups_total",
				Help: "Account number lookups by cache result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bankledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		}),

		ConsistencyIssues: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bankledger_consistency_issues",
			Help: "Issues found by the last ledger consistency check",
		}),
	}
}
