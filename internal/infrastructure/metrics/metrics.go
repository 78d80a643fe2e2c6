package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger operation metrics
	TransfersCompleted   prometheus.Counter
	DepositsCompleted    prometheus.Counter
	WithdrawalsCompleted prometheus.Counter
	OperationErrors      *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
	OperationAmount      *prometheus.HistogramVec

	// Account metrics
	AccountsOpened prometheus.Counter
	AccountsClosed prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Cache metrics
	BalanceCacheHits   prometheus.Counter
	BalanceCacheMisses prometheus.Counter

	// Audit metrics
	AuditRuns          prometheus.Counter
	AuditDiscrepancies prometheus.Counter
}

// New creates all metrics and registers them with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transfers_completed_total",
			Help: "Total number of completed transfers",
		}),
		DepositsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_deposits_completed_total",
			Help: "Total number of completed deposits",
		}),
		WithdrawalsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_withdrawals_completed_total",
			Help: "Total number of completed withdrawals",
		}),
		OperationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operation_errors_total",
				Help: "Total failed operations by kind and error type",
			},
			[]string{"operation", "error_type"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_amount",
				Help:    "Amounts moved by ledger operations",
				Buckets: []float64{1, 10, 100, 1000, 10000, 50000},
			},
			[]string{"operation"},
		),

		AccountsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		AccountsClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_closed_total",
			Help: "Total number of accounts closed",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		BalanceCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_balance_cache_hits_total",
			Help: "Balance reads served from cache",
		}),
		BalanceCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_balance_cache_misses_total",
			Help: "Balance reads that fell through to storage",
		}),

		AuditRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_audit_runs_total",
			Help: "Total consistency audit runs",
		}),
		AuditDiscrepancies: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_audit_discrepancies_total",
			Help: "Accounts whose stored balance diverged from the entry log",
		}),
	}
}
