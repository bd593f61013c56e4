package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Movement metrics
	MovementsAppended *prometheus.CounterVec
	MovementRejected  *prometheus.CounterVec
	MovementQuantity  prometheus.Histogram

	// Transfer metrics
	TransfersRequested  prometheus.Counter
	TransfersDispatched prometheus.Counter
	TransfersReceived   prometheus.Counter
	TransfersCancelled  prometheus.Counter
	TransferErrors      *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationRuns  prometheus.Counter
	DivergedKeys        prometheus.Gauge
	UnpairedTransferIns prometheus.Gauge
	BalancesRebuilt     prometheus.Counter

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	PublishErrors   prometheus.Counter

	// Database metrics
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisErrors *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Movement metrics
		MovementsAppended: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_movements_appended_total",
				Help: "Total number of movements committed to the journal",
			},
			[]string{"kind"},
		),
		MovementRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_movements_rejected_total",
				Help: "Total number of rejected movements by reason",
			},
			[]string{"reason"},
		),
		MovementQuantity: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockledger_movement_quantity",
			Help:    "Absolute movement quantities",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),

		// Transfer metrics
		TransfersRequested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_transfers_requested_total",
			Help: "Total number of transfers requested",
		}),
		TransfersDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_transfers_dispatched_total",
			Help: "Total number of transfers dispatched",
		}),
		TransfersReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_transfers_received_total",
			Help: "Total number of transfers received",
		}),
		TransfersCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_transfers_cancelled_total",
			Help: "Total number of transfers cancelled",
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),

		// Reconciliation metrics
		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_reconciliation_runs_total",
			Help: "Total number of reconciliation sweeps",
		}),
		DivergedKeys: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "stockledger_diverged_keys",
			Help: "Diverged balance keys found by the last reconciliation sweep",
		}),
		UnpairedTransferIns: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "stockledger_unpaired_transfer_ins",
			Help: "Transfer-in legs without a matching transfer-out leg",
		}),
		BalancesRebuilt: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_balances_rebuilt_total",
			Help: "Total number of cached balances rebuilt from the journal",
		}),

		// Outbox metrics
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_event_publish_errors_total",
			Help: "Total outbox publish failures",
		}),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "stockledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}
