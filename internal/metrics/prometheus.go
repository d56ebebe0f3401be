package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// PrometheusRecorder implements Recorder for Prometheus.
type PrometheusRecorder struct {
	transfers       *prometheus.CounterVec
	transferVolume  prometheus.Counter
	feesCollected   prometheus.Counter
	transferLatency *prometheus.HistogramVec

	funding     *prometheus.CounterVec
	connections *prometheus.CounterVec

	reconcileRuns       prometheus.Counter
	reconcileMismatches prometheus.Gauge
	reconcileAccounts   prometheus.Gauge
	reconcileLatency    prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewPrometheusRecorder creates the collectors under the given namespace.
func NewPrometheusRecorder(namespace string) *PrometheusRecorder {
	return &PrometheusRecorder{
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_total",
				Help:      "Total number of transfer attempts per outcome",
			},
			[]string{"outcome"},
		),
		transferVolume: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfer_volume_total",
				Help:      "Sum of amounts credited to payees",
			},
		),
		feesCollected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fees_collected_total",
				Help:      "Sum of transfer fees retained by the platform",
			},
		),
		transferLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transfer_duration_seconds",
				Help:      "Transfer processing latency per outcome",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		funding: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "funding_operations_total",
				Help:      "Total number of deposits and withdrawals per outcome",
			},
			[]string{"direction", "outcome"},
		),
		connections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connections_total",
				Help:      "Total number of connection attempts per outcome",
			},
			[]string{"outcome"},
		),
		reconcileRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconciliation_runs_total",
				Help:      "Total number of ledger reconciliation runs",
			},
		),
		reconcileMismatches: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "reconciliation_mismatches",
				Help:      "Accounts whose balance disagreed with the ledger on the last run",
			},
		),
		reconcileAccounts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "reconciliation_accounts",
				Help:      "Accounts checked on the last reconciliation run",
			},
		),
		reconcileLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "reconciliation_duration_seconds",
				Help:      "Ledger reconciliation latency",
				Buckets:   prometheus.DefBuckets,
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests per route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency per route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
}

// Register registers all metrics with the given Prometheus registry.
func (pr *PrometheusRecorder) Register(registry prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		pr.transfers,
		pr.transferVolume,
		pr.feesCollected,
		pr.transferLatency,
		pr.funding,
		pr.connections,
		pr.reconcileRuns,
		pr.reconcileMismatches,
		pr.reconcileAccounts,
		pr.reconcileLatency,
		pr.httpRequests,
		pr.httpLatency,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func (pr *PrometheusRecorder) RecordTransfer(outcome string, amount, fee decimal.Decimal, duration time.Duration) {
	pr.transfers.WithLabelValues(outcome).Inc()
	pr.transferLatency.WithLabelValues(outcome).Observe(duration.Seconds())
	if outcome == OutcomeSuccess {
		pr.transferVolume.Add(amount.InexactFloat64())
		pr.feesCollected.Add(fee.InexactFloat64())
	}
}

func (pr *PrometheusRecorder) RecordFunding(direction, outcome string) {
	pr.funding.WithLabelValues(direction, outcome).Inc()
}

func (pr *PrometheusRecorder) RecordConnection(outcome string) {
	pr.connections.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) RecordReconciliation(accounts, mismatches int, duration time.Duration) {
	pr.reconcileRuns.Inc()
	pr.reconcileAccounts.Set(float64(accounts))
	pr.reconcileMismatches.Set(float64(mismatches))
	pr.reconcileLatency.Observe(duration.Seconds())
}

func (pr *PrometheusRecorder) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	pr.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	pr.httpLatency.WithLabelValues(route, method).Observe(duration.Seconds())
}
