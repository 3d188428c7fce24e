// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "solana_trade_desk"

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Ledger metrics
	TradesRecorded     *prometheus.CounterVec
	LedgerWriteErrors  *prometheus.CounterVec
	EquityPoints       prometheus.Counter
	LastEquityBalance  prometheus.Gauge
	MetricsCalcLatency *prometheus.HistogramVec

	// Risk metrics
	ProviderCalls     *prometheus.CounterVec
	ProviderFallbacks *prometheus.CounterVec
	ProviderLatency   *prometheus.HistogramVec
	CacheLookups      *prometheus.CounterVec

	// Reasoning metrics
	ReasoningRequests *prometheus.CounterVec
	ReasoningLatency  prometheus.Histogram

	// Recommendation metrics
	Recommendations *prometheus.CounterVec

	// Alert metrics
	AlertsRaised     *prometheus.CounterVec
	AlertsSuppressed prometheus.Counter
	NotifyErrors     *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg registers with the default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		TradesRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "trades_recorded_total",
			Help:      "Total number of trades appended to the ledger",
		}, []string{"action", "success"}),
		LedgerWriteErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "write_errors_total",
			Help:      "Total number of failed ledger writes",
		}, []string{"table"}),
		EquityPoints: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "equity_points_total",
			Help:      "Total number of equity curve points appended",
		}),
		LastEquityBalance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "balance",
			Help:      "Balance of the most recent equity curve point",
		}),
		MetricsCalcLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "metrics",
			Name:      "calculation_duration_seconds",
			Help:      "Performance metrics calculation latency by period",
			Buckets:   prometheus.DefBuckets,
		}, []string{"period"}),

		ProviderCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "provider_calls_total",
			Help:      "Total provider calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		ProviderFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "provider_fallbacks_total",
			Help:      "Total simulated substitutions for unavailable provider data",
		}, []string{"endpoint"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "provider_call_duration_seconds",
			Help:      "Provider call latency",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"endpoint"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "cache_lookups_total",
			Help:      "Token analysis cache lookups by result",
		}, []string{"result"}),

		ReasoningRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reasoning",
			Name:      "requests_total",
			Help:      "Reasoning requests by source (model, heuristic)",
		}, []string{"source"}),
		ReasoningLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reasoning",
			Name:      "model_duration_seconds",
			Help:      "Model completion latency",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),

		Recommendations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "recommendations_total",
			Help:      "Trading recommendations by label",
		}, []string{"recommendation"}),

		AlertsRaised: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "raised_total",
			Help:      "Alerts raised by kind",
		}, []string{"kind"}),
		AlertsSuppressed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "suppressed_total",
			Help:      "Alert batches suppressed by the cooldown",
		}),
		NotifyErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "notify_errors_total",
			Help:      "Notifier delivery failures",
		}, []string{"notifier"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RecordTrade counts a recorded trade.
func (m *Metrics) RecordTrade(action string, success bool) {
	if m == nil {
		return
	}
	m.TradesRecorded.WithLabelValues(action, boolLabel(success)).Inc()
}

// RecordLedgerError counts a failed ledger write.
func (m *Metrics) RecordLedgerError(table string) {
	if m == nil {
		return
	}
	m.LedgerWriteErrors.WithLabelValues(table).Inc()
}

// RecordEquityPoint counts an equity curve append and tracks the balance.
func (m *Metrics) RecordEquityPoint(balance float64) {
	if m == nil {
		return
	}
	m.EquityPoints.Inc()
	m.LastEquityBalance.Set(balance)
}

// ObserveMetricsCalc records metrics calculation latency.
func (m *Metrics) ObserveMetricsCalc(period string, d time.Duration) {
	if m == nil {
		return
	}
	m.MetricsCalcLatency.WithLabelValues(period).Observe(d.Seconds())
}

// RecordProviderCall records a provider call outcome and latency.
func (m *Metrics) RecordProviderCall(endpoint string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderCalls.WithLabelValues(endpoint, outcome).Inc()
	m.ProviderLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordProviderFallback counts a simulated substitution.
func (m *Metrics) RecordProviderFallback(endpoint string) {
	if m == nil {
		return
	}
	m.ProviderFallbacks.WithLabelValues(endpoint).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// RecordReasoning counts a reasoning decision by source.
func (m *Metrics) RecordReasoning(source string) {
	if m == nil {
		return
	}
	m.ReasoningRequests.WithLabelValues(source).Inc()
}

// ObserveModelLatency records model completion latency.
func (m *Metrics) ObserveModelLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.ReasoningLatency.Observe(d.Seconds())
}

// RecordRecommendation counts a recommendation label.
func (m *Metrics) RecordRecommendation(label string) {
	if m == nil {
		return
	}
	m.Recommendations.WithLabelValues(label).Inc()
}

// RecordAlert counts a raised alert.
func (m *Metrics) RecordAlert(kind string) {
	if m == nil {
		return
	}
	m.AlertsRaised.WithLabelValues(kind).Inc()
}

// RecordAlertsSuppressed counts a batch dropped by the cooldown.
func (m *Metrics) RecordAlertsSuppressed() {
	if m == nil {
		return
	}
	m.AlertsSuppressed.Inc()
}

// RecordNotifyError counts a notifier failure.
func (m *Metrics) RecordNotifyError(notifier string) {
	if m == nil {
		return
	}
	m.NotifyErrors.WithLabelValues(notifier).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
