package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordTrade("BUY", true)
		m.RecordLedgerError("trades")
		m.RecordProviderCall("risk", time.Second, nil)
		m.RecordProviderFallback("risk")
		m.RecordReasoning("heuristic")
		m.RecordRecommendation("NOT RECOMMENDED")
		m.RecordAlert("drawdown")
		m.RecordAlertsSuppressed()
		m.RecordNotifyError("telegram")
		m.RecordCacheLookup(true)
		m.RecordEquityPoint(1)
		m.ObserveModelLatency(time.Second)
		m.ObserveMetricsCalc("all", time.Second)
	})
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.RecordTrade("BUY", true)
	m.RecordTrade("BUY", true)
	m.RecordTrade("SELL", false)
	m.RecordProviderCall("market", 10*time.Millisecond, errors.New("boom"))
	m.RecordProviderFallback("market")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TradesRecorded.WithLabelValues("BUY", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TradesRecorded.WithLabelValues("SELL", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderCalls.WithLabelValues("market", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFallbacks.WithLabelValues("market")))
}

func TestHandler_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)
	m.RecordRecommendation("RECOMMENDED TRADE")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "test_orchestrator_recommendations_total"))
}
