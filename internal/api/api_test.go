package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/idhash"
	"solana-trade-desk/internal/ledger"
	"solana-trade-desk/internal/orchestrator"
	"solana-trade-desk/internal/reasoning"
	"solana-trade-desk/internal/risk"
	"solana-trade-desk/internal/storage"
	"solana-trade-desk/internal/storage/memory"
)

const wsolMint = "So11111111111111111111111111111111111111112"

var fixedNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	server *Server
	ledger *ledger.Ledger
	hub    *Hub
}

func newFixture(t *testing.T, trades storage.TradeStore) *fixture {
	t.Helper()
	if trades == nil {
		trades = memory.NewTradeStore()
	}
	clock := func() time.Time { return fixedNow }

	l := ledger.New(ledger.Options{
		Trades:         trades,
		Equity:         memory.NewEquityCurveStore(),
		InitialBalance: 10,
		Clock:          clock,
	})
	hub := NewHub(nil)
	l.AddListener(hub)

	analyzer := risk.NewAnalyzer(risk.WithClock(clock))
	advisor := orchestrator.New(orchestrator.Options{
		Analyzer: analyzer,
		Reasoner: reasoning.NewEngine(nil),
		Clock:    clock,
	})

	srv := NewServer(Options{
		Ledger:  l,
		Risk:    analyzer,
		Advisor: advisor,
		Hub:     hub,
		Clock:   clock,
	})
	return &fixture{server: srv, ledger: l, hub: hub}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRecordTrade(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/trades",
		`{"symbol":"BONK","action":"BUY","platform":"jupiter","amount":2,"price":1.5,"success":true,"profit_loss":0.4,"fees":0.01}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got domain.Trade
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 3.0, got.Value)
	assert.True(t, got.Timestamp.Equal(fixedNow))

	trades, err := f.ledger.Trades(context.Background())
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, got.ID, trades[0].ID)
}

func TestRecordTrade_TxRefIDIsDeterministic(t *testing.T) {
	f := newFixture(t, nil)
	body := `{"symbol":"BONK","action":"SELL","platform":"raydium","amount":1,"price":1,"tx_ref":"sig-1","success":true}`

	w := f.do(http.MethodPost, "/api/v1/trades", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var got domain.Trade
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, idhash.ComputeTradeID("sig-1", "BONK", "SELL", "raydium", fixedNow), got.ID)

	// Same execution again is a duplicate.
	w = f.do(http.MethodPost, "/api/v1/trades", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRecordTrade_Invalid(t *testing.T) {
	f := newFixture(t, nil)

	for name, body := range map[string]string{
		"bad action":      `{"symbol":"A","action":"HODL","platform":"p","amount":1,"price":1}`,
		"missing symbol":  `{"action":"BUY","platform":"p","amount":1,"price":1}`,
		"negative amount": `{"symbol":"A","action":"BUY","platform":"p","amount":-1,"price":1}`,
		"negative fees":   `{"symbol":"A","action":"BUY","platform":"p","amount":1,"price":1,"fees":-0.1}`,
		"malformed":       `{"symbol":`,
	} {
		t.Run(name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/api/v1/trades", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

type failingTradeStore struct {
	*memory.TradeStore
}

func (failingTradeStore) Insert(context.Context, *domain.Trade) error {
	return errors.New("disk full")
}

func TestRecordTrade_PersistenceFailure(t *testing.T) {
	f := newFixture(t, failingTradeStore{memory.NewTradeStore()})

	w := f.do(http.MethodPost, "/api/v1/trades", `{"symbol":"A","action":"BUY","platform":"p","amount":1,"price":1}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEquityAndExports(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/equity", `{"balance":12.5}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var p domain.EquityCurvePoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, 2.5, p.SessionPnL)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/v1/equity", `{}`).Code)

	w = f.do(http.MethodGet, "/api/v1/export/equity.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "equity_curve.csv")
	assert.Contains(t, w.Body.String(), "12.5")

	w = f.do(http.MethodGet, "/api/v1/export/trades.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "id,"))
}

func TestMetricsAndReport(t *testing.T) {
	f := newFixture(t, nil)
	for _, body := range []string{
		`{"symbol":"A","action":"BUY","platform":"p","amount":1,"price":1,"success":true,"profit_loss":1}`,
		`{"symbol":"B","action":"SELL","platform":"p","amount":1,"price":1,"success":false,"profit_loss":-0.5}`,
	} {
		require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/v1/trades", body).Code)
	}

	w := f.do(http.MethodGet, "/api/v1/metrics?period=today", "")
	require.Equal(t, http.StatusOK, w.Code)
	var m domain.PerformanceMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, 2, m.TotalTrades)
	assert.Equal(t, 0.5, m.WinRate)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/v1/metrics?period=decade", "").Code)

	w = f.do(http.MethodGet, "/api/v1/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TRADING PERFORMANCE REPORT")
}

func TestTokenRoutes(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/api/v1/tokens/"+wsolMint+"/risk", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ra domain.RiskAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ra))
	assert.Equal(t, risk.SimulateRisk(wsolMint).RiskScore, ra.RiskScore)

	w = f.do(http.MethodGet, "/api/v1/tokens/"+wsolMint+"/analysis?symbol=SOL", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"symbol":"SOL"`)

	w = f.do(http.MethodGet, "/api/v1/tokens/"+wsolMint+"/recommendation?symbol=SOL&amount=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rec domain.TradingRecommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, 2.0, rec.OriginalAmount)
	assert.LessOrEqual(t, rec.RecommendedAmount, rec.OriginalAmount)
}

func TestTokenRoutes_BadRequests(t *testing.T) {
	f := newFixture(t, nil)

	for name, path := range map[string]string{
		"invalid address":  "/api/v1/tokens/not-base58!/risk",
		"missing symbol":   "/api/v1/tokens/" + wsolMint + "/analysis",
		"negative amount":  "/api/v1/tokens/" + wsolMint + "/recommendation?symbol=SOL&amount=-1",
		"missing amount":   "/api/v1/tokens/" + wsolMint + "/recommendation?symbol=SOL",
		"non-number input": "/api/v1/tokens/" + wsolMint + "/recommendation?symbol=SOL&amount=lots",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, path, "").Code)
		})
	}
}

func TestTradeFeed(t *testing.T) {
	f := newFixture(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.hub.Run(ctx)

	ts := httptest.NewServer(f.server.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/trades", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return f.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	tr := domain.NewTrade("feed-1", fixedNow, "BONK", domain.ActionBuy, "jupiter", 1, 2)
	require.NoError(t, f.ledger.RecordTrade(ctx, tr))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "trade", ev.Type)
	require.NotNil(t, ev.Data)
	assert.Equal(t, "feed-1", ev.Data.ID)
}
