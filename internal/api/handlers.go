package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/idhash"
	"solana-trade-desk/internal/ledger"
	"solana-trade-desk/internal/metrics"
	"solana-trade-desk/internal/reporting"
	"solana-trade-desk/internal/solana"
	"solana-trade-desk/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

// tradeRequest is the body of POST /api/v1/trades. ID and Timestamp are
// optional; Value defaults to amount * price.
type tradeRequest struct {
	ID         string         `json:"id"`
	Timestamp  *time.Time     `json:"timestamp"`
	Symbol     string         `json:"symbol" binding:"required"`
	Action     domain.Action  `json:"action" binding:"required,oneof=BUY SELL STAKE LEND"`
	Platform   string         `json:"platform" binding:"required"`
	Amount     float64        `json:"amount" binding:"gte=0"`
	Price      float64        `json:"price" binding:"gte=0"`
	Value      float64        `json:"value" binding:"gte=0"`
	TxRef      string         `json:"tx_ref"`
	Success    bool           `json:"success"`
	ProfitLoss *float64       `json:"profit_loss"`
	Fees       float64        `json:"fees" binding:"gte=0"`
	Metadata   map[string]any `json:"metadata"`
}

func (r tradeRequest) toTrade(now time.Time) *domain.Trade {
	ts := now
	if r.Timestamp != nil {
		ts = *r.Timestamp
	}

	id := r.ID
	if id == "" {
		if r.TxRef != "" {
			id = idhash.ComputeTradeID(r.TxRef, r.Symbol, string(r.Action), r.Platform, ts)
		} else {
			id = uuid.NewString()
		}
	}

	t := domain.NewTrade(id, ts, r.Symbol, r.Action, r.Platform, r.Amount, r.Price)
	if r.Value > 0 {
		t.Value = r.Value
	}
	t.TxRef = r.TxRef
	t.Success = r.Success
	t.ProfitLoss = r.ProfitLoss
	t.Fees = r.Fees
	t.Metadata = r.Metadata
	return t
}

type equityRequest struct {
	Balance *float64 `json:"balance" binding:"required"`
}

type analysisQuery struct {
	Symbol string `form:"symbol" binding:"required"`
}

type recommendationQuery struct {
	Symbol string   `form:"symbol" binding:"required"`
	Amount *float64 `form:"amount" binding:"required,gte=0"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": s.now().UTC()})
}

func (s *Server) handleRecordTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	t := req.toTrade(s.now())
	if err := s.ledger.RecordTrade(c.Request.Context(), t); err != nil {
		s.writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) handleListTrades(c *gin.Context) {
	trades, err := s.ledger.Trades(c.Request.Context())
	if err != nil {
		s.writeLedgerError(c, err)
		return
	}
	if trades == nil {
		trades = []*domain.Trade{}
	}
	c.JSON(http.StatusOK, trades)
}

func (s *Server) handleUpdateEquity(c *gin.Context) {
	var req equityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	p, err := s.ledger.UpdateEquityCurve(c.Request.Context(), *req.Balance)
	if err != nil {
		s.writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) handleMetrics(c *gin.Context) {
	p, ok := s.period(c)
	if !ok {
		return
	}

	m, err := s.ledger.CalculateMetrics(c.Request.Context(), p)
	if err != nil {
		s.writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleReport(c *gin.Context) {
	p, ok := s.period(c)
	if !ok {
		return
	}

	text, err := reporting.NewGenerator(s.ledger).WithClock(s.now).GenerateText(c.Request.Context(), p)
	if err != nil {
		s.writeLedgerError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

func (s *Server) handleExportTrades(c *gin.Context) {
	trades, err := s.ledger.Trades(c.Request.Context())
	if err != nil {
		s.writeLedgerError(c, err)
		return
	}
	out, err := reporting.RenderTradesCSV(trades)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeCSV(c, "trades.csv", out)
}

func (s *Server) handleExportEquity(c *gin.Context) {
	points, err := s.ledger.EquityCurve(c.Request.Context())
	if err != nil {
		s.writeLedgerError(c, err)
		return
	}
	out, err := reporting.RenderEquityCurveCSV(points)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeCSV(c, "equity_curve.csv", out)
}

func (s *Server) handleTokenRisk(c *gin.Context) {
	c.JSON(http.StatusOK, s.risk.GetTokenRisk(c.Request.Context(), c.Param("address")))
}

func (s *Server) handleTokenAnalysis(c *gin.Context) {
	var q analysisQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.advisor.AnalyzeTokenWithReasoning(c.Request.Context(), c.Param("address"), q.Symbol))
}

func (s *Server) handleRecommendation(c *gin.Context) {
	var q recommendationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	rec := s.advisor.GetTradingRecommendation(c.Request.Context(), q.Symbol, c.Param("address"), *q.Amount)
	c.JSON(http.StatusOK, rec)
}

// requireAddress rejects token routes whose :address is not a base58 public key.
func (s *Server) requireAddress(c *gin.Context) {
	if err := solana.ValidateAddress(c.Param("address")); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.Next()
}

func (s *Server) period(c *gin.Context) (metrics.Period, bool) {
	p, err := metrics.ParsePeriod(c.DefaultQuery("period", string(metrics.PeriodAll)))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return "", false
	}
	return p, true
}

// writeLedgerError maps ledger failures to status codes: invalid trades are
// 400, duplicate ids 409, other persistence failures 503.
func (s *Server) writeLedgerError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidTrade):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrDuplicateKey):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrPersistence):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("ledger request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

func writeCSV(c *gin.Context, filename, body string) {
	c.Header("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}
