// Package api exposes the ledger, reports and token analysis over HTTP and
// streams recorded trades over a websocket.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/metrics"
	"solana-trade-desk/internal/observability"
)

// Ledger is the trade ledger used by the API.
type Ledger interface {
	RecordTrade(ctx context.Context, t *domain.Trade) error
	UpdateEquityCurve(ctx context.Context, balance float64) (*domain.EquityCurvePoint, error)
	CalculateMetrics(ctx context.Context, p metrics.Period) (*domain.PerformanceMetrics, error)
	Trades(ctx context.Context) ([]*domain.Trade, error)
	EquityCurve(ctx context.Context) ([]*domain.EquityCurvePoint, error)
}

// RiskAnalyzer scores a token.
type RiskAnalyzer interface {
	GetTokenRisk(ctx context.Context, address string) domain.RiskAssessment
}

// Advisor produces token analyses and trading recommendations.
type Advisor interface {
	AnalyzeTokenWithReasoning(ctx context.Context, address, symbol string) domain.TokenAnalysis
	GetTradingRecommendation(ctx context.Context, symbol, address string, amount float64) domain.TradingRecommendation
}

// Options for creating Server.
type Options struct {
	// Required
	Ledger  Ledger
	Risk    RiskAnalyzer
	Advisor Advisor

	// Optional
	Hub         *Hub                // nil disables /ws/trades
	Gatherer    prometheus.Gatherer // nil serves the default registry
	CORSOrigins []string
	Logger      *zap.Logger
	Clock       func() time.Time
}

// Server is the HTTP surface.
type Server struct {
	ledger  Ledger
	risk    RiskAnalyzer
	advisor Advisor
	hub     *Hub
	logger  *zap.Logger
	now     func() time.Time

	router *gin.Engine
}

// NewServer builds the router.
func NewServer(opts Options) *Server {
	s := &Server{
		ledger:  opts.Ledger,
		risk:    opts.Risk,
		advisor: opts.Advisor,
		hub:     opts.Hub,
		logger:  opts.Logger,
		now:     opts.Clock,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.Named("api")
	if s.now == nil {
		s.now = time.Now
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(s.logger, true))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(observability.Handler(opts.Gatherer)))
	if s.hub != nil {
		router.GET("/ws/trades", s.hub.ServeWS)
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/trades", s.handleRecordTrade)
		v1.GET("/trades", s.handleListTrades)
		v1.POST("/equity", s.handleUpdateEquity)
		v1.GET("/metrics", s.handleMetrics)
		v1.GET("/report", s.handleReport)
		v1.GET("/export/trades.csv", s.handleExportTrades)
		v1.GET("/export/equity.csv", s.handleExportEquity)

		tokens := v1.Group("/tokens/:address", s.requireAddress)
		tokens.GET("/risk", s.handleTokenRisk)
		tokens.GET("/analysis", s.handleTokenAnalysis)
		tokens.GET("/recommendation", s.handleRecommendation)
	}

	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
