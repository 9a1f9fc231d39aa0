// Package api exposes trade suggestions over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/export"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/metrics"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/sleeper"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/tradebot"
)

const serviceName = "sleeper-tradebot"

// Runner performs one trade run. *bot.Runner implements it.
type Runner interface {
	Run(ctx context.Context, req tradebot.Request) (tradebot.Output, *tradebot.Report, error)
}

// RunRecorder receives the outcome of every run. *metrics.Collector implements it.
type RunRecorder interface {
	RecordRun(rep *tradebot.Report, err error, took time.Duration)
}

// TradesResponse is the data block of GET /api/v1/trades
type TradesResponse struct {
	Username          string                  `json:"username"`
	LeagueID          string                  `json:"league_id"`
	MinGain           float64                 `json:"min_gain"`
	RostersText       string                  `json:"rosters_text"`
	TradesText        string                  `json:"trades_text"`
	NoEligiblePlayers bool                    `json:"no_eligible_players,omitempty"`
	Proposals         []export.ProposalRecord `json:"proposals"`
	Summary           *export.ExportSummary   `json:"summary,omitempty"`
}

// HealthStatus is returned by GET /health
type HealthStatus struct {
	Status     string    `json:"status"`
	Service    string    `json:"service"`
	Timestamp  time.Time `json:"timestamp"`
	ADPEntries int       `json:"adp_entries"`
}

// TradeHandler handles trade suggestion endpoints
type TradeHandler struct {
	runner         Runner
	defaultMinGain float64
	adpEntries     int
	recorder       RunRecorder
	logger         *zap.Logger
}

// NewTradeHandler creates a new trade handler
func NewTradeHandler(runner Runner, defaultMinGain float64, adpEntries int, logger *zap.Logger) *TradeHandler {
	return &TradeHandler{
		runner:         runner,
		defaultMinGain: defaultMinGain,
		adpEntries:     adpEntries,
		logger:         logger.Named("api"),
	}
}

// GetHealth returns the basic health status
func (h *TradeHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{
		Status:     "ok",
		Service:    serviceName,
		Timestamp:  time.Now(),
		ADPEntries: h.adpEntries,
	})
}

// GetTrades runs the pipeline for ?username=&league_id=&min_gain=
func (h *TradeHandler) GetTrades(c *gin.Context) {
	req, err := h.parseRequest(c)
	if err != nil {
		SendValidationError(c, "Invalid request parameters", err.Error())
		return
	}

	start := time.Now()
	out, rep, err := h.runner.Run(c.Request.Context(), req)
	if h.recorder != nil {
		h.recorder.RecordRun(rep, err, time.Since(start))
	}
	data := TradesResponse{
		Username:    req.Username,
		LeagueID:    req.LeagueID,
		MinGain:     req.MinGain,
		RostersText: out.Rosters,
		TradesText:  out.Trades,
		Proposals:   []export.ProposalRecord{},
	}

	var fetchErr *sleeper.FetchError
	switch {
	case err == nil:
	case errors.Is(err, tradebot.ErrRosterNotFound):
		SendErrorWithData(c, http.StatusNotFound,
			NewAppError(ErrCodeRosterNotFound, "Could not find your roster", "check username and league id"),
			data)
		return
	case errors.As(err, &fetchErr):
		h.logger.Warn("Sleeper request failed", zap.Error(err))
		SendError(c, http.StatusBadGateway, NewAppError(ErrCodeUpstream, "Failed to fetch league data", err.Error()))
		return
	default:
		h.logger.Error("Trade run failed", zap.Error(err))
		SendInternalError(c, "Failed to compute trade suggestions")
		return
	}

	if rep != nil {
		data.NoEligiblePlayers = rep.NoEligiblePlayers
		data.Proposals = export.Records(rep.Proposals)
		summary := export.CalculateSummary(rep.Proposals)
		data.Summary = &summary
	}

	SendSuccess(c, data)
}

func (h *TradeHandler) parseRequest(c *gin.Context) (tradebot.Request, error) {
	req := tradebot.Request{
		Username: strings.TrimSpace(c.Query("username")),
		LeagueID: strings.TrimSpace(c.Query("league_id")),
		MinGain:  h.defaultMinGain,
	}

	if raw := strings.TrimSpace(c.Query("min_gain")); raw != "" {
		gain, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, errors.New("min_gain must be a number")
		}
		req.MinGain = gain
	}

	return req, req.Validate()
}

// NewRouter wires the middleware and routes. A nil collector leaves
// /metrics unregistered.
func NewRouter(h *TradeHandler, logger *zap.Logger, collector *metrics.Collector) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	router.GET("/health", h.GetHealth)
	if collector != nil {
		h.recorder = collector
		collector.SetADPEntries(h.adpEntries)
		router.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/trades", h.GetTrades)
	}

	return router
}
