// Package tradebot runs one trade-suggestion pass for a league member.
package tradebot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/adp"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/logger"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/report"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/roster"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/sleeper"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/trade"
)

// ErrRosterNotFound means no roster in the league is owned by the requesting user.
var ErrRosterNotFound = errors.New("roster not found")

// LeagueProvider supplies the league data for a run. *sleeper.Client implements it.
type LeagueProvider interface {
	UserID(ctx context.Context, username string) (string, error)
	LeagueUsers(ctx context.Context, leagueID string) (map[string]string, error)
	Rosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error)
	Players(ctx context.Context) (sleeper.Directory, error)
}

// Request identifies whose trades to compute.
type Request struct {
	Username string
	LeagueID string
	MinGain  float64
}

// Validate checks the request before any network call is made.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username is required")
	}
	if strings.TrimSpace(r.LeagueID) == "" {
		return errors.New("league id is required")
	}
	if math.IsNaN(r.MinGain) || math.IsInf(r.MinGain, 0) {
		return fmt.Errorf("invalid min gain: %v", r.MinGain)
	}
	return nil
}

// Report is the outcome of a run.
type Report struct {
	Request           Request
	UserID            string
	Teams             []roster.Team
	Mine              *roster.Team
	Proposals         []trade.Proposal
	NoEligiblePlayers bool
}

// Output holds the two rendered text blocks.
type Output struct {
	Rosters string
	Trades  string
}

// Engine fetches league data and computes proposals. It keeps no state
// between runs.
type Engine struct {
	provider LeagueProvider
	logger   *zap.Logger
}

func NewEngine(provider LeagueProvider, logger *zap.Logger) *Engine {
	return &Engine{
		provider: provider,
		logger:   logger.Named("tradebot"),
	}
}

// Suggest runs the pipeline. A fetch failure returns a *sleeper.FetchError
// and no report. When the user owns no roster the report is returned
// together with ErrRosterNotFound.
func (e *Engine) Suggest(ctx context.Context, matcher *adp.Matcher, req Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if matcher == nil {
		return nil, errors.New("adp matcher is nil")
	}

	log := logger.WithRun(e.logger, req.Username, req.LeagueID)
	log.Info("Fetching league data",
		zap.String("username", req.Username),
		zap.String("league_id", req.LeagueID),
		zap.Float64("min_gain", req.MinGain))

	done := logger.TrackPerformance(log, "fetch")
	userID, err := e.provider.UserID(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	owners, err := e.provider.LeagueUsers(ctx, req.LeagueID)
	if err != nil {
		return nil, err
	}
	rosters, err := e.provider.Rosters(ctx, req.LeagueID)
	if err != nil {
		return nil, err
	}
	dir, err := e.provider.Players(ctx)
	if err != nil {
		return nil, err
	}
	done()

	enricher := roster.NewEnricher(matcher, dir)
	teams := enricher.EnrichTeams(rosters, owners)

	rep := &Report{
		Request:   req,
		UserID:    userID,
		Teams:     teams,
		Proposals: []trade.Proposal{},
	}

	var opponents []roster.Team
	for i := range teams {
		if teams[i].OwnerID == userID && rep.Mine == nil {
			rep.Mine = &teams[i]
			continue
		}
		opponents = append(opponents, teams[i])
	}

	if rep.Mine == nil {
		log.Warn("Roster not found",
			zap.String("username", req.Username),
			zap.String("user_id", userID),
			zap.Int("rosters", len(rosters)))
		return rep, ErrRosterNotFound
	}

	eligible := roster.Eligible(rep.Mine.Players)
	if len(eligible) == 0 {
		rep.NoEligiblePlayers = true
		log.Warn("No ADP-bearing players on roster", zap.Int("players", len(rep.Mine.Players)))
		return rep, nil
	}

	rep.Proposals = trade.Enumerate(eligible, opponents, req.MinGain)

	log.Info("Trade suggestions ready",
		zap.Int("proposals", len(rep.Proposals)),
		zap.Int("opponents", len(opponents)),
		zap.Int("eligible", len(eligible)))
	return rep, nil
}

// Run is Suggest rendered into the two text blocks. Any failure other than
// a missing roster puts the same error text in both blocks.
func (e *Engine) Run(ctx context.Context, matcher *adp.Matcher, req Request) Output {
	out, _, _ := e.RunReport(ctx, matcher, req)
	return out
}

// RunReport is Run that also hands back the report and error for callers
// that need structured results.
func (e *Engine) RunReport(ctx context.Context, matcher *adp.Matcher, req Request) (Output, *Report, error) {
	rep, err := e.Suggest(ctx, matcher, req)
	switch {
	case errors.Is(err, ErrRosterNotFound):
		return Output{
			Rosters: report.RenderRosters(rep.Teams),
			Trades:  report.RosterNotFound,
		}, rep, err
	case err != nil:
		e.logger.Error("run failed", zap.Error(err))
		msg := report.RenderError(err)
		return Output{Rosters: msg, Trades: msg}, nil, err
	}

	return Output{
		Rosters: report.RenderRosters(rep.Teams),
		Trades:  report.RenderTrades(rep.Proposals, rep.NoEligiblePlayers),
	}, rep, nil
}
