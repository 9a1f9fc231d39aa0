// internal/bot/runner.go
package bot

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/adp"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/config"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/export"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/logger"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/sleeper"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/tradebot"
)

// Runner собирает всё, что нужно для прогона: таблицу ADP, клиент Sleeper,
// движок и экспортёр. Один Runner обслуживает любое число прогонов.
type Runner struct {
	logger   *zap.Logger
	config   *config.Config
	matcher  *adp.Matcher
	client   *sleeper.Client
	engine   *tradebot.Engine
	exporter *export.TradeExporter
}

// Option настраивает Runner
type Option func(*options)

type options struct {
	observer sleeper.RequestObserver
}

// WithRequestObserver передаёт наблюдателя запросов клиенту Sleeper
func WithRequestObserver(o sleeper.RequestObserver) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// NewRunner загружает справочник ADP и алиасы, затем создаёт клиент и движок.
func NewRunner(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	matcher, err := LoadMatcher(cfg, logger)
	if err != nil {
		return nil, err
	}

	client := sleeper.NewClient(sleeper.Options{
		BaseURL:           cfg.APIBaseURL,
		Timeout:           cfg.HTTPTimeout(),
		RequestsPerMinute: cfg.RequestsPerMinute,
		Observer:          o.observer,
	}, logger)

	return &Runner{
		logger:   logger,
		config:   cfg,
		matcher:  matcher,
		client:   client,
		engine:   tradebot.NewEngine(client, logger),
		exporter: export.NewTradeExporter(logger),
	}, nil
}

// LoadMatcher читает CSV (и YAML алиасов, если задан) и строит матчер.
func LoadMatcher(cfg *config.Config, log *zap.Logger) (*adp.Matcher, error) {
	done := logger.TrackPerformance(log, "load_adp")
	defer done()

	table, stats, err := adp.LoadCSVWithStats(cfg.ADPPath)
	if err != nil {
		return nil, fmt.Errorf("load adp table: %w", err)
	}
	log.Info("ADP table loaded",
		zap.String("path", cfg.ADPPath),
		zap.Int("entries", stats.Loaded))
	log.Debug("ADP rows",
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
		zap.Int("overrides", stats.Overrides))

	opts := []adp.MatcherOption{adp.WithCutoff(cfg.MatchCutoff)}
	if cfg.AliasesPath != "" {
		aliases, err := adp.LoadAliases(cfg.AliasesPath)
		if err != nil {
			return nil, fmt.Errorf("load aliases: %w", err)
		}
		log.Debug("Aliases loaded", zap.Int("count", len(aliases)))
		opts = append(opts, adp.WithAliases(aliases))
	}

	return adp.NewMatcher(table, opts...)
}

func (r *Runner) Matcher() *adp.Matcher {
	return r.matcher
}

func (r *Runner) Engine() *tradebot.Engine {
	return r.engine
}

func (r *Runner) Exporter() *export.TradeExporter {
	return r.exporter
}

// Request собирает запрос из конфигурации.
func (r *Runner) Request() tradebot.Request {
	return tradebot.Request{
		Username: r.config.Username,
		LeagueID: r.config.LeagueID,
		MinGain:  r.config.MinGain,
	}
}

// Run выполняет один прогон.
func (r *Runner) Run(ctx context.Context, req tradebot.Request) (tradebot.Output, *tradebot.Report, error) {
	return r.engine.RunReport(ctx, r.matcher, req)
}

// Export пишет оба текстовых файла и, если задан формат, структурированный
// экспорт предложений. Возвращает пути созданных файлов.
func (r *Runner) Export(out tradebot.Output, rep *tradebot.Report) ([]string, error) {
	paths, err := r.exporter.WriteText(out, r.config.OutputDir)
	if err != nil {
		return paths, err
	}

	if r.config.ExportFormat == "" || rep == nil || len(rep.Proposals) == 0 {
		return paths, nil
	}

	format, err := export.ParseFormat(r.config.ExportFormat)
	if err != nil {
		return paths, err
	}
	path, err := r.exporter.ExportTrades(rep.Proposals, export.ExportOptions{
		Format:    format,
		MinGain:   rep.Request.MinGain,
		OutputDir: r.config.OutputDir,
	})
	if err != nil {
		return paths, err
	}
	return append(paths, path), nil
}

func (r *Runner) Shutdown() {
	r.logger.Info("Shutting down")

	if err := logger.SafeSync(r.logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to sync logger during shutdown: %v\n", err)
	}
}
