package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/bot"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/config"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/logger"
)

func main() {
	configPath := flag.String("config", config.EnvOr("config", ""), "Path to config file (json or yaml)")
	username := flag.String("username", "", "Sleeper username")
	leagueID := flag.String("league", "", "Sleeper league id")
	minGain := flag.Float64("min-gain", 0, "Minimum net ADP gain (default from config, 5.0)")
	adpPath := flag.String("adp", "", "Path to the ADP reference CSV")
	outputDir := flag.String("out", "", "Directory for the output files")
	exportFormat := flag.String("export", "", "Structured export of proposals: csv or json")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, *username, *leagueID, *adpPath, *outputDir, *exportFormat, *debug)
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "min-gain" {
			cfg.MinGain = *minGain
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger, err := logger.CreatePrettyLogger(cfg.DebugLogging)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	os.Exit(run(cfg, appLogger))
}

func applyFlags(cfg *config.Config, username, leagueID, adpPath, outputDir, exportFormat string, debug bool) {
	if username != "" {
		cfg.Username = username
	}
	if leagueID != "" {
		cfg.LeagueID = leagueID
	}
	if adpPath != "" {
		cfg.ADPPath = adpPath
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if exportFormat != "" {
		cfg.ExportFormat = exportFormat
	}
	if debug {
		cfg.DebugLogging = true
	}
}

func run(cfg *config.Config, appLogger *zap.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := bot.NewRunner(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize", zap.Error(err))
		return 1
	}
	defer runner.Shutdown()

	out, rep, runErr := runner.Run(ctx, runner.Request())

	fmt.Println(out.Rosters)
	fmt.Println(out.Trades)

	if _, err := runner.Export(out, rep); err != nil {
		appLogger.Error("Failed to write output files", zap.Error(err))
		return 1
	}

	if runErr != nil {
		return 1
	}
	return 0
}
