// ====================================
// File: cmd/server/main.go
// ====================================
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/api"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/bot"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/config"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/logger"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", config.EnvOr("config", ""), "Path to config file (json or yaml)")
	addr := flag.String("addr", "", "Listen address, overrides listen_addr")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	appLogger, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if !cfg.DebugLogging {
		gin.SetMode(gin.ReleaseMode)
	}

	collector := metrics.NewCollector()
	runner, err := bot.NewRunner(cfg, appLogger.WithComponent("bootstrap"), bot.WithRequestObserver(collector))
	if err != nil {
		appLogger.Error("Failed to initialize", zap.Error(err))
		os.Exit(1)
	}

	handler := api.NewTradeHandler(runner, cfg.MinGain, runner.Matcher().Size(), appLogger.Logger)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(handler, appLogger.WithComponent("http"), collector),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("Server started", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		appLogger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server failed", zap.Error(err))
		runner.Shutdown()
		os.Exit(1)
	}

	runner.Shutdown()
}
