package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/bot"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/config"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/export"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/logger"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui/router"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/ui/screen"
)

// AppModel represents the main TUI application model
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// NewAppModel creates a new application model
func NewAppModel(services *ui.Services) *AppModel {
	input := screen.NewInputScreen(services.Defaults)

	r := router.New(input, func(msg ui.RouterMsg) router.Screen {
		if msg.To == ui.RouteResults {
			return screen.NewResultsScreen(services, msg.Request)
		}
		return nil
	})

	return &AppModel{
		router: r,
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return m.router.Init()
}

// Update forwards everything to the router
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}

	updatedRouter, cmd := m.router.Update(msg)
	m.router = updatedRouter.(*router.Router)
	return m, cmd
}

// View renders the application
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	return m.router.View()
}

func main() {
	configPath := flag.String("config", config.EnvOr("config", ""), "Path to config file (json or yaml)")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	format, err := export.ParseFormat(cfg.ExportFormat)
	if err != nil {
		log.Fatalf("Invalid export format: %v", err)
	}

	// В TUI логи идут только в файл
	appLogger, err := logger.CreateTUILogger(cfg.DebugLogging, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	runner, err := bot.NewRunner(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer runner.Shutdown()

	appLogger.Info("Starting TUI")

	services := &ui.Services{
		Ctx:          rootCtx,
		Runner:       runner.Engine(),
		Matcher:      runner.Matcher(),
		Exporter:     runner.Exporter(),
		OutputDir:    cfg.OutputDir,
		ExportFormat: format,
		Defaults:     runner.Request(),
		Logger:       appLogger,
	}

	program := tea.NewProgram(
		NewAppModel(services),
		tea.WithAltScreen(),
		tea.WithContext(rootCtx),
	)

	if _, err := program.Run(); err != nil && rootCtx.Err() == nil {
		appLogger.Error("TUI application failed", zap.Error(err))
	}

	appLogger.Info("Shutting down TUI application")
}
