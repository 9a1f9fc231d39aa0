// internal/logger/logger.go
package logger

import (
	"errors"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config описывает файловый лог с ротацией
type Config struct {
	LogFile     string
	MaxSize     int  // мегабайты
	MaxAge      int  // дни
	MaxBackups  int  // количество файлов
	Compress    bool // сжимать ротированные файлы
	Development bool
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		LogFile:    "tradebot.log",
		MaxSize:    20,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
	}
}

// Logger расширяет функционал zap.Logger
type Logger struct {
	*zap.Logger
	config *Config
}

func (cfg *Config) rotator() *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

func (cfg *Config) level() zapcore.Level {
	if cfg.Development {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func fileEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return encoderConfig
}

// New создает логгер: консоль (stderr) + JSON файл с ротацией.
// Используется HTTP сервером.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.LogFile == "" {
		return nil, errors.New("log file path is empty")
	}

	encoderConfig := fileEncoderConfig()
	level := cfg.level()

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(cfg.rotator()), level),
	)

	return &Logger{
		Logger: zap.New(core,
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		),
		config: cfg,
	}, nil
}

// CreateTUILogger пишет только в файл: вывод в терминал сломал бы
// альтернативный экран bubbletea.
func CreateTUILogger(debug bool, path string) (*zap.Logger, error) {
	cfg := DefaultConfig()
	if path != "" {
		cfg.LogFile = path
	}
	cfg.Development = debug

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(fileEncoderConfig()),
		zapcore.AddSync(cfg.rotator()),
		cfg.level(),
	)
	return zap.New(core), nil
}

// WithRun добавляет к логам идентификатор прогона
func WithRun(l *zap.Logger, username, leagueID string) *zap.Logger {
	return l.With(
		zap.String("run_id", uuid.New().String()),
		zap.String("username", username),
		zap.String("league_id", leagueID),
	)
}

// WithComponent добавляет информацию о компоненте системы
func (l *Logger) WithComponent(component string) *zap.Logger {
	return l.With(zap.String("component", component))
}

// TrackPerformance отслеживает длительность операции
func TrackPerformance(l *zap.Logger, operation string) (end func()) {
	start := time.Now()
	l.Debug("Starting operation", zap.String("operation", operation))

	return func() {
		duration := time.Since(start)
		l.Debug("Operation completed",
			zap.String("operation", operation),
			zap.Duration("duration", duration),
			zap.Float64("duration_ms", float64(duration.Microseconds())/1000),
		)
	}
}

// Sync реализует безопасный вызов Sync
func (l *Logger) Sync() error {
	return SafeSync(l.Logger)
}

// SafeSync игнорирует ошибки синхронизации терминальных дескрипторов
func SafeSync(l *zap.Logger) error {
	err := l.Sync()
	if err == nil || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
