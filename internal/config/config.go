// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Username          string  `mapstructure:"username"`
	LeagueID          string  `mapstructure:"league_id"`
	MinGain           float64 `mapstructure:"min_gain"`
	ADPPath           string  `mapstructure:"adp_path"`
	AliasesPath       string  `mapstructure:"aliases_path"`
	MatchCutoff       float64 `mapstructure:"match_cutoff"`
	APIBaseURL        string  `mapstructure:"api_base_url"`
	HTTPTimeoutMs     int     `mapstructure:"http_timeout_ms"`
	RequestsPerMinute int     `mapstructure:"requests_per_minute"`
	OutputDir         string  `mapstructure:"output_dir"`
	ExportFormat      string  `mapstructure:"export_format"`
	DebugLogging      bool    `mapstructure:"debug_logging"`
	LogFile           string  `mapstructure:"log_file"`
	ListenAddr        string  `mapstructure:"listen_addr"`
}

const (
	EnvPrefix = "TRADEBOT"

	DefaultMinGain           = 5.0
	DefaultADPPath           = "preseason_adp.csv"
	DefaultMatchCutoff       = 0.8
	DefaultAPIBaseURL        = "https://api.sleeper.app/v1"
	DefaultHTTPTimeoutMs     = 30000
	DefaultRequestsPerMinute = 600
	DefaultOutputDir         = "."
	DefaultLogFile           = "tradebot.log"
	DefaultListenAddr        = ":8080"
)

var keys = []string{
	"username", "league_id", "min_gain", "adp_path", "aliases_path", "match_cutoff",
	"api_base_url", "http_timeout_ms", "requests_per_minute", "output_dir",
	"export_format", "debug_logging", "log_file", "listen_addr",
}

// LoadConfig reads path (JSON or YAML by extension) over the defaults and
// applies TRADEBOT_* environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"min_gain":            DefaultMinGain,
		"adp_path":            DefaultADPPath,
		"match_cutoff":        DefaultMatchCutoff,
		"api_base_url":        DefaultAPIBaseURL,
		"http_timeout_ms":     DefaultHTTPTimeoutMs,
		"requests_per_minute": DefaultRequestsPerMinute,
		"output_dir":          DefaultOutputDir,
		"export_format":       "",
		"debug_logging":       false,
		"log_file":            DefaultLogFile,
		"listen_addr":         DefaultListenAddr,
		"username":            "",
		"league_id":           "",
		"aliases_path":        "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	loadEnvironmentVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, validateConfig(&cfg)
}

// Default returns the configuration with every default applied.
func Default() *Config {
	return &Config{
		MinGain:           DefaultMinGain,
		ADPPath:           DefaultADPPath,
		MatchCutoff:       DefaultMatchCutoff,
		APIBaseURL:        DefaultAPIBaseURL,
		HTTPTimeoutMs:     DefaultHTTPTimeoutMs,
		RequestsPerMinute: DefaultRequestsPerMinute,
		OutputDir:         DefaultOutputDir,
		LogFile:           DefaultLogFile,
		ListenAddr:        DefaultListenAddr,
	}
}

// HTTPTimeout returns the client timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMs) * time.Millisecond
}

// Validate re-checks the configuration, e.g. after flag overrides.
func (c *Config) Validate() error {
	return validateConfig(c)
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.ADPPath) == "" {
		return errors.New("adp_path is empty")
	}
	if err := validateURL(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	switch strings.ToLower(cfg.ExportFormat) {
	case "", "csv", "json":
	default:
		return fmt.Errorf("invalid export_format %q (want csv or json)", cfg.ExportFormat)
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if math.IsNaN(cfg.MinGain) || math.IsInf(cfg.MinGain, 0) {
		return errors.New("invalid min_gain")
	}
	if !(cfg.MatchCutoff >= 0 && cfg.MatchCutoff <= 1) {
		return errors.New("match_cutoff must be between 0 and 1")
	}
	if cfg.HTTPTimeoutMs <= 0 {
		return errors.New("invalid http_timeout_ms")
	}
	if cfg.RequestsPerMinute <= 0 {
		return errors.New("invalid requests_per_minute")
	}
	return nil
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("invalid URL protocol")
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// EnvOr returns the environment value for TRADEBOT_<key> or fallback.
func EnvOr(key, fallback string) string {
	if val, ok := os.LookupEnv(EnvPrefix + "_" + strings.ToUpper(key)); ok && val != "" {
		return val
	}
	return fallback
}
