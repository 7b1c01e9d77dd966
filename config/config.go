// Package config loads the lots settings from the environment, after an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/lotbook"
	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvLotsFile = "LOTS_FILE"
	EnvCurrency = "LOTS_CURRENCY"
	EnvMethod   = "LOTS_METHOD"
	EnvQuoteTTL = "LOTS_QUOTE_TTL"
	EnvLogLevel = "LOTS_LOG_LEVEL"
	EnvEODHDKey = "EODHD_API_KEY"
)

// Config holds the settings of the lots application.
type Config struct {
	LotsFile string
	Currency string
	Method   lotbook.CostBasisMethod
	QuoteTTL time.Duration
	LogLevel string
	EODHDKey string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	lotsFile := "lots.jsonl"
	if home, err := os.UserHomeDir(); err == nil {
		lotsFile = filepath.Join(home, ".lots.jsonl")
	}
	return Config{
		LotsFile: lotsFile,
		Currency: "USD",
		Method:   lotbook.AverageCost,
		QuoteTTL: 5 * time.Minute,
		LogLevel: "warn",
	}
}

// Load reads the configuration from the environment. Files are loaded into
// the environment first, a missing file is ignored. Existing environment
// variables are never overridden by a file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("cannot load %q: %w", file, err)
		}
	}

	cfg := Default()
	cfg.LotsFile = getEnv(EnvLotsFile, cfg.LotsFile)
	cfg.Currency = strings.ToUpper(getEnv(EnvCurrency, cfg.Currency))
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)
	cfg.EODHDKey = getEnv(EnvEODHDKey, "")

	if v := os.Getenv(EnvMethod); v != "" {
		m, err := lotbook.ParseCostBasisMethod(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvMethod, err)
		}
		cfg.Method = m
	}
	if v := os.Getenv(EnvQuoteTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvQuoteTTL, err)
		}
		cfg.QuoteTTL = d
	}
	if err := lotbook.ValidateCurrency(cfg.Currency); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", EnvCurrency, err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
