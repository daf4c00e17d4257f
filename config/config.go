package config

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider kinds accepted by PROVIDER.
const (
	ProviderYahoo = "yahoo"
	ProviderCSV   = "csv"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	LOG_LEVEL=info
//	PROVIDER=yahoo
//	PROVIDER_RATE_LIMIT=2
//	RISK_FREE_RATE=0.02
//	CACHE_ENABLED=true
//	CACHE_TTL=12h
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=investhelper
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Provider ProviderConfig
	Metrics  MetricsConfig
	Cache    CacheConfig
	Postgres PostgresConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	RequestTimeout     time.Duration
	RateLimitPerMinute int // 0 disables the limiter
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// ProviderConfig selects where price history comes from.
type ProviderConfig struct {
	Kind       string // yahoo | csv
	CSVDataDir string
	RateLimit  int // outbound requests per second, 0 = unlimited
}

// MetricsConfig holds engine parameters.
type MetricsConfig struct {
	RiskFreeRate float64 // annual, decimal (0.02 = 2%)
}

// CacheConfig controls the Postgres-backed price cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// PostgresConfig defines connection details for PostgreSQL. URL is the
// computed DSN used by database/sql.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// AppConfig is populated once via LoadConfig and read everywhere else.
var AppConfig Config

// LoadConfig initializes the global AppConfig.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Invalid or missing required values terminate the process.
func LoadConfig() {
	setDefaults()

	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = fromViper()
	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)

	viper.SetDefault("PROVIDER", ProviderYahoo)
	viper.SetDefault("CSV_DATA_DIR", "./data/prices")
	viper.SetDefault("PROVIDER_RATE_LIMIT", 2)
	viper.SetDefault("RISK_FREE_RATE", 0.0)

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("CACHE_TTL", "12h")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "investhelper")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
}

func fromViper() Config {
	cfg := Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			RequestTimeout:     viper.GetDuration("REQUEST_TIMEOUT"),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
		},
		Provider: ProviderConfig{
			Kind:       strings.ToLower(strings.TrimSpace(viper.GetString("PROVIDER"))),
			CSVDataDir: viper.GetString("CSV_DATA_DIR"),
			RateLimit:  viper.GetInt("PROVIDER_RATE_LIMIT"),
		},
		Metrics: MetricsConfig{
			RiskFreeRate: viper.GetFloat64("RISK_FREE_RATE"),
		},
		Cache: CacheConfig{
			Enabled: viper.GetBool("CACHE_ENABLED"),
			TTL:     viper.GetDuration("CACHE_TTL"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}
	cfg.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
	return cfg
}

// problems lists every invalid or missing setting of cfg. Postgres settings
// are only checked when the cache is enabled.
func problems(cfg Config) []string {
	var out []string

	if cfg.Server.Port == "" {
		out = append(out, "SERVER_PORT")
	}
	if cfg.Server.RequestTimeout <= 0 {
		out = append(out, "REQUEST_TIMEOUT (must be > 0)")
	}
	if cfg.Server.RateLimitPerMinute < 0 {
		out = append(out, "RATE_LIMIT_PER_MINUTE (must be >= 0)")
	}

	switch cfg.Provider.Kind {
	case ProviderYahoo:
	case ProviderCSV:
		if cfg.Provider.CSVDataDir == "" {
			out = append(out, "CSV_DATA_DIR")
		}
	default:
		out = append(out, fmt.Sprintf("PROVIDER (%q is not yahoo|csv)", cfg.Provider.Kind))
	}

	if cfg.Provider.RateLimit < 0 {
		out = append(out, "PROVIDER_RATE_LIMIT (must be >= 0)")
	}

	if math.IsNaN(cfg.Metrics.RiskFreeRate) || math.IsInf(cfg.Metrics.RiskFreeRate, 0) {
		out = append(out, "RISK_FREE_RATE")
	}

	if !cfg.Cache.Enabled {
		return out
	}
	if cfg.Cache.TTL <= 0 {
		out = append(out, "CACHE_TTL (must be > 0)")
	}
	if cfg.Postgres.Host == "" {
		out = append(out, "POSTGRES_HOST")
	}
	if cfg.Postgres.Port == 0 {
		out = append(out, "POSTGRES_PORT")
	}
	if cfg.Postgres.User == "" {
		out = append(out, "POSTGRES_USER")
	}
	if cfg.Postgres.Password == "" {
		out = append(out, "POSTGRES_PASSWORD")
	}
	if cfg.Postgres.DBName == "" {
		out = append(out, "POSTGRES_DB")
	}
	return out
}

// validateConfig terminates the application with log.Fatalf when AppConfig
// has missing or invalid fields.
func validateConfig() {
	if bad := problems(AppConfig); len(bad) > 0 {
		log.Fatalf("invalid configuration: %v\n", bad)
	}
}
