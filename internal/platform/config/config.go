package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string        `mapstructure:"PGSQL_URL"`
	Port               string        `mapstructure:"PORT"`
	IsProduction       bool          `mapstructure:"IS_PRODUCTION"`
	EnableDBCheck      bool          `mapstructure:"ENABLE_DB_CHECK"`
	DBTxTimeout        time.Duration `mapstructure:"DB_TX_TIMEOUT"`
	RateLimit          string        `mapstructure:"RATE_LIMIT"` // ulule/limiter formatted rate, e.g. "100-M"
	CORSAllowedOrigins []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	SQLitePath         string        `mapstructure:"SQLITE_PATH"`
	DefaultCurrency    string        `mapstructure:"DEFAULT_CURRENCY"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	LogFormat          string        `mapstructure:"LOG_FORMAT"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("DB_TX_TIMEOUT", "5s")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("SQLITE_PATH", "ledger.db")
	v.SetDefault("DEFAULT_CURRENCY", "USD")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	// Values from .env are now in the process environment and can be
	// overridden by actual environment variables.
	v.AutomaticEnv()

	return FromViper(v), nil
}

// FromViper reads a Config out of an already populated viper instance.
// The CLI uses it after binding its flags and config file.
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DatabaseURL:     v.GetString("PGSQL_URL"),
		Port:            v.GetString("PORT"),
		IsProduction:    v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   v.GetBool("ENABLE_DB_CHECK"),
		RateLimit:       v.GetString("RATE_LIMIT"),
		SQLitePath:      v.GetString("SQLITE_PATH"),
		DefaultCurrency: strings.ToUpper(v.GetString("DEFAULT_CURRENCY")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
	}

	if cfg.DatabaseURL == "" {
		slog.Debug("PGSQL_URL not set")
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		slog.Warn("PORT not set, using default", slog.String("port", cfg.Port))
	}

	txTimeoutStr := v.GetString("DB_TX_TIMEOUT")
	txTimeout, err := time.ParseDuration(txTimeoutStr)
	if err != nil || txTimeout < 0 {
		txTimeout = 5 * time.Second
		slog.Warn("Invalid value for DB_TX_TIMEOUT, using default",
			slog.String("value", txTimeoutStr), slog.Duration("default", txTimeout))
	}
	cfg.DBTxTimeout = txTimeout

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg
}
