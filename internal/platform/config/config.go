package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Market data provider
	MarketDataBaseURL string        `mapstructure:"MARKET_DATA_BASE_URL"`
	MarketDataTimeout time.Duration `mapstructure:"MARKET_DATA_TIMEOUT"`

	// Exchange rate engine
	RateRefreshInterval      time.Duration `mapstructure:"RATE_REFRESH_INTERVAL"`
	FxFetchConcurrency       int           `mapstructure:"FX_FETCH_CONCURRENCY"`
	DefaultReportingCurrency string        `mapstructure:"DEFAULT_REPORTING_CURRENCY"`

	// Requests per minute allowed on the currency resolve endpoint.
	ResolverRateLimit int `mapstructure:"RESOLVER_RATE_LIMIT"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("MARKET_DATA_BASE_URL", "https://query1.finance.yahoo.com")
	viper.SetDefault("MARKET_DATA_TIMEOUT", "10s")
	viper.SetDefault("RATE_REFRESH_INTERVAL", "24h")
	viper.SetDefault("FX_FETCH_CONCURRENCY", 4)
	viper.SetDefault("DEFAULT_REPORTING_CURRENCY", "USD")
	viper.SetDefault("RESOLVER_RATE_LIMIT", 30)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.MarketDataBaseURL = viper.GetString("MARKET_DATA_BASE_URL")

	timeoutStr := viper.GetString("MARKET_DATA_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 10 * time.Second
		log.Printf("Warning: Invalid value for MARKET_DATA_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout.String())
	}
	cfg.MarketDataTimeout = timeout

	refreshStr := viper.GetString("RATE_REFRESH_INTERVAL")
	refreshInterval, err := time.ParseDuration(refreshStr)
	if err != nil {
		refreshInterval = 24 * time.Hour
		log.Printf("Warning: Invalid value for RATE_REFRESH_INTERVAL ('%s'). Defaulting to %s.\n", refreshStr, refreshInterval.String())
	}
	cfg.RateRefreshInterval = refreshInterval

	cfg.FxFetchConcurrency = viper.GetInt("FX_FETCH_CONCURRENCY")
	if cfg.FxFetchConcurrency < 1 {
		cfg.FxFetchConcurrency = 4
		log.Printf("Warning: FX_FETCH_CONCURRENCY must be positive. Defaulting to %d.\n", cfg.FxFetchConcurrency)
	}

	cfg.DefaultReportingCurrency = viper.GetString("DEFAULT_REPORTING_CURRENCY")
	if cfg.DefaultReportingCurrency == "" {
		cfg.DefaultReportingCurrency = "USD"
		log.Printf("Warning: DEFAULT_REPORTING_CURRENCY not set. Defaulting to %s.\n", cfg.DefaultReportingCurrency)
	}

	cfg.ResolverRateLimit = viper.GetInt("RESOLVER_RATE_LIMIT")
	if cfg.ResolverRateLimit < 1 {
		cfg.ResolverRateLimit = 30
	}

	return cfg, nil
}
