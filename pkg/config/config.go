package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// CORS
	AllowedOrigins []string

	// Rate limiting, e.g. "100-M" for 100 requests per minute.
	RateLimit string

	// Posting behavior
	PostingMaxRetries    int
	ReversalDatingPolicy string // "original" or "current"

	// Exchange rate fallback window in days; 0 disables the fallback.
	RateFallbackMaxAgeDays int

	// Period lifecycle
	AllowHardReopen bool

	// Reconciliation matching defaults
	MatchToleranceDefault decimal.Decimal
	MatchDateWindowDays   int

	// Adjustment posting accounts, by account code.
	FXGainLossAccountCode string
	SuspenseAccountCode   string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("POSTING_MAX_RETRIES", 3)
	viper.SetDefault("REVERSAL_DATING_POLICY", "original")
	viper.SetDefault("RATE_FALLBACK_MAX_AGE_DAYS", 7)
	viper.SetDefault("ALLOW_HARD_REOPEN", false)
	viper.SetDefault("MATCH_TOLERANCE_DEFAULT", "0")
	viper.SetDefault("MATCH_DATE_WINDOW_DAYS", 3)
	viper.SetDefault("FX_GAIN_LOSS_ACCOUNT_CODE", "656")
	viper.SetDefault("SUSPENSE_ACCOUNT_CODE", "397")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.AllowedOrigins = viper.GetStringSlice("ALLOWED_ORIGINS")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.PostingMaxRetries = viper.GetInt("POSTING_MAX_RETRIES")
	if cfg.PostingMaxRetries < 1 {
		cfg.PostingMaxRetries = 3
		log.Printf("Warning: POSTING_MAX_RETRIES must be at least 1. Defaulting to %d.\n", cfg.PostingMaxRetries)
	}

	cfg.ReversalDatingPolicy = viper.GetString("REVERSAL_DATING_POLICY")
	if cfg.ReversalDatingPolicy != "original" && cfg.ReversalDatingPolicy != "current" {
		log.Printf("Warning: Invalid REVERSAL_DATING_POLICY ('%s'). Defaulting to original.\n", cfg.ReversalDatingPolicy)
		cfg.ReversalDatingPolicy = "original"
	}

	cfg.RateFallbackMaxAgeDays = viper.GetInt("RATE_FALLBACK_MAX_AGE_DAYS")
	if cfg.RateFallbackMaxAgeDays < 0 {
		cfg.RateFallbackMaxAgeDays = 0
	}

	cfg.AllowHardReopen = viper.GetBool("ALLOW_HARD_REOPEN")

	toleranceStr := viper.GetString("MATCH_TOLERANCE_DEFAULT")
	tolerance, err := decimal.NewFromString(toleranceStr)
	if err != nil || tolerance.IsNegative() {
		log.Printf("Warning: Invalid MATCH_TOLERANCE_DEFAULT ('%s'). Defaulting to 0.\n", toleranceStr)
		tolerance = decimal.Zero
	}
	cfg.MatchToleranceDefault = tolerance

	cfg.MatchDateWindowDays = viper.GetInt("MATCH_DATE_WINDOW_DAYS")
	if cfg.MatchDateWindowDays < 0 {
		cfg.MatchDateWindowDays = 0
	}

	cfg.FXGainLossAccountCode = viper.GetString("FX_GAIN_LOSS_ACCOUNT_CODE")
	cfg.SuspenseAccountCode = viper.GetString("SUSPENSE_ACCOUNT_CODE")

	return cfg, nil
}
