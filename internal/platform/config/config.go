package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort              = "8080"
	defaultJWTSecret         = "a-very-secret-key-should-be-longer-and-random"
	defaultJWTIssuer         = "ngo-fund-ledger"
	defaultRateLimit         = "100-M"
	defaultMigrationsPath    = "file://migrations"
	defaultTimezone          = "Africa/Nairobi"
	defaultFiscalYearStart   = 7
	defaultVoucherPrefix     = "V"
	defaultCashAccountCode   = "C-001"
	defaultRevenueAccount    = "R-200"
	defaultOrganizationName  = "KENYA COMMUNITY NGO"
	defaultCurrencyLabel     = "KSh"
	defaultIdempotencyTTL    = 24 * time.Hour
	defaultJWTExpiryDuration = time.Hour
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RedisAddr          string
	RateLimit          string
	CORSAllowedOrigins []string
	MigrationsPath     string

	// Ledger settings
	ReportingTimezone         string
	Location                  *time.Location
	FiscalYearStartMonth      time.Month
	VoucherPrefix             string
	CashAccountCode           string
	DefaultRevenueAccountCode string
	IdempotencyTTL            time.Duration

	// Export headers
	OrganizationName string
	CurrencyLabel    string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", defaultPort)
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("RATE_LIMIT", defaultRateLimit)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("MIGRATIONS_PATH", defaultMigrationsPath)
	viper.SetDefault("REPORTING_TIMEZONE", defaultTimezone)
	viper.SetDefault("FISCAL_YEAR_START_MONTH", defaultFiscalYearStart)
	viper.SetDefault("VOUCHER_PREFIX", defaultVoucherPrefix)
	viper.SetDefault("CASH_ACCOUNT_CODE", defaultCashAccountCode)
	viper.SetDefault("DEFAULT_REVENUE_ACCOUNT_CODE", defaultRevenueAccount)
	viper.SetDefault("ORGANIZATION_NAME", defaultOrganizationName)
	viper.SetDefault("CURRENCY_LABEL", defaultCurrencyLabel)
	viper.SetDefault("IDEMPOTENCY_TTL", defaultIdempotencyTTL.String())

	// Environment variables override .env values and defaults.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = defaultPort
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTExpiryDuration = durationOr("JWT_EXPIRY_DURATION", defaultJWTExpiryDuration)

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = defaultJWTIssuer
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RedisAddr = strings.TrimSpace(viper.GetString("REDIS_ADDR"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.ReportingTimezone = viper.GetString("REPORTING_TIMEZONE")
	loc, err := time.LoadLocation(cfg.ReportingTimezone)
	if err != nil {
		log.Printf("Warning: Invalid REPORTING_TIMEZONE ('%s'). Defaulting to UTC.\n", cfg.ReportingTimezone)
		cfg.ReportingTimezone = "UTC"
		loc = time.UTC
	}
	cfg.Location = loc

	month := viper.GetInt("FISCAL_YEAR_START_MONTH")
	if month < 1 || month > 12 {
		log.Printf("Warning: Invalid FISCAL_YEAR_START_MONTH (%d). Defaulting to %d.\n", month, defaultFiscalYearStart)
		month = defaultFiscalYearStart
	}
	cfg.FiscalYearStartMonth = time.Month(month)

	cfg.VoucherPrefix = stringOr("VOUCHER_PREFIX", defaultVoucherPrefix)
	cfg.CashAccountCode = stringOr("CASH_ACCOUNT_CODE", defaultCashAccountCode)
	cfg.DefaultRevenueAccountCode = stringOr("DEFAULT_REVENUE_ACCOUNT_CODE", defaultRevenueAccount)
	cfg.OrganizationName = stringOr("ORGANIZATION_NAME", defaultOrganizationName)
	cfg.CurrencyLabel = stringOr("CURRENCY_LABEL", defaultCurrencyLabel)
	cfg.IdempotencyTTL = durationOr("IDEMPOTENCY_TTL", defaultIdempotencyTTL)

	return cfg, nil
}

func stringOr(key, fallback string) string {
	v := strings.TrimSpace(viper.GetString(key))
	if v == "" {
		log.Printf("Warning: %s not set. Defaulting to %s.\n", key, fallback)
		return fallback
	}
	return v
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
