package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"laportal/internal/domain/earnings"
)

type Config struct {
	Addr                 string
	DatabaseURL          string
	JWTSecret            string
	DataEncryptionKey    string
	Environment          string
	MigrationsDir        string
	SeedAdminName        string
	SeedAdminEmail       string
	SeedAdminPassword    string
	RunMigrations        bool
	RunSeed              bool
	MaxBodyBytes         int64
	RateLimitPerMinute   int
	TokenTTL             time.Duration
	MetricsEnabled       bool
	ReportCompanyName    string
	ReportCompanyAddress string
	ReportCurrency       string
	Rates                earnings.RateTable

	// rateErrs holds rate overrides that could not be parsed.
	rateErrs []error
}

// Load reads an optional .env file and then the process environment. Values in
// the environment win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "err", err)
	}

	rates, rateErrs := loadRates()
	return Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		DataEncryptionKey:    getEnv("DATA_ENCRYPTION_KEY", ""),
		Environment:          getEnv("APP_ENV", "development"),
		MigrationsDir:        getEnv("MIGRATIONS_DIR", "migrations"),
		SeedAdminName:        getEnv("SEED_ADMIN_NAME", "Administrator"),
		SeedAdminEmail:       getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:    getEnv("SEED_ADMIN_PASSWORD", ""),
		RunMigrations:        getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:              getEnvBool("RUN_SEED", true),
		MaxBodyBytes:         int64(getEnvInt("MAX_BODY_BYTES", 5<<20)),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		TokenTTL:             getEnvDuration("TOKEN_TTL", 8*time.Hour),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
		ReportCompanyName:    getEnv("REPORT_COMPANY_NAME", "Leonardo Audit"),
		ReportCompanyAddress: getEnv("REPORT_COMPANY_ADDRESS", ""),
		ReportCurrency:       getEnv("REPORT_CURRENCY", "PHP"),
		Rates:                rates,
		rateErrs:             rateErrs,
	}
}

// loadRates overlays the rate environment on the default commercial terms.
// Unparseable overrides are returned as errors so Validate refuses to start
// with them; negative values survive so Validate can reject them too.
func loadRates() (earnings.RateTable, []error) {
	r := rateEnv{}
	rates := earnings.DefaultRateTable()
	rates.Version = getEnv("RATE_TABLE_VERSION", rates.Version)
	rates.SPX.BaseRatePerParcel = r.amount("SPX_BASE_RATE", rates.SPX.BaseRatePerParcel)
	rates.SPX.BonusRatePerParcel = r.amount("SPX_BONUS_RATE", rates.SPX.BonusRatePerParcel)
	rates.SPX.DailyCapPerUnit = r.count("SPX_DAILY_CAP", rates.SPX.DailyCapPerUnit)
	rates.SPX.OverflowRatePerParcel = r.amount("SPX_OVERFLOW_RATE", rates.SPX.OverflowRatePerParcel)
	rates.SPX.PayOverflow = r.flag("SPX_PAY_OVERFLOW", rates.SPX.PayOverflow)
	rates.Flash.RatePerParcel = r.amount("FLASH_RATE", rates.Flash.RatePerParcel)
	rates.Flash.DailyCapPerUnit = r.count("FLASH_DAILY_CAP", rates.Flash.DailyCapPerUnit)
	return rates, r.errs
}

// rateEnv reads rate overrides strictly and collects every bad key.
type rateEnv struct {
	errs []error
}

func (r *rateEnv) fail(key string) {
	r.errs = append(r.errs, fmt.Errorf("%s: invalid value", key))
}

func (r *rateEnv) amount(key string, fallback decimal.Decimal) decimal.Decimal {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		r.fail(key)
		return fallback
	}
	return parsed
}

func (r *rateEnv) count(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.fail(key)
		return fallback
	}
	return parsed
}

func (r *rateEnv) flag(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		r.fail(key)
		return fallback
	}
	return parsed
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment == "production" {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.TokenTTL < time.Minute {
		return fmt.Errorf("TOKEN_TTL must be at least one minute")
	}
	if len(c.rateErrs) > 0 {
		return fmt.Errorf("rate table: %w", errors.Join(c.rateErrs...))
	}
	if err := c.Rates.Validate(); err != nil {
		return fmt.Errorf("rate table: %w", err)
	}
	return nil
}
