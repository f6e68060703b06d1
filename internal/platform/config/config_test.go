package config

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/laportal")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.TokenTTL != 8*time.Hour {
		t.Fatalf("expected 8h token ttl, got %s", cfg.TokenTTL)
	}
	if cfg.Rates.SPX.DailyCapPerUnit != 100 || cfg.Rates.Flash.DailyCapPerUnit != 30 {
		t.Fatalf("unexpected default caps: %+v", cfg.Rates)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadRateOverrides(t *testing.T) {
	t.Setenv("SPX_BASE_RATE", "0.60")
	t.Setenv("SPX_DAILY_CAP", "120")
	t.Setenv("SPX_PAY_OVERFLOW", "true")
	t.Setenv("FLASH_RATE", "3.25")
	t.Setenv("RATE_TABLE_VERSION", "2026")

	rates := Load().Rates
	if !rates.SPX.BaseRatePerParcel.Equal(decimal.RequireFromString("0.60")) {
		t.Fatalf("expected overridden base rate, got %s", rates.SPX.BaseRatePerParcel)
	}
	if rates.SPX.DailyCapPerUnit != 120 || !rates.SPX.PayOverflow {
		t.Fatalf("expected overridden spx terms, got %+v", rates.SPX)
	}
	if !rates.Flash.RatePerParcel.Equal(decimal.RequireFromString("3.25")) {
		t.Fatalf("expected overridden flash rate, got %s", rates.Flash.RatePerParcel)
	}
	if rates.Version != "2026" {
		t.Fatalf("expected version 2026, got %q", rates.Version)
	}
}

func TestValidateRejectsMalformedRates(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "SPX_BASE_RATE", value: "0,75"},
		{key: "SPX_BONUS_RATE", value: "half"},
		{key: "SPX_OVERFLOW_RATE", value: "1.0.0"},
		{key: "FLASH_RATE", value: "not-a-number"},
		{key: "SPX_DAILY_CAP", value: "100.5"},
		{key: "FLASH_DAILY_CAP", value: "thirty"},
		{key: "SPX_PAY_OVERFLOW", value: "sometimes"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/laportal")
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(tc.key, tc.value)

			err := Load().Validate()
			if err == nil {
				t.Fatalf("expected %s=%q to fail validation", tc.key, tc.value)
			}
			want := "rate table: " + tc.key + ": invalid value"
			if err.Error() != want {
				t.Fatalf("expected %q, got %q", want, err.Error())
			}
		})
	}
}

func TestValidateReportsEveryMalformedRate(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/laportal")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SPX_BASE_RATE", "0,75")
	t.Setenv("FLASH_DAILY_CAP", "thirty")

	err := Load().Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, key := range []string{"SPX_BASE_RATE", "FLASH_DAILY_CAP"} {
		if !strings.Contains(err.Error(), key+": invalid value") {
			t.Fatalf("expected %s in %q", key, err.Error())
		}
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/laportal")
	t.Setenv("JWT_SECRET", "secret")

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing database", mutate: func(c *Config) { c.DatabaseURL = "" }},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = " " }},
		{name: "short secret in production", mutate: func(c *Config) { c.Environment = "production"; c.DataEncryptionKey = "k" }},
		{name: "small body limit", mutate: func(c *Config) { c.MaxBodyBytes = 10 }},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitPerMinute = 0 }},
		{name: "negative spx rate", mutate: func(c *Config) { c.Rates.SPX.BonusRatePerParcel = decimal.NewFromInt(-1) }},
		{name: "zero flash cap", mutate: func(c *Config) { c.Rates.Flash.DailyCapPerUnit = 0 }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
