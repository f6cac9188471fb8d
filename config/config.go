package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Settlement SettlementConfig
	PayGateway PayGatewayConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

// SettlementConfig holds the environment-derived constants the settlement
// workflow depends on. It is built once at startup and injected into the
// services; nothing reads the environment afterwards.
type SettlementConfig struct {
	// ListPageSize is the only per-page value the admin list endpoints accept.
	ListPageSize int
	// MeetingLengthMinutes is the fixed length of a consultation meeting.
	// Ratings open strictly after meeting_at + MeetingLengthMinutes.
	MeetingLengthMinutes int
	// CreditFacilitiesValidDays is how long an authorization hold stays
	// capturable after creation.
	CreditFacilitiesValidDays int
	// PlatformFeeRateInPercentage is the platform's cut, e.g. "30.0".
	PlatformFeeRateInPercentage string
	// TransferFeeInYen is the flat bank transfer cost deducted from the reward.
	TransferFeeInYen int64
	// CaptureBatchSpec is the cron spec for the periodic capture/expiry batch.
	CaptureBatchSpec string
}

// PayGatewayConfig configures the card payment gateway client.
type PayGatewayConfig struct {
	BaseURL   string
	SecretKey string
	TenantID  string
	// UseStub switches to the in-memory gateway for development.
	UseStub bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8080"),
			Env:          envOr("ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DB_DSN", "ccs:ccs@tcp(localhost:3306)/ccs?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret: envOr("JWT_ACCESS_SECRET", "change-me-in-production"),
			AccessExpiry: 15 * time.Minute,
			Issuer:       "career-change-supporter",
		},
		Settlement: SettlementConfig{
			ListPageSize:                envIntOr("LIST_PAGE_SIZE", 20),
			MeetingLengthMinutes:        envIntOr("MEETING_LENGTH_MINUTES", 60),
			CreditFacilitiesValidDays:   7,
			PlatformFeeRateInPercentage: envOr("PLATFORM_FEE_RATE_IN_PERCENTAGE", "30.0"),
			TransferFeeInYen:            int64(envIntOr("TRANSFER_FEE_IN_YEN", 250)),
			CaptureBatchSpec:            envOr("CAPTURE_BATCH_SPEC", "@every 5m"),
		},
		PayGateway: PayGatewayConfig{
			BaseURL:   envOr("PAY_GATEWAY_BASE_URL", "https://api.pay.jp"),
			SecretKey: os.Getenv("PAY_GATEWAY_SECRET_KEY"),
			TenantID:  os.Getenv("PAY_GATEWAY_TENANT_ID"),
			UseStub:   os.Getenv("PAY_GATEWAY_SECRET_KEY") == "",
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
