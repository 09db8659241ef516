package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Server
	Port         string
	CORSOrigins  string
	AppEnv       string
	AppName      string
	SupportEmail string
	SentryDSN    string

	// Catalog cache
	RedisURL        string
	CatalogCacheTTL time.Duration

	// FawryPay
	FawryMerchantCode  string
	FawrySecureKey     string
	FawryProduction    bool
	FawryTimeout       time.Duration
	FawryVerifyWebhook bool

	// Bookings
	BookingConflictFailOpen bool

	// Notification delivery
	SMTPHost           string
	SMTPPort           int
	SMTPUser           string
	SMTPPass           string
	SMTPFrom           string
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Domain events
	AMQPURL      string
	AMQPExchange string

	LogLevel         string
	LogRetentionDays int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "coworkhub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		Port:         getEnv("PORT", "8080"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		AppEnv:       getEnv("APP_ENV", "development"),
		AppName:      getEnv("APP_NAME", "CoWorkHub"),
		SupportEmail: getEnv("SUPPORT_EMAIL", "support@coworkhub.app"),
		SentryDSN:    getEnv("SENTRY_DSN", ""),

		RedisURL:        getEnv("REDIS_URL", ""),
		CatalogCacheTTL: parseDuration(getEnv("CATALOG_CACHE_TTL", "5m")),

		FawryMerchantCode:  getEnv("FAWRY_MERCHANT_CODE", ""),
		FawrySecureKey:     getEnv("FAWRY_SECURE_KEY", ""),
		FawryProduction:    getEnvAsBool("FAWRY_PRODUCTION", false),
		FawryTimeout:       parseDuration(getEnv("FAWRY_TIMEOUT", "30s")),
		FawryVerifyWebhook: getEnvAsBool("FAWRY_VERIFY_WEBHOOK", false),

		BookingConflictFailOpen: getEnvAsBool("BOOKING_CONFLICT_FAIL_OPEN", false),

		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "coworkhub.events"),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogRetentionDays: getEnvAsInt("LOG_RETENTION_DAYS", 30),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
