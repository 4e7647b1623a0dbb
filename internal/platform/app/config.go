package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer        string // Issuer claim for session tokens
	SessionSecret string // Required: HS256 secret for session tokens
	ServiceKey    string // Optional: shared key enabling the service tier; empty disables it

	DBDriver    string // Database driver (sqlite, postgres) (default: sqlite)
	DatabaseDSN string // DSN for postgres, or path to the SQLite file
	PepperFile  string // Path to the password pepper file (default: ./pepper)

	BaseURL      string // Public site URL used in emailed links
	ContactInbox string // Address contact-form messages are forwarded to

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	InviteTTL   time.Duration // Invitation validity window (default: 168h)
	SessionTTL  time.Duration // Session token lifetime (default: 24h)
	RecoveryTTL time.Duration // Recovery token lifetime (default: 1h)

	Env                  string // Environment (dev, staging, prod) (default: dev)
	LogLevel             string // Log level (debug, info, warn, error) (default: info)
	LogFormat            string // Log format (json, text) (default: json)
	Port                 int    // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration
	HousekeepingInterval time.Duration
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:        getEnvOrDefault("PLATFORM_ISSUER", "nextprepbd-platform"),
		SessionSecret: os.Getenv("PLATFORM_SESSION_SECRET"),
		ServiceKey:    os.Getenv("PLATFORM_SERVICE_KEY"),

		DBDriver:    getEnvOrDefault("PLATFORM_DB_DRIVER", "sqlite"),
		DatabaseDSN: getEnvOrDefault("PLATFORM_DATABASE_DSN", "platform.db"),
		PepperFile:  getEnvOrDefault("PLATFORM_PEPPER_FILE", "pepper"),

		BaseURL:      getEnvOrDefault("PLATFORM_BASE_URL", "http://localhost:8080"),
		ContactInbox: os.Getenv("PLATFORM_CONTACT_INBOX"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "no-reply@nextprepbd.com"),

		InviteTTL:   getEnvDurationOrDefault("PLATFORM_INVITE_TTL", 7*24*time.Hour),
		SessionTTL:  getEnvDurationOrDefault("PLATFORM_SESSION_TTL", 24*time.Hour),
		RecoveryTTL: getEnvDurationOrDefault("PLATFORM_RECOVERY_TTL", time.Hour),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
