package app

import (
	"os"
	"strconv"
	"time"

	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/pkg/jwtx"
)

type Config struct {
	Issuer string // Required: issuer claim for tokens

	Algorithm      string // Optional: access token signing algorithm (EdDSA, RS256) (default: EdDSA)
	SigningKeyFile string // Optional: path to a PEM private key; empty generates an ephemeral key
	RSABits        int    // Optional: RSA key size for RS256 (default: 4096)
	RefreshSecret  string // Required outside dev: HMAC secret for refresh tokens, at least 32 bytes

	AccessTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 7d)
	ResetTTL   time.Duration // Optional: password reset token lifetime (default: 1h)

	// SuperuserRole names the role that bypasses permission checks.
	// Set AUTH_SUPERUSER_ROLE=none to disable the bypass entirely.
	SuperuserRole string

	DatabaseFile string // Optional: path to SQLite database file (default: ./vantage.db)

	SMTPHost     string // Optional: SMTP relay host; empty logs tokens instead of mailing them
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "vantage-auth"),
		Algorithm:      getEnvOrDefault("AUTH_ALGORITHM", "EdDSA"),
		SigningKeyFile: os.Getenv("AUTH_SIGNING_KEY_FILE"),
		RefreshSecret:  os.Getenv("AUTH_REFRESH_SECRET"),

		AccessTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		ResetTTL:   getEnvDurationOrDefault("AUTH_RESET_TTL", service.DefaultResetTTL),

		SuperuserRole: getEnvOrDefault("AUTH_SUPERUSER_ROLE", service.DefaultSuperuserRole),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "vantage.db"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "no-reply@localhost"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// "none" is the explicit opt-out; an empty role disables the bypass in
	// the guard.
	if cfg.SuperuserRole == "none" {
		cfg.SuperuserRole = ""
	}

	if rsaBitsStr := os.Getenv("AUTH_RSA_BITS"); rsaBitsStr != "" {
		if bits, err := strconv.Atoi(rsaBitsStr); err == nil {
			cfg.RSABits = bits
		}
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

	// Bare integers are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
