package stub

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/openrestauth/pkg/httpx"
)

type Config struct {
	DirectoryFile       string                // Path to the TOML user directory (default: ./directory.toml)
	TokenSecret         string                // Optional: HMAC secret for access tokens, random per process if empty
	TokenTTL            time.Duration         // Access token lifetime (default: 1h)
	Issuer              string                // Issuer claim for access tokens (default: openrest-auth-stub)
	PasswordPepper      string                // Optional: pepper the directory's password hashes were made with
	LoginLimit          httpx.RateLimitConfig // Per-IP request limit on the endpoint
	Env                 string                // Environment (dev, staging, prod) (default: dev)
	LogLevel            string                // Log level (debug, info, warn, error) (default: info)
	LogFormat           string                // Log format (json, text) (default: json)
	Port                int                   // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration         // Graceful shutdown timeout (default: 10s)

	LogOutput io.Writer // Log destination, os.Stdout if nil
}

func LoadConfig() Config {
	return Config{
		DirectoryFile:       getEnvOrDefault("STUB_DIRECTORY_FILE", "directory.toml"),
		TokenSecret:         os.Getenv("STUB_TOKEN_SECRET"),
		TokenTTL:            getEnvDurationOrDefault("STUB_TOKEN_TTL", time.Hour),
		Issuer:              getEnvOrDefault("STUB_ISSUER", "openrest-auth-stub"),
		PasswordPepper:      os.Getenv("STUB_PASSWORD_PEPPER"),
		LoginLimit:          httpx.ParseRateLimitFromEnv("LOGIN", httpx.DefaultLoginLimit),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("STUB_PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
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

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
