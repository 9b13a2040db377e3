package app

import (
	"os"
	"strconv"
	"time"

	"github.com/nabdaotp/dashboard/pkg/nabdasdk"
	"github.com/nabdaotp/dashboard/pkg/routes"
)

type Config struct {
	BackendURL          string        // Backend the /api proxy forwards to (default: https://api.nabdaotp.com)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	GateCheckExpiry     bool          // Treat an expired JWT cookie as signed out (default: false)
	DefaultLocale       string        // Locale used when negotiation fails (default: ar)
}

func LoadConfig() Config {
	cfg := Config{
		BackendURL:          getEnvOrDefault("NABDA_API_URL", nabdasdk.DefaultBaseURL),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		GateCheckExpiry:     getEnvBoolOrDefault("GATE_CHECK_EXPIRY", false),
		DefaultLocale:       getEnvOrDefault("DEFAULT_LOCALE", routes.DefaultLocale),
	}

	if !routes.IsLocale(cfg.DefaultLocale) {
		cfg.DefaultLocale = routes.DefaultLocale
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
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

	// Plain integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
