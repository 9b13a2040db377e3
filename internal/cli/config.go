package cli

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nabdaotp/dashboard/pkg/nabdasdk"
)

type Config struct {
	APIURL        string        // Backend base URL (default: https://api.nabdaotp.com)
	DashboardURL  string        // Dashboard origin the credential cookie is scoped to (default: http://localhost:8080)
	StateFile     string        // SQLite state file (default: $XDG_CONFIG_HOME/nabda/state.db)
	MasterKey     string        // Optional: key material sealing the state file values
	MasterKeyFile string        // Optional: file holding the key material, wins over MasterKey
	LogLevel      string        // Log level (debug, info, warn, error) (default: warn)
	LogFormat     string        // Log format (json, text) (default: text)
	Timeout       time.Duration // Per request timeout (default: 10s)
	CheckExpiry   bool          // Treat an expired JWT cookie as signed out (default: false)
}

func LoadConfig() Config {
	return Config{
		APIURL:        getEnvOrDefault("NABDA_API_URL", nabdasdk.DefaultBaseURL),
		DashboardURL:  getEnvOrDefault("NABDA_DASHBOARD_URL", "http://localhost:8080"),
		StateFile:     getEnvOrDefault("NABDA_STATE_FILE", defaultStateFile()),
		MasterKey:     os.Getenv("NABDA_MASTER_KEY"),
		MasterKeyFile: os.Getenv("NABDA_MASTER_KEY_FILE"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "text"),
		Timeout:       getEnvDurationOrDefault("NABDA_TIMEOUT", 10*time.Second),
		CheckExpiry:   getEnvBoolOrDefault("NABDA_CHECK_EXPIRY", false),
	}
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "nabda-state.db"
	}
	return filepath.Join(dir, "nabda", "state.db")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
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

	// Plain integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
