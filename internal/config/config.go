package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	TCPPort     string
	HTTPPort    string
	MetricsPort string
	LogFile     string
	RedisAddr   string

	ForwardEnabled   bool
	ForwardURL       string
	ForwardTimeout   time.Duration
	ForwardOnlyValid bool
	ForwardAllowZero bool
	ForwardQueueSize int
	ForwardWorkers   int

	MaxConnBuffer    int
	JournalQueueSize int
}

// Load reads every option once at startup; the rest of the process treats
// the result as fixed.
func Load() Config {
	return Config{
		TCPPort:     getEnv("TCP_PORT", "5013"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9000"),
		LogFile:     getEnv("LOG_FILE", "logs/positions.log"),
		RedisAddr:   getEnv("REDIS_ADDR", ""),

		ForwardEnabled:   getEnvAsBool("FORWARD_ENABLED", false),
		ForwardURL:       getEnv("FORWARD_URL", ""),
		ForwardTimeout:   time.Duration(getEnvAsInt("FORWARD_TIMEOUT_MS", 8000)) * time.Millisecond,
		ForwardOnlyValid: getEnvAsBool("FORWARD_ONLY_VALID", false),
		ForwardAllowZero: getEnvAsBool("FORWARD_ALLOW_ZERO", false),
		ForwardQueueSize: getEnvAsInt("FORWARD_QUEUE_SIZE", 256),
		ForwardWorkers:   getEnvAsInt("FORWARD_WORKERS", 4),

		MaxConnBuffer:    getEnvAsInt("MAX_CONN_BUFFER", 64*1024),
		JournalQueueSize: getEnvAsInt("JOURNAL_QUEUE_SIZE", 1024),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
