// ABOUTME: Configuration management for the page saver with environment variable support
// ABOUTME: Defines fetch limits, timeouts and logging settings

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// MaxRetries bounds SINGLEPAGE_RETRIES
const MaxRetries = 10

// Config holds all application configuration
type Config struct {
	// Fetch contains network and worker pool settings
	Fetch FetchConfig

	// Log contains logging settings
	Log LogConfig
}

// FetchConfig holds resource fetching configuration
type FetchConfig struct {
	// Concurrency is the maximum number of requests in flight
	Concurrency int

	// Timeout bounds the whole run
	Timeout time.Duration

	// RequestTimeout bounds a single HTTP request
	RequestTimeout time.Duration

	// Retries is the number of extra attempts after a network error or 5xx
	Retries int

	// RateLimit is the request rate in requests per second, 0 disables it
	RateLimit float64

	// MaxBodyBytes caps the size of one response body
	MaxBodyBytes int64

	// UserAgent is sent with every request
	UserAgent string
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is a logrus level name
	Level string
}

// MaxAttempts returns the total number of attempts per request
func (f FetchConfig) MaxAttempts() int {
	return f.Retries + 1
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Fetch: FetchConfig{
			Concurrency:    getEnvAsIntOrDefault("SINGLEPAGE_CONCURRENCY", 8),
			Timeout:        getEnvAsDurationOrDefault("SINGLEPAGE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDurationOrDefault("SINGLEPAGE_REQUEST_TIMEOUT", 30*time.Second),
			Retries:        getEnvAsIntOrDefault("SINGLEPAGE_RETRIES", 0),
			RateLimit:      getEnvAsFloatOrDefault("SINGLEPAGE_RATE_LIMIT", 0),
			MaxBodyBytes:   getEnvAsBytesOrDefault("SINGLEPAGE_MAX_BODY_BYTES", 32<<20),
			UserAgent:      getEnvOrDefault("SINGLEPAGE_USER_AGENT", "singlepage/1.0"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("SINGLEPAGE_LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go durations ("90s", "2m") or whole seconds
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

// getEnvAsBytesOrDefault accepts plain byte counts or sizes like "10MB" and "32MiB"
func getEnvAsBytesOrDefault(key string, defaultValue int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := humanize.ParseBytes(value)
	if err != nil || n > uint64(1<<62) {
		return defaultValue
	}
	return int64(n)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Fetch.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}

	if c.Fetch.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if c.Fetch.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}

	if c.Fetch.Retries < 0 {
		return errors.New("retries cannot be negative")
	}

	if c.Fetch.Retries > MaxRetries {
		return errors.New("retries cannot exceed 10")
	}

	if c.Fetch.RateLimit < 0 {
		return errors.New("rate limit cannot be negative")
	}

	if c.Fetch.MaxBodyBytes < 1 {
		return errors.New("max body bytes must be at least 1")
	}

	if c.Fetch.UserAgent == "" {
		return errors.New("user agent cannot be empty")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.New("log level must be one of trace, debug, info, warn, error, fatal, panic")
	}

	return nil
}
