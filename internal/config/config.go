package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Webhook WebhookConfig
	Refresh RefreshConfig
	CORS    CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Version  string
	// MockData serves the built-in demo data set instead of calling the webhook.
	MockData bool
}

// WebhookConfig configures the calendar and booking endpoints.
type WebhookConfig struct {
	BaseURL                 string
	Timeout                 time.Duration
	BreakerFailureThreshold uint32
	BreakerOpenTimeout      time.Duration
}

type RefreshConfig struct {
	Interval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from the environment. A .env file is used when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	mockData, err := getEnvBool("MOCK_DATA", false)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Version:  getEnv("APP_VERSION", "dev"),
		MockData: mockData,
	}

	// Webhook configuration
	timeout, err := getEnvDuration("WEBHOOK_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	threshold, err := strconv.ParseUint(getEnv("BREAKER_FAILURE_THRESHOLD", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_FAILURE_THRESHOLD: %w", err)
	}
	openTimeout, err := getEnvDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	config.Webhook = WebhookConfig{
		BaseURL:                 strings.TrimRight(getEnv("WEBHOOK_BASE_URL", ""), "/"),
		Timeout:                 timeout,
		BreakerFailureThreshold: uint32(threshold),
		BreakerOpenTimeout:      openTimeout,
	}

	interval, err := getEnvDuration("REFRESH_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	config.Refresh = RefreshConfig{Interval: interval}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Webhook.BaseURL == "" && !c.App.MockData {
		return fmt.Errorf("WEBHOOK_BASE_URL is required unless MOCK_DATA is enabled")
	}
	if c.Webhook.BaseURL != "" && !strings.HasPrefix(c.Webhook.BaseURL, "http://") && !strings.HasPrefix(c.Webhook.BaseURL, "https://") {
		return fmt.Errorf("WEBHOOK_BASE_URL must start with http:// or https://")
	}
	if c.Webhook.Timeout <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT must be positive")
	}
	if c.Webhook.BreakerFailureThreshold == 0 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	if c.Refresh.Interval < time.Second {
		return fmt.Errorf("REFRESH_INTERVAL must be at least 1s")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
