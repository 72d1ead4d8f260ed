package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL    = "https://api.getresponse.com/v3"
	EnterpriseBaseURL = "https://api3.getresponse360.com/v3"
	DefaultTimeout    = 8 * time.Second

	AuthTokenHeader = "X-Auth-Token"
	DomainHeader    = "X-Domain"
)

// Config holds everything a client needs for the lifetime of its session.
// An enterprise (GetResponse 360) account is the same config with another
// base URL and a Domain.
type Config struct {
	APIKey     string
	BaseURL    string
	Domain     string
	Timeout    time.Duration
	MaxRetries int
}

// New returns a config for a standard account.
func New(apiKey string) *Config {
	return &Config{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Enterprise returns a config for a GetResponse 360 account.
func Enterprise(apiKey, domain string) *Config {
	return &Config{
		APIKey:  apiKey,
		BaseURL: EnterpriseBaseURL,
		Domain:  domain,
		Timeout: DefaultTimeout,
	}
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:  os.Getenv("GETRESPONSE_API_KEY"),
		BaseURL: os.Getenv("GETRESPONSE_BASE_URL"),
		Domain:  os.Getenv("GETRESPONSE_DOMAIN"),
		Timeout: DefaultTimeout,
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
		if cfg.Domain != "" {
			cfg.BaseURL = EnterpriseBaseURL
		}
	}

	if raw := os.Getenv("GETRESPONSE_TIMEOUT"); raw != "" {
		timeout, err := parseTimeout(raw)
		if err != nil {
			return nil, fmt.Errorf("GETRESPONSE_TIMEOUT: %w", err)
		}
		cfg.Timeout = timeout
	}

	if raw := os.Getenv("GETRESPONSE_MAX_RETRIES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("GETRESPONSE_MAX_RETRIES: %w", err)
		}
		cfg.MaxRetries = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("GETRESPONSE_API_KEY is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("GETRESPONSE_BASE_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("GETRESPONSE_TIMEOUT must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("GETRESPONSE_MAX_RETRIES must not be negative")
	}
	return nil
}

// Headers returns the headers attached to every request.
func (c *Config) Headers() map[string]string {
	h := map[string]string{
		AuthTokenHeader: "api-key " + c.APIKey,
		"Content-Type":  "application/json",
	}
	if c.Domain != "" {
		h[DomainHeader] = c.Domain
	}
	return h
}

// parseTimeout accepts a Go duration ("8s", "1m") or a bare number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}
