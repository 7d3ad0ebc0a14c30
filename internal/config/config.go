package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	TranslationProvider string `envconfig:"TRANSLATION_PROVIDER" default:"mock"`
	TranslationEndpoint string `envconfig:"TRANSLATION_ENDPOINT" default:""`
	TranslationAPIKey   string `envconfig:"TRANSLATION_API_KEY" default:""`

	RetryMaxAttempts int `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	RetryBaseDelayMS int `envconfig:"RETRY_BASE_DELAY_MS" default:"200"`

	MockChunkDelayMS int `envconfig:"MOCK_CHUNK_DELAY_MS" default:"150"`

	// APITokenHash is the bcrypt hash of the API bearer token. When empty,
	// the HTTP API accepts unauthenticated requests.
	APITokenHash string `envconfig:"API_TOKEN_HASH" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.TranslationProvider) == "" {
		return fmt.Errorf("TRANSLATION_PROVIDER is required")
	}
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be >= 1")
	}
	if c.RetryBaseDelayMS < 1 {
		return fmt.Errorf("RETRY_BASE_DELAY_MS must be >= 1")
	}
	if c.MockChunkDelayMS < 0 {
		return fmt.Errorf("MOCK_CHUNK_DELAY_MS must be >= 0")
	}
	return nil
}

func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMS) * time.Millisecond
}

func (c *Config) MockChunkDelay() time.Duration {
	return time.Duration(c.MockChunkDelayMS) * time.Millisecond
}
