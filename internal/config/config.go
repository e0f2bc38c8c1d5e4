// Package config provides configuration management for the uploader.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingAPIBase           = errors.New("telegraph.api_base is required")
	ErrInvalidAPIBase           = errors.New("telegraph.api_base must be an http(s) URL")
	ErrInvalidTimeout           = errors.New("telegraph.timeout_sec must be at least 1")
	ErrMissingShortName         = errors.New("account.short_name is required")
	ErrMissingTokenFile         = errors.New("account.token_file is required")
	ErrMissingLogFile           = errors.New("publish.log_file is required")
	ErrInvalidMaxContent        = errors.New("publish.max_content_bytes must be at least 1")
	ErrInvalidMaxBody           = errors.New("mirror.max_body_kb must be at least 1")
	ErrInvalidMaxAttempts       = errors.New("mirror.retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("mirror.retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("mirror.retry.backoff_multiplier must be >= 1.0")
	ErrInvalidRetryTimeout      = errors.New("mirror.retry.timeout_sec must be at least 1")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
)

// DefaultPath is where the commands look for a config file when --config
// is not given. A missing file there falls back to Default().
const DefaultPath = "configs/uploader.yaml"

// Config represents the complete uploader configuration.
type Config struct {
	Telegraph TelegraphConfig `yaml:"telegraph"`
	Account   AccountConfig   `yaml:"account"`
	Publish   PublishConfig   `yaml:"publish"`
	Mirror    MirrorConfig    `yaml:"mirror"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TelegraphConfig contains API endpoint settings.
type TelegraphConfig struct {
	APIBase    string `yaml:"api_base"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// GetTimeout returns the HTTP timeout duration for API calls.
func (t *TelegraphConfig) GetTimeout() time.Duration {
	return time.Duration(t.TimeoutSec) * time.Second
}

// AccountConfig contains Telegraph account settings.
type AccountConfig struct {
	ShortName  string `yaml:"short_name"`
	AuthorName string `yaml:"author_name"`
	TokenFile  string `yaml:"token_file"`
}

// PublishConfig defines publishing behavior.
type PublishConfig struct {
	LogFile         string `yaml:"log_file"`
	MaxContentBytes int    `yaml:"max_content_bytes"`
	SourceLink      bool   `yaml:"source_link"`
}

// MirrorConfig defines web article fetching behavior.
type MirrorConfig struct {
	UserAgent string      `yaml:"user_agent"`
	MaxBodyKb int         `yaml:"max_body_kb"`
	Retry     RetryPolicy `yaml:"retry"`
}

// RetryPolicy defines retry behavior for fetches.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration. The defaults match the
// documented behavior: api.telegra.ph, .telegraph_token, log.txt, 64000
// byte content limit.
func Default() *Config {
	return &Config{
		Telegraph: TelegraphConfig{
			APIBase:    "https://api.telegra.ph",
			TimeoutSec: 30,
		},
		Account: AccountConfig{
			ShortName: "anon",
			TokenFile: ".telegraph_token",
		},
		Publish: PublishConfig{
			LogFile:         "log.txt",
			MaxContentBytes: 64000,
			SourceLink:      true,
		},
		Mirror: MirrorConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			MaxBodyKb: 2048,
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    500,
				MaxDelayMs:        5000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file, merging it over the defaults.
func Load(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Telegraph.APIBase == "" {
		return ErrMissingAPIBase
	}

	if u, err := url.Parse(c.Telegraph.APIBase); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidAPIBase
	}

	if c.Telegraph.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Account.ShortName == "" {
		return ErrMissingShortName
	}

	if c.Account.TokenFile == "" {
		return ErrMissingTokenFile
	}

	if c.Publish.LogFile == "" {
		return ErrMissingLogFile
	}

	if c.Publish.MaxContentBytes < 1 {
		return ErrInvalidMaxContent
	}

	if c.Mirror.MaxBodyKb < 1 {
		return ErrInvalidMaxBody
	}

	if c.Mirror.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Mirror.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Mirror.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Mirror.Retry.TimeoutSec < 1 {
		return ErrInvalidRetryTimeout
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the per-request timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{APIBase: %s, ShortName: %s, TokenFile: %s, LogFile: %s, MaxContentBytes: %d}",
		c.Telegraph.APIBase,
		c.Account.ShortName,
		c.Account.TokenFile,
		c.Publish.LogFile,
		c.Publish.MaxContentBytes,
	)
}
