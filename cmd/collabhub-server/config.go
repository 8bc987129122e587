// Package main provides the CollabHub server CLI.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/good-yellow-bee/collabhub/internal/logging"
	"github.com/good-yellow-bee/collabhub/internal/notifier"
)

// envPrefix prefixes every environment override.
const envPrefix = "COLLABHUB_"

// Config represents the server configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Logging       LoggingConfig       `yaml:"logging"`
	Workspace     WorkspaceConfig     `yaml:"workspace"`
	Storage       StorageConfig       `yaml:"storage"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Verbose       bool                `yaml:"-"` // set via CLI flag
}

// ServerConfig contains HTTP settings.
type ServerConfig struct {
	HTTPAddress     string    `yaml:"http_address"`          // API listen address (default: :8080)
	MetricsAddress  string    `yaml:"metrics_address"`       // Prometheus listen address (default: :9090), "off" disables
	ShutdownTimeout string    `yaml:"shutdown_timeout"`      // default: 10s
	RateLimitPerIP  int       `yaml:"rate_limit_per_minute"` // default: 600
	RateLimitBurst  int       `yaml:"rate_limit_burst"`      // default: 60
	MaxUploadBytes  int64     `yaml:"max_upload_bytes"`      // default: 32 MiB
	SentryDSN       string    `yaml:"sentry_dsn"`            // empty disables panic reporting
	TLS             TLSConfig `yaml:"tls"`
}

// TLSConfig contains TLS settings for the API listener.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format"` // text or json (default: text)
}

// WorkspaceConfig controls the seed and the simulated timings.
type WorkspaceConfig struct {
	SeedPath       string `yaml:"seed_path"`       // empty uses the built-in workspace
	Watch          bool   `yaml:"watch"`           // reset the workspace when the seed file changes
	TypingWindow   string `yaml:"typing_window"`   // default: 2s
	ReplyDelay     string `yaml:"reply_delay"`     // default: 1s
	UploadInterval string `yaml:"upload_interval"` // default: 200ms
	UploadStep     int    `yaml:"upload_step"`     // default: 10
	CurrentWeek    int    `yaml:"current_week"`    // default: 5
	TotalWeeks     int    `yaml:"total_weeks"`     // default: 10
}

// StorageConfig enables snapshot persistence. An empty path keeps the
// workspace in memory only.
type StorageConfig struct {
	Path          string `yaml:"path"`
	FlushInterval string `yaml:"flush_interval"` // default: 5s
}

// NotificationsConfig configures outbound delivery of new notifications.
type NotificationsConfig struct {
	QueueSize int                   `yaml:"queue_size"` // default: 64
	Slack     SlackChannelConfig    `yaml:"slack"`
	Email     EmailChannelConfig    `yaml:"email"`
	RateLimit NotifyRateLimitConfig `yaml:"rate_limit"`
}

// SlackChannelConfig enables the Slack webhook channel.
type SlackChannelConfig struct {
	Enabled              bool `yaml:"enabled"`
	notifier.SlackConfig `yaml:",inline"`
}

// EmailChannelConfig enables the SMTP channel.
type EmailChannelConfig struct {
	Enabled              bool `yaml:"enabled"`
	notifier.EmailConfig `yaml:",inline"`
}

// NotifyRateLimitConfig bounds outbound notifications.
type NotifyRateLimitConfig struct {
	Enabled      bool   `yaml:"enabled"`
	MaxPerWindow int    `yaml:"max_per_window"` // default: 10
	Window       string `yaml:"window"`         // default: 1m
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = ":8080"
	}
	if c.Server.MetricsAddress == "" {
		c.Server.MetricsAddress = ":9090"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Server.RateLimitPerIP == 0 {
		c.Server.RateLimitPerIP = 600
	}
	if c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = 60
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 32 << 20
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = string(logging.FormatText)
	}
	if c.Workspace.TypingWindow == "" {
		c.Workspace.TypingWindow = "2s"
	}
	if c.Workspace.ReplyDelay == "" {
		c.Workspace.ReplyDelay = "1s"
	}
	if c.Workspace.UploadInterval == "" {
		c.Workspace.UploadInterval = "200ms"
	}
	if c.Workspace.UploadStep == 0 {
		c.Workspace.UploadStep = 10
	}
	if c.Workspace.TotalWeeks == 0 {
		c.Workspace.TotalWeeks = 10
	}
	if c.Workspace.CurrentWeek == 0 {
		c.Workspace.CurrentWeek = 5
	}
	if c.Storage.FlushInterval == "" {
		c.Storage.FlushInterval = "5s"
	}
	if c.Notifications.QueueSize == 0 {
		c.Notifications.QueueSize = 64
	}
	if c.Notifications.RateLimit.MaxPerWindow == 0 {
		c.Notifications.RateLimit.MaxPerWindow = 10
	}
	if c.Notifications.RateLimit.Window == "" {
		c.Notifications.RateLimit.Window = "1m"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.HTTPAddress == "" {
		return fmt.Errorf("server.http_address is required")
	}
	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			return fmt.Errorf("server.tls.cert_file is required when TLS is enabled")
		}
		if c.Server.TLS.KeyFile == "" {
			return fmt.Errorf("server.tls.key_file is required when TLS is enabled")
		}
	}
	if c.Server.RateLimitPerIP < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("server rate limits must not be negative")
	}

	switch logging.Format(c.Logging.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	durations := []struct {
		name  string
		value string
	}{
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"workspace.typing_window", c.Workspace.TypingWindow},
		{"workspace.reply_delay", c.Workspace.ReplyDelay},
		{"workspace.upload_interval", c.Workspace.UploadInterval},
		{"storage.flush_interval", c.Storage.FlushInterval},
		{"notifications.rate_limit.window", c.Notifications.RateLimit.Window},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive", d.name)
		}
	}

	if c.Workspace.UploadStep < 1 || c.Workspace.UploadStep > 100 {
		return fmt.Errorf("workspace.upload_step must be between 1 and 100")
	}
	if c.Workspace.CurrentWeek < 1 || c.Workspace.CurrentWeek > c.Workspace.TotalWeeks {
		return fmt.Errorf("workspace.current_week must be between 1 and total_weeks")
	}
	if c.Workspace.Watch && c.Workspace.SeedPath == "" {
		return fmt.Errorf("workspace.watch requires workspace.seed_path")
	}

	if c.Notifications.Slack.Enabled {
		if err := c.Notifications.Slack.Validate(); err != nil {
			return fmt.Errorf("notifications.slack: %w", err)
		}
	}
	if c.Notifications.Email.Enabled {
		if err := c.Notifications.Email.Validate(); err != nil {
			return fmt.Errorf("notifications.email: %w", err)
		}
	}
	return nil
}

// applyEnv overrides settings from COLLABHUB_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"HTTP_ADDRESS":      &c.Server.HTTPAddress,
		"METRICS_ADDRESS":   &c.Server.MetricsAddress,
		"SENTRY_DSN":        &c.Server.SentryDSN,
		"LOG_LEVEL":         &c.Logging.Level,
		"LOG_FORMAT":        &c.Logging.Format,
		"SEED_PATH":         &c.Workspace.SeedPath,
		"STORAGE_PATH":      &c.Storage.Path,
		"SLACK_WEBHOOK_URL": &c.Notifications.Slack.WebhookURL,
		"SMTP_HOST":         &c.Notifications.Email.Host,
		"SMTP_USERNAME":     &c.Notifications.Email.Username,
		"SMTP_PASSWORD":     &c.Notifications.Email.Password,
		"SMTP_FROM":         &c.Notifications.Email.From,
	}
	for name, dst := range str {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(envPrefix + "SMTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sSMTP_PORT: %w", envPrefix, err)
		}
		c.Notifications.Email.Port = port
	}
	if v, ok := lookup(envPrefix + "SEED_WATCH"); ok {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSEED_WATCH: %w", envPrefix, err)
		}
		c.Workspace.Watch = watch
	}

	// A webhook or SMTP host supplied through the environment enables the
	// channel.
	if v, ok := lookup(envPrefix + "SLACK_WEBHOOK_URL"); ok && strings.TrimSpace(v) != "" {
		c.Notifications.Slack.Enabled = true
	}
	if v, ok := lookup(envPrefix + "SMTP_HOST"); ok && strings.TrimSpace(v) != "" {
		c.Notifications.Email.Enabled = true
	}
	return nil
}

// duration parses a setting already checked by Validate.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// rateLimit converts the outbound rate limit settings.
func (c *NotifyRateLimitConfig) rateLimit() notifier.RateLimitConfig {
	return notifier.RateLimitConfig{
		Enabled:      c.Enabled,
		MaxPerWindow: c.MaxPerWindow,
		Window:       duration(c.Window),
	}
}

// metricsEnabled reports whether the metrics listener should run.
func (c *ServerConfig) metricsEnabled() bool {
	return c.MetricsAddress != "off"
}
