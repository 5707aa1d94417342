// Package config loads runtime settings for the storefront server.
//
// Values are layered: LoadDefaults, then an optional YAML file, then a .env
// file in the working directory, then STORE_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/R3E-Network/storefront/pkg/logger"
)

const (
	// EnvConfigPath names the YAML file to overlay on the defaults.
	EnvConfigPath = "STORE_CONFIG"

	DefaultHTTPAddr        = ":8002"
	DefaultUserIDHeader    = "x_user_id"
	DefaultAuditLogSize    = 300
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 1 << 20
)

// Config holds the server settings.
type Config struct {
	HTTPAddr           string        `yaml:"http_addr" env:"STORE_HTTP_ADDR"`
	UserIDHeader       string        `yaml:"user_id_header" env:"STORE_USER_ID_HEADER"`
	CORSAllowedOrigins string        `yaml:"cors_allowed_origins" env:"STORE_CORS_ALLOWED_ORIGINS"`
	AuditLogPath       string        `yaml:"audit_log_path" env:"STORE_AUDIT_LOG_PATH"`
	AuditLogSize       int           `yaml:"audit_log_size" env:"STORE_AUDIT_LOG_SIZE"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout" env:"STORE_SHUTDOWN_TIMEOUT"`
	MaxBodyBytes       int64         `yaml:"max_body_bytes" env:"STORE_MAX_BODY_BYTES"`

	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// LoggingConfig mirrors logger.LoggingConfig with file and env bindings.
type LoggingConfig struct {
	Level      string `yaml:"level" env:"STORE_LOG_LEVEL"`
	Format     string `yaml:"format" env:"STORE_LOG_FORMAT"`
	Output     string `yaml:"output" env:"STORE_LOG_OUTPUT"`
	FilePrefix string `yaml:"file_prefix" env:"STORE_LOG_FILE_PREFIX"`
}

// RateLimitConfig configures the per-client token bucket. A zero
// RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"STORE_RATE_LIMIT_RPS"`
	Burst             int     `yaml:"burst" env:"STORE_RATE_LIMIT_BURST"`
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = DefaultHTTPAddr
	c.UserIDHeader = DefaultUserIDHeader
	c.CORSAllowedOrigins = ""
	c.AuditLogPath = ""
	c.AuditLogSize = DefaultAuditLogSize
	c.ShutdownTimeout = DefaultShutdownTimeout
	c.MaxBodyBytes = DefaultMaxBodyBytes
	c.Logging = LoggingConfig{Level: "info", Format: "text", Output: "stdout", FilePrefix: "storefront"}
	c.RateLimit = RateLimitConfig{}
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("http_addr is required")
	}
	if strings.TrimSpace(c.UserIDHeader) == "" {
		return fmt.Errorf("user_id_header is required")
	}
	if c.AuditLogSize < 0 {
		return fmt.Errorf("audit_log_size must be >= 0, got %d", c.AuditLogSize)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limit.requests_per_second must be >= 0")
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate_limit.burst must be >= 1 when rate limiting is enabled")
	}
	return nil
}

// CORSOrigins returns the configured origins as a trimmed list.
func (c *Config) CORSOrigins() []string {
	var out []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

// LoggerConfig converts the logging section for pkg/logger.
func (c *Config) LoggerConfig() logger.LoggingConfig {
	return logger.LoggingConfig{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		Output:     c.Logging.Output,
		FilePrefix: c.Logging.FilePrefix,
	}
}
