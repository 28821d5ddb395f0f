// Package config provides unified configuration loading for the extractor.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spherical/circuit-extractor/internal/domain"
)

// Config holds all configuration for the CLI and the API server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Processing    ProcessingConfig    `yaml:"processing"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// ProcessingConfig holds pipeline and output settings.
type ProcessingConfig struct {
	DescriptionColumn      string `yaml:"description_column"`
	OutputBasename         string `yaml:"output_basename"`
	SheetName              string `yaml:"sheet_name"`
	MaxUploadBytes         int64  `yaml:"max_upload_bytes"`
	DefaultInstanceKeyword string `yaml:"default_instance_keyword"`
	DefaultOuterKeyword    string `yaml:"default_outer_keyword"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, domain.ConfigError("validate config", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8086,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			RequestTimeout:   60 * time.Second,
			GracefulShutdown: 10 * time.Second,
			AllowedOrigins:   []string{"*"},
		},
		Processing: ProcessingConfig{
			DescriptionColumn: "Description",
			OutputBasename:    "processed_output",
			SheetName:         "Sheet1",
			MaxUploadBytes:    32 << 20,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "circuit-extractor",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Processing.DescriptionColumn == "" {
		return fmt.Errorf("description_column must not be empty")
	}

	if c.Processing.OutputBasename == "" {
		return fmt.Errorf("output_basename must not be empty")
	}

	// Excel limits worksheet names to 31 characters.
	if n := len([]rune(c.Processing.SheetName)); n == 0 || n > 31 {
		return fmt.Errorf("sheet_name must be 1-31 characters, got %d", n)
	}

	if c.Processing.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}

	switch c.Observability.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Observability.LogFormat)
	}

	return nil
}

// Addr returns the host:port the API server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("DESCRIPTION_COLUMN"); v != "" {
		cfg.Processing.DescriptionColumn = v
	}

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Processing.MaxUploadBytes = n
		}
	}

	if v := os.Getenv("INSTANCE_KEYWORD"); v != "" {
		cfg.Processing.DefaultInstanceKeyword = v
	}

	if v := os.Getenv("OUTER_KEYWORD"); v != "" {
		cfg.Processing.DefaultOuterKeyword = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
