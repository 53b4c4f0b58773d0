package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/codec"
)

// Config holds all application configuration.
type Config struct {
	Registry  RegistryConfig
	Executor  ExecutorConfig
	Audit     AuditConfig
	Logging   LogConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
}

// RegistryConfig holds lock registry configuration.
type RegistryConfig struct {
	Capacity int `envconfig:"FILEOPS_REGISTRY_CAPACITY" default:"100"`
}

// ExecutorConfig holds file operation configuration.
type ExecutorConfig struct {
	ChunkSize       int         `envconfig:"FILEOPS_CHUNK_SIZE" default:"4096"`
	FileMode        os.FileMode `envconfig:"FILEOPS_FILE_MODE" default:"0644"`
	AtomicTransfers bool        `envconfig:"FILEOPS_ATOMIC_TRANSFERS" default:"false"`
	Codec           string      `envconfig:"FILEOPS_CODEC" default:"gzip"`
}

// AuditConfig holds audit log configuration.
type AuditConfig struct {
	Path string `envconfig:"FILEOPS_AUDIT_LOG" default:"file_operations.log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Enabled bool   `envconfig:"FILEOPS_HTTP_ENABLED" default:"false"`
	Host    string `envconfig:"HOST" default:"127.0.0.1"`
	Port    string `envconfig:"PORT" default:"8000"`

	// Root confines every path a request names
	Root string `envconfig:"FILEOPS_ROOT" default:"."`

	// CORSOrigins lists browser origins allowed to call the API. Empty
	// rejects every cross-origin request.
	CORSOrigins []string `envconfig:"FILEOPS_CORS_ORIGINS"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			Capacity: 100,
		},
		Executor: ExecutorConfig{
			ChunkSize: 4096,
			FileMode:  0644,
			Codec:     codec.Default,
		},
		Audit: AuditConfig{
			Path: "file_operations.log",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Server: ServerConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    "8000",
			Root:    ".",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate checks values envconfig cannot constrain on its own.
func (c *Config) Validate() error {
	var errs []error
	if c.Registry.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("registry capacity must be positive, got %d", c.Registry.Capacity))
	}
	if c.Executor.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive, got %d", c.Executor.ChunkSize))
	}
	if c.Executor.FileMode&^os.ModePerm != 0 {
		errs = append(errs, fmt.Errorf("file mode %o has bits outside permission range", uint32(c.Executor.FileMode)))
	}
	if _, err := codec.Lookup(c.Executor.Codec); err != nil {
		errs = append(errs, err)
	}
	if c.Audit.Path == "" {
		errs = append(errs, errors.New("audit log path is required"))
	}
	if c.Server.Root == "" {
		errs = append(errs, errors.New("server root is required"))
	}
	for _, origin := range c.Server.CORSOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("cors origin %q must be an http(s) origin", origin))
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate limit requires positive rps and burst"))
	}
	return errors.Join(errs...)
}
