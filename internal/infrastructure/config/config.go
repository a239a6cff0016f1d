package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for recordvault.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains HTTP API server settings.
type ServerConfig struct {
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	Timeouts ServerTimeouts `yaml:"timeouts"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerTimeouts contains HTTP timeout settings in seconds.
type ServerTimeouts struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains session token settings.
type JWTConfig struct {
	Secret        string `yaml:"secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// A .env file in the working directory is loaded into the environment first,
// if present. Environment variables follow the pattern RECORDVAULT_SECTION_KEY,
// for example RECORDVAULT_JWT_SECRET or RECORDVAULT_DATABASE_PATH.
func Load(path string) (*Config, error) {
	// Missing .env is not an error; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5001,
			Timeouts: ServerTimeouts{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/recordvault.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				TokenTTLHours: 24,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: RECORDVAULT_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RECORDVAULT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("RECORDVAULT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// JWT secret (IMPORTANT: always set via environment in production)
	if v := os.Getenv("RECORDVAULT_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
}

// Validate checks the configuration for errors and security issues.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	// The JWT secret is REQUIRED. Starting with an empty or weak secret
	// would let anyone forge session tokens for any account.
	const minJWTSecretLength = 32
	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set RECORDVAULT_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters for adequate security")
	}

	if c.Security.JWT.TokenTTLHours < 0 {
		errs = append(errs, "security.jwt.token_ttl_hours must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// TokenTTL returns the session token lifetime as a Duration.
// A zero value falls back to the 24-hour default.
func (c *Config) TokenTTL() time.Duration {
	if c.Security.JWT.TokenTTLHours == 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Security.JWT.TokenTTLHours) * time.Hour
}

// ReadTimeout returns the HTTP read timeout as a Duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Read) * time.Second
}

// WriteTimeout returns the HTTP write timeout as a Duration.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Write) * time.Second
}

// IdleTimeout returns the HTTP idle timeout as a Duration.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Idle) * time.Second
}
