package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr         string        `yaml:"addr" env:"ETNA_ADDR" envDefault:":8080"`
	Env          string        `yaml:"env" env:"ETNA_ENV" envDefault:"development"`
	APITimeout   time.Duration `yaml:"timeout" env:"ETNA_TIMEOUT" envDefault:"15s"`
	DatabasePath string        `yaml:"database_path" env:"ETNA_DATABASE_PATH" envDefault:"etnagroup.db"`
	AutoMigrate  bool          `yaml:"auto_migrate" env:"ETNA_AUTO_MIGRATE" envDefault:"true"`
	Seed         bool          `yaml:"seed" env:"ETNA_SEED" envDefault:"true"`
	CORSOrigin   string        `yaml:"cors_origin" env:"ETNA_CORS_ORIGIN" envDefault:"http://localhost:5173"`
	LogLevel     string        `yaml:"log_level" env:"ETNA_LOG_LEVEL" envDefault:"info"`
	Admin        AdminConfig   `yaml:"admin" envPrefix:"ETNA_ADMIN_"`
}

// AdminConfig guards the mutating endpoints. Leaving JWTSecret empty
// disables authentication entirely.
type AdminConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	PasswordHash  string        `yaml:"password_hash" env:"PASSWORD_HASH"`
	TokenDuration time.Duration `yaml:"token_duration" env:"TOKEN_DURATION" envDefault:"1h"`
}

// LoadConfig builds the configuration from environment defaults and then
// applies the YAML file at path, if any. Keys present in the file win.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.AuthEnabled() {
		if c.Admin.PasswordHash == "" {
			errs = append(errs, errors.New("admin.password_hash is required when admin.jwt_secret is set"))
		}
		if c.Admin.TokenDuration <= 0 {
			errs = append(errs, errors.New("admin.token_duration must be positive"))
		}
		if c.Env == "production" && len(c.Admin.JWTSecret) < 32 {
			errs = append(errs, errors.New("admin.jwt_secret must be at least 32 bytes in production"))
		}
	} else if c.Admin.PasswordHash != "" {
		errs = append(errs, errors.New("admin.jwt_secret is required when admin.password_hash is set"))
	}
	return errors.Join(errs...)
}

// AuthEnabled reports whether admin routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Admin.JWTSecret != ""
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}
