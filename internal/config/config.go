package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config is read from YAML and then overridden by environment variables.
type Config struct {
	Server   Server   `yaml:"server"`
	Log      Log      `yaml:"log"`
	Redis    Redis    `yaml:"redis"`
	Postgres Postgres `yaml:"postgres"`
	Quiz     Quiz     `yaml:"quiz"`
	Gate     Gate     `yaml:"gate"`
}

type Server struct {
	Port string `yaml:"port" env:"PORT"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
	Env   string `yaml:"env" env:"APP_ENV"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	TTL      string `yaml:"ttl" env:"REDIS_ATTEMPT_TTL"`
}

type Postgres struct {
	URL string `yaml:"url" env:"POSTGRES_URL"`
}

// Quiz controls where banks come from and how fast the countdown runs.
type Quiz struct {
	BankDir      string `yaml:"bank_dir" env:"QUIZ_BANK_DIR"`
	DefaultBank  string `yaml:"default_bank" env:"QUIZ_DEFAULT_BANK"`
	TTL          string `yaml:"ttl" env:"QUIZ_BANK_TTL"`
	TickInterval string `yaml:"tick_interval" env:"QUIZ_TICK_INTERVAL"`
}

type Gate struct {
	EmailPattern string `yaml:"email_pattern" env:"GATE_EMAIL_PATTERN"`
}

// Load reads YAML config from path and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadOptional is Load, but a missing file is not an error.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Load("")
	}
	return cfg, err
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
