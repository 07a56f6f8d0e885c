package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "transitboard/libs/config"
)

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"HTTP_PORT" default:"8080"`
	} `yaml:"http"`
	Database struct {
		DSN          string `yaml:"dsn" env:"POSTGRES_DSN"`
		MaxOpenConns int    `yaml:"maxOpenConns" env:"POSTGRES_MAX_OPEN_CONNS"`
		MaxIdleConns int    `yaml:"maxIdleConns" env:"POSTGRES_MAX_IDLE_CONNS"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR" default:"127.0.0.1:6379"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`
	Session struct {
		Secret     string `yaml:"secret" env:"SESSION_SECRET"`
		TTLMinutes int    `yaml:"ttlMinutes" env:"SESSION_TTL_MINUTES" default:"720"`
	} `yaml:"session"`
	Metrics struct {
		Addr string `yaml:"addr" env:"METRICS_ADDR" default:":9090"`
	} `yaml:"metrics"`
}

// Load reads configuration using the shared loader and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if strings.TrimSpace(cfg.Session.Secret) == "" {
		return nil, errors.New("config: session secret is required")
	}

	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// SessionTTL converts the configured session lifetime to a duration.
func (c *Config) SessionTTL() time.Duration {
	if c.Session.TTLMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}
