// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const devSessionKey = "dev-insecure"

type Config struct {
	Port       string
	AppEnv     string
	LogLevel   zerolog.Level
	SessionKey string
	AdminKey   string

	QueryPermissive bool

	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool
}

// Load reads the environment. Unset variables fall back to development
// defaults; malformed values are an error.
func Load() (Config, error) {
	c := Config{
		Port:       os.Getenv("PORT"),
		AppEnv:     strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))),
		SessionKey: os.Getenv("SESSION_KEY"),
		AdminKey:   os.Getenv("ADMIN_API_KEY"),
		LogLevel:   zerolog.InfoLevel,
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.SessionKey == "" {
		c.SessionKey = devSessionKey
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		c.LogLevel = lvl
	}
	if raw := os.Getenv("QUERY_PERMISSIVE"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("QUERY_PERMISSIVE: %w", err)
		}
		c.QueryPermissive = b
	}
	if raw := os.Getenv("RATE_LIMIT_RPS"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		c.RateLimitRPS = f
	}
	c.RateLimitBurst = 20
	if raw := os.Getenv("RATE_LIMIT_BURST"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		c.RateLimitBurst = n
	}
	if raw := os.Getenv("TRUST_PROXY"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("TRUST_PROXY: %w", err)
		}
		c.TrustProxy = b
	}
	return c, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// UsingDevSessionKey reports whether cookies are signed with the built-in key.
func (c Config) UsingDevSessionKey() bool { return c.SessionKey == devSessionKey }
