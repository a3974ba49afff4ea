package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, loaded from environment variables.
// A local .env file is read first (without overriding real env vars) so
// development setups stay out of shell profiles.
type Config struct {
	ListenAddr    string `env:"LISTEN_ADDR" envDefault:":8080"`
	DatabaseDSN   string `env:"DB_DSN"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	DBMaxOpen     int    `env:"DB_MAX_OPEN_CONNS" envDefault:"30"`
	DBMaxIdle     int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`

	RedisURL string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE" envDefault:"100"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:8080"`

	// Rate limit for the unauthenticated auth endpoints, per client IP.
	AuthRatePerSecond float64 `env:"AUTH_RATE_PER_SECOND" envDefault:"5"`
	AuthRateBurst     int     `env:"AUTH_RATE_BURST" envDefault:"10"`
}

var cfg *Config

func loadConfig() error {
	_ = godotenv.Load() // no .env is fine
	c := Config{}
	if err := env.Parse(&c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg = &c
	return nil
}
