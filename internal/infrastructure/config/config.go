package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`

	Session   SessionConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Activity  ActivityConfig
}

// SessionConfig describes how session tokens issued by the identity provider
// are verified.
type SessionConfig struct {
	Secret string `env:"SESSION_SECRET, required"`
	Cookie string `env:"SESSION_COOKIE, default=session-token"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=pizzabook"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// RateLimitConfig bounds how many pizzas a caller may create per window.
type RateLimitConfig struct {
	Create int           `env:"RATE_LIMIT_CREATE, default=30"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=1m"`
}

type ActivityConfig struct {
	Workers int `env:"ACTIVITY_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate rejects settings that parse but cannot work.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Session.Secret) == "" {
		errs = append(errs, errors.New("SESSION_SECRET must not be blank"))
	}
	if c.Mongo.Database == "" {
		errs = append(errs, errors.New("MONGO_DB must not be empty"))
	}
	if c.RateLimit.Create <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_CREATE must be positive, got %d", c.RateLimit.Create))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimit.Window))
	}
	if c.Activity.Workers <= 0 {
		errs = append(errs, fmt.Errorf("ACTIVITY_WORKERS must be positive, got %d", c.Activity.Workers))
	}
	return errors.Join(errs...)
}

// Load reads configuration through lookuper using go-envconfig and validates
// it. A nil lookuper reads the process environment.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
