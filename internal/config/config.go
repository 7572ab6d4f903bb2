// apps/go-server/internal/config/config.go
//
// Process configuration.
// Responsibilities:
//   - Load an optional .env file (godotenv) into the environment.
//   - Unmarshal the environment into a typed Config with defaults (go-env).
//   - Reject values the server cannot start with.

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server.
type Config struct {
	AppEnv       string `env:"APP_ENV,default=development"`
	Port         string `env:"PORT,default=5175"`
	LogLevel     string `env:"LOG_LEVEL,default=info"`
	LogPretty    bool   `env:"LOG_PRETTY,default=false"`
	ClientOrigin string `env:"CLIENT_ORIGIN,default=http://localhost:5173"`

	WordsFile string `env:"WORDS_FILE"`
	DBPath    string `env:"DB_PATH"`

	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	AdminJWTSecret    string        `env:"ADMIN_JWT_SECRET,default=dev_secret_change_me"`
	AdminTokenTTL     time.Duration `env:"ADMIN_TOKEN_TTL,default=12h"`

	WSSendBuffer   int           `env:"WS_SEND_BUFFER,default=16"`
	WSRateLimit    float64       `env:"WS_RATE_LIMIT,default=10"`
	WSRateBurst    int           `env:"WS_RATE_BURST,default=20"`
	WSPingInterval time.Duration `env:"WS_PING_INTERVAL,default=30s"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnviron()
}

// FromEnviron reads the process environment only.
func FromEnviron() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string { return ":" + c.Port }

// Production reports whether APP_ENV is "production".
func (c *Config) Production() bool { return c.AppEnv == "production" }

// AdminEnabled reports whether the admin endpoints can issue tokens.
func (c *Config) AdminEnabled() bool { return c.AdminPasswordHash != "" }

func (c *Config) validate() error {
	switch {
	case c.Port == "":
		return errors.New("config: PORT is empty")
	case c.WSSendBuffer <= 0:
		return fmt.Errorf("config: WS_SEND_BUFFER must be positive, got %d", c.WSSendBuffer)
	case c.WSRateLimit <= 0 || c.WSRateBurst <= 0:
		return errors.New("config: WS_RATE_LIMIT and WS_RATE_BURST must be positive")
	case c.AdminTokenTTL <= 0:
		return errors.New("config: ADMIN_TOKEN_TTL must be positive")
	}
	return nil
}
