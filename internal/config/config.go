// Package config loads choreboard settings. Sources apply in order, later
// ones winning: built-in defaults, an optional TOML file, an optional .env
// file, then CHOREBOARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Auth     AuthConfig     `toml:"auth"`
	Week     WeekConfig     `toml:"week"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type ServerConfig struct {
	Addr            string `toml:"addr"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type AuthConfig struct {
	SessionTTL   string `toml:"session_ttl"`
	CookieName   string `toml:"cookie_name"`
	SecureCookie bool   `toml:"secure_cookie"`
	// LoginRate is attempts allowed per LoginWindow for one client IP.
	LoginRate   int    `toml:"login_rate"`
	LoginWindow string `toml:"login_window"`
}

type WeekConfig struct {
	// Timezone is an IANA name; week boundaries are midnight Monday there.
	Timezone string `toml:"timezone"`
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			WriteTimeout:    "15s",
			ShutdownTimeout: "10s",
		},
		Database: DatabaseConfig{Path: "choreboard.db"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Auth: AuthConfig{
			SessionTTL:  "168h",
			CookieName:  "choreboard_session",
			LoginRate:   10,
			LoginWindow: "15m",
		},
		Week:    WeekConfig{Timezone: "UTC"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load builds a Config. Empty paths skip that source; a named file that
// does not exist is an error for TOML and ignored for .env.
func Load(tomlPath, envPath string) (Config, error) {
	cfg := Default()

	if tomlPath != "" {
		if _, err := toml.DecodeFile(tomlPath, &cfg); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", tomlPath, err)
		}
	}
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("read env file %s: %w", envPath, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"CHOREBOARD_ADDR":             &c.Server.Addr,
		"CHOREBOARD_READ_TIMEOUT":     &c.Server.ReadTimeout,
		"CHOREBOARD_WRITE_TIMEOUT":    &c.Server.WriteTimeout,
		"CHOREBOARD_SHUTDOWN_TIMEOUT": &c.Server.ShutdownTimeout,
		"CHOREBOARD_DB_PATH":          &c.Database.Path,
		"CHOREBOARD_LOG_LEVEL":        &c.Log.Level,
		"CHOREBOARD_LOG_FORMAT":       &c.Log.Format,
		"CHOREBOARD_SESSION_TTL":      &c.Auth.SessionTTL,
		"CHOREBOARD_COOKIE_NAME":      &c.Auth.CookieName,
		"CHOREBOARD_LOGIN_WINDOW":     &c.Auth.LoginWindow,
		"CHOREBOARD_TIMEZONE":         &c.Week.Timezone,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"CHOREBOARD_SECURE_COOKIE":   &c.Auth.SecureCookie,
		"CHOREBOARD_METRICS_ENABLED": &c.Metrics.Enabled,
	}
	for key, dst := range bools {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	if v, ok := lookup("CHOREBOARD_LOGIN_RATE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHOREBOARD_LOGIN_RATE: %w", err)
		}
		c.Auth.LoginRate = n
	}
	return nil
}

// Validate checks every duration and the timezone parse.
func (c Config) Validate() error {
	durations := map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"auth.session_ttl":        c.Auth.SessionTTL,
		"auth.login_window":       c.Auth.LoginWindow,
	}
	for key, v := range durations {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Auth.LoginRate <= 0 {
		return fmt.Errorf("auth.login_rate: must be positive, got %d", c.Auth.LoginRate)
	}
	if c.Database.Path == "" {
		return errors.New("database.path: must not be empty")
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Week.Timezone)
	if err != nil {
		return nil, fmt.Errorf("week.timezone: %w", err)
	}
	return loc, nil
}

func (s ServerConfig) Timeouts() (read, write, shutdown time.Duration) {
	return mustDuration(s.ReadTimeout), mustDuration(s.WriteTimeout), mustDuration(s.ShutdownTimeout)
}

func (a AuthConfig) TTL() time.Duration { return mustDuration(a.SessionTTL) }

func (a AuthConfig) Window() time.Duration { return mustDuration(a.LoginWindow) }

// mustDuration is only called on values Validate has accepted.
func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(fmt.Sprintf("config: unvalidated duration %q", s))
	}
	return d
}
