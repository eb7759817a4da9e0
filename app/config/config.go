// Package config loads folio's settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"folio/app/repositories"

	"github.com/caarlos0/env/v11"
)

// Placeholder endpoint used when the hosted store is not configured. Requests
// against it fail, which the remote repository degrades gracefully.
const (
	PlaceholderRemoteURL = "https://placeholder-project.supabase.co"
	PlaceholderRemoteKey = "placeholder-key"
)

// Template values shipped in the example .env file.
var templateValues = map[string]bool{
	"your_supabase_project_url": true,
	"your_supabase_anon_key":    true,
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"FOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"FOLIO_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"FOLIO_ENV" envDefault:"development"`
	LogLevel   string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`

	// Storage backend: local (badger) or remote (hosted PostgREST store)
	Storage       string        `env:"FOLIO_STORAGE" envDefault:"local"`
	DBPath        string        `env:"FOLIO_DB_PATH" envDefault:"data/badger"`
	RemoteURL     string        `env:"FOLIO_REMOTE_URL"`
	RemoteKey     string        `env:"FOLIO_REMOTE_KEY"`
	RemoteTimeout time.Duration `env:"FOLIO_REMOTE_TIMEOUT" envDefault:"0s"`

	AdminUsername   string        `env:"FOLIO_ADMIN_USERNAME" envDefault:"admin"`
	AdminDigest     string        `env:"FOLIO_ADMIN_DIGEST"` // SHA3-256 hex, see `folio digest`
	Author          string        `env:"FOLIO_AUTHOR" envDefault:"Nishan Parajuli"`
	SessionLifetime time.Duration `env:"FOLIO_SESSION_LIFETIME" envDefault:"24h"`

	// Hosts allowed to submit forms cross-origin, e.g. "blog.example.com"
	TrustedOrigins []string `env:"FOLIO_TRUSTED_ORIGINS" envSeparator:","`

	Seed bool `env:"FOLIO_SEED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// LoginDisabled reports whether no admin digest is configured, in which
// case every login is rejected.
func (c Config) LoginDisabled() bool {
	return c.AdminDigest == ""
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// RemoteEndpoint returns the hosted store URL and key, substituting the
// placeholder pair when either is missing or still a template value.
func (c Config) RemoteEndpoint() (url, key string, configured bool) {
	if c.RemoteURL == "" || c.RemoteKey == "" || templateValues[c.RemoteURL] || templateValues[c.RemoteKey] {
		return PlaceholderRemoteURL, PlaceholderRemoteKey, false
	}
	return c.RemoteURL, c.RemoteKey, true
}

// RepositoryOptions translates the storage settings for repositories.Open.
func (c Config) RepositoryOptions() repositories.Options {
	url, key, configured := c.RemoteEndpoint()
	if c.Storage == repositories.BackendRemote && !configured {
		slog.Warn("remote store is not configured, using placeholder endpoint",
			"url", url, "hint", "set FOLIO_REMOTE_URL and FOLIO_REMOTE_KEY")
	}
	return repositories.Options{
		Backend:       c.Storage,
		DBPath:        c.DBPath,
		RemoteURL:     url,
		RemoteKey:     key,
		RemoteTimeout: c.RemoteTimeout,
	}
}

// SlogLevel maps LogLevel onto a slog level; unknown names mean info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger builds the text logger used across the application.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: c.SlogLevel(),
	}))
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.Storage {
	case repositories.BackendLocal, repositories.BackendRemote:
	default:
		return nil, fmt.Errorf("FOLIO_STORAGE must be %q or %q, got %q",
			repositories.BackendLocal, repositories.BackendRemote, cfg.Storage)
	}

	if cfg.SessionLifetime <= 0 {
		return nil, fmt.Errorf("FOLIO_SESSION_LIFETIME must be positive, got %s", cfg.SessionLifetime)
	}

	return cfg, nil
}
