// ABOUTME: Process configuration read once from the environment at startup.
// ABOUTME: Everything downstream receives this struct; nothing reads env vars later.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Environment values. Production tightens cron auth; development leaves
// it open for local testing.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	defaultHTTPAddr = ":8080"
	defaultModel    = "claude-sonnet-4-20250514"
	defaultRaceDate = "2026-07-04"
	defaultAppBase  = "http://localhost:8080"
	raceDateLayout  = "2006-01-02"
)

// Config carries every externally supplied setting. Business logic takes
// the values it needs from here instead of reading the environment.
type Config struct {
	StravaClientID     string
	StravaClientSecret string
	AnthropicAPIKey    string
	AnthropicModel     string

	DataDir    string // resolved at load; DATA_DIR overrides the XDG default
	HTTPAddr   string
	AppBaseURL string // external base for the OAuth redirect
	CronSecret string
	RedisAddr  string // empty disables the response cache
	LogDir     string // empty logs to stderr only

	Environment string
	RaceDate    time.Time
}

// Load reads configuration from the environment and applies defaults.
// It does not validate; call Validate before using Strava or AI features.
func Load() (*Config, error) {
	cfg := &Config{
		StravaClientID:     os.Getenv("STRAVA_CLIENT_ID"),
		StravaClientSecret: os.Getenv("STRAVA_CLIENT_SECRET"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:     envOr("ANTHROPIC_MODEL", defaultModel),
		DataDir:            envOr("DATA_DIR", defaultDataDir()),
		HTTPAddr:           envOr("HTTP_ADDR", defaultHTTPAddr),
		AppBaseURL:         envOr("APP_BASE_URL", defaultAppBase),
		CronSecret:         os.Getenv("CRON_SECRET"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		LogDir:             os.Getenv("LOG_DIR"),
		Environment:        envOr("ENVIRONMENT", EnvDevelopment),
	}

	raceDate := envOr("RACE_DATE", defaultRaceDate)
	t, err := time.Parse(raceDateLayout, raceDate)
	if err != nil {
		return nil, fmt.Errorf("parse RACE_DATE %q: %w", raceDate, err)
	}
	cfg.RaceDate = t

	return cfg, nil
}

// Validate checks that the settings required for Strava sync are present.
// Every missing variable is named in one error.
func (c *Config) Validate() error {
	var missing []string
	if c.StravaClientID == "" {
		missing = append(missing, "STRAVA_CLIENT_ID")
	}
	if c.StravaClientSecret == "" {
		missing = append(missing, "STRAVA_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Production reports whether the process runs with production hardening.
func (c *Config) Production() bool {
	return c.Environment == EnvProduction
}

// RedirectURI is the Strava OAuth callback URL under the app base.
func (c *Config) RedirectURI() string {
	return strings.TrimRight(c.AppBaseURL, "/") + "/api/strava/callback"
}

// DBPath locates the SQLite file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "trainer.db")
}

// defaultDataDir follows the XDG base directory spec.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "trainer")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
