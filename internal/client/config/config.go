package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/plantdetector/internal/logging"
	"github.com/dmitrijs2005/plantdetector/internal/netx"
)

const DefaultServerBaseURL = "http://api.plantdetector.ru"

// Config holds runtime settings for the Plant Disease Detector CLI.
//
// Fields:
//   - ServerBaseURL: scheme://host[:port] of the detector API.
//   - DatabasePath: SQLite file holding the persisted session.
//   - RequestTimeout: upper bound for one API request.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL       string
	DatabasePath        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = DefaultServerBaseURL
	c.DatabasePath = "plantdetector.db"
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.LogLevel = "info"
}

// Validate reports the first setting the client cannot run with.
func (c *Config) Validate() error {
	if _, err := netx.ParseBaseURL(c.ServerBaseURL); err != nil {
		return err
	}
	if c.DatabasePath == "" {
		return errors.New("database path is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
