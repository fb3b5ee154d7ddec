// Package config loads the RealTicker client configuration from YAML with
// environment variable overrides.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the RealTicker client.
type Config struct {
	API     API     `yaml:"api"`
	Logging Logging `yaml:"logging"`
	Notify  Notify  `yaml:"notify"`
	UI      UI      `yaml:"ui"`
}

// API holds the backend endpoint.
type API struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Logging configures the application logger and its rotating file.
type Logging struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Notify controls toasts and the optional ntfy push.
type Notify struct {
	ToastDuration time.Duration `yaml:"toast_duration"`
	NTFYURL       string        `yaml:"ntfy_url"`
}

// UI holds presentation preferences.
type UI struct {
	DarkMode bool `yaml:"dark_mode"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		API: API{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Logging: Logging{
			Level:      "info",
			File:       "logs/realticker.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Notify: Notify{
			ToastDuration: 3 * time.Second,
		},
		UI: UI{DarkMode: true},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at path over the defaults and then
// applies environment variable overrides. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("REALTICKER_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("REALTICKER_API_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return errors.New("REALTICKER_API_TIMEOUT: " + err.Error())
		}
		cfg.API.Timeout = d
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}

	if v := os.Getenv("NTFY_URL"); v != "" {
		cfg.Notify.NTFYURL = v
	}
	if v := os.Getenv("TOAST_DURATION"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return errors.New("TOAST_DURATION: " + err.Error())
		}
		cfg.Notify.ToastDuration = d
	}
	return nil
}

// parseDuration accepts Go durations ("30s") or a bare number of seconds.
func parseDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
