package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"parkstreet/internal/departures"
)

// Config holds application configuration from environment variables,
// an optional YAML file and command-line flags, in that order of precedence.
type Config struct {
	BaseURL     string `yaml:"base_url" validate:"required,url"`
	APIKey      string `yaml:"api_key"`
	StationID   string `yaml:"station_id" validate:"required"`
	StopID      string `yaml:"stop_id" validate:"required"`
	StationName string `yaml:"station_name" validate:"required"`
	Cap         int    `yaml:"cap" validate:"gte=1,lte=100"`
	PageLimit   int    `yaml:"page_limit" validate:"gte=1"`

	// UTCOffsetHours is a fixed offset, not a timezone: no daylight saving.
	UTCOffsetHours int `yaml:"utc_offset_hours" validate:"gte=-12,lte=14"`

	OutputPath  string `yaml:"output" validate:"required"` // "-" writes to stdout
	Format      string `yaml:"format" validate:"oneof=html text"`
	OpenBrowser bool   `yaml:"open_browser"`

	LogDir    string `yaml:"log_dir"` // empty disables the per-run log file
	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=text json"`

	AlertsURL   string        `yaml:"alerts_url" validate:"omitempty,url"` // empty disables alerts
	HTTPTimeout time.Duration `yaml:"http_timeout" validate:"gt=0"`
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		BaseURL:        envStr("PARKSTREET_API_URL", "https://api-v3.mbta.com"),
		APIKey:         envStr("PARKSTREET_API_KEY", ""),
		StationID:      envStr("PARKSTREET_STATION_ID", "place-pktrm"),
		StopID:         envStr("PARKSTREET_STOP_ID", "70200"),
		StationName:    envStr("PARKSTREET_STATION_NAME", "Park Street"),
		Cap:            envInt("PARKSTREET_CAP", 10),
		PageLimit:      envInt("PARKSTREET_PAGE_LIMIT", 100),
		UTCOffsetHours: envInt("PARKSTREET_UTC_OFFSET", -4),
		OutputPath:     envStr("PARKSTREET_OUTPUT", "output.html"),
		Format:         envStr("PARKSTREET_FORMAT", "html"),
		OpenBrowser:    envBool("PARKSTREET_OPEN", true),
		LogDir:         envStr("PARKSTREET_LOG_DIR", ""),
		LogLevel:       envStr("PARKSTREET_LOG_LEVEL", "info"),
		LogFormat:      envStr("PARKSTREET_LOG_FORMAT", "text"),
		AlertsURL:      envStr("PARKSTREET_ALERTS_URL", ""),
		HTTPTimeout:    envDuration("PARKSTREET_HTTP_TIMEOUT", 10*time.Second),
	}
}

// LoadFile overlays the keys present in a YAML file onto cfg.
func (cfg *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks field constraints.
func (cfg *Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location returns the fixed-offset zone used for "now".
func (cfg *Config) Location() *time.Location {
	return departures.FixedZone(cfg.UTCOffsetHours)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
