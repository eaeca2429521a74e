// Package config loads and validates service configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // citation.time_zone must resolve in minimal containers

	"github.com/spf13/viper"
)

// DefaultUserAgent identifies requests as a common desktop browser; some sites
// reject or rewrite responses for unidentified clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/114.0.0.0 Safari/537.36"

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Politeness PolitenessConfig `mapstructure:"politeness"`
	Citation   CitationConfig   `mapstructure:"citation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// FetchConfig configures the page fetcher.
type FetchConfig struct {
	Timeout   time.Duration     `mapstructure:"timeout"`
	UserAgent string            `mapstructure:"user_agent"`
	Headers   map[string]string `mapstructure:"headers"`
}

// PolitenessConfig bounds the randomized pause after each successful extraction.
type PolitenessConfig struct {
	MinDelay time.Duration `mapstructure:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay"`
}

// CitationConfig controls how records are stamped.
type CitationConfig struct {
	TimeZone string `mapstructure:"time_zone"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WEBCITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "WEBCITE_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port env: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", 60*time.Second)
	v.SetDefault("fetch.timeout", 15*time.Second)
	v.SetDefault("fetch.user_agent", DefaultUserAgent)
	v.SetDefault("fetch.headers", map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "ja,en-US;q=0.9,en;q=0.8",
	})
	v.SetDefault("politeness.min_delay", time.Second)
	v.SetDefault("politeness.max_delay", 2*time.Second)
	v.SetDefault("citation.time_zone", "Local")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port must be > 0")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be > 0")
	}
	if c.Fetch.Timeout <= 0 {
		return errors.New("fetch.timeout must be > 0")
	}
	if strings.TrimSpace(c.Fetch.UserAgent) == "" {
		return errors.New("fetch.user_agent must be set")
	}
	if c.Politeness.MinDelay < 0 || c.Politeness.MaxDelay < 0 {
		return errors.New("politeness delays must be >= 0")
	}
	if c.Politeness.MinDelay > c.Politeness.MaxDelay {
		return fmt.Errorf("politeness.min_delay (%s) must not exceed politeness.max_delay (%s)",
			c.Politeness.MinDelay, c.Politeness.MaxDelay)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves citation.time_zone. Empty means UTC, "Local" the host zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Citation.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("citation.time_zone: %w", err)
	}
	return loc, nil
}
