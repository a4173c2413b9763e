package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/minhduc152001/tik-live-cms/internal/feed"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvAPIBaseURL  = "CMS_API_BASE_URL"
	EnvToken       = "CMS_TOKEN"
	EnvFeedBaseURL = "CMS_FEED_BASE_URL"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Feed    FeedConfig    `yaml:"feed"`
	Archive ArchiveConfig `yaml:"archive"`
	Mock    MockConfig    `yaml:"mock"`
	LogFile string        `yaml:"log_file"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

type FeedConfig struct {
	BaseURL   string          `yaml:"base_url"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
	Retention RetentionConfig `yaml:"retention"`
	InboxSize int             `yaml:"inbox_size"`
}

type ReconnectConfig struct {
	Mode      string        `yaml:"mode"`
	BaseDelay time.Duration `yaml:"base_delay"`
	MaxDelay  time.Duration `yaml:"max_delay"`
}

type RetentionConfig struct {
	// MaxEvents caps the comment list; 0 keeps every comment.
	MaxEvents int `yaml:"max_events"`
}

type ArchiveConfig struct {
	// Path of the SQLite archive. Empty disables archiving.
	Path          string        `yaml:"path"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

type MockConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Interval       time.Duration `yaml:"interval"`
	CloseEvery     int           `yaml:"close_every"`
	MalformedEvery int           `yaml:"malformed_every"`
	MaxConnections int           `yaml:"max_connections"`
	Token          string        `yaml:"token"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000/api/v1",
			Timeout: 10 * time.Second,
		},
		Feed: FeedConfig{
			BaseURL: feed.DefaultBaseURL,
			Reconnect: ReconnectConfig{
				Mode:      string(feed.ReconnectAlways),
				BaseDelay: time.Second,
				MaxDelay:  30 * time.Second,
			},
			InboxSize: 256,
		},
		Archive: ArchiveConfig{
			BatchSize:     64,
			FlushInterval: time.Second,
		},
		Mock: MockConfig{
			Host:           "127.0.0.1",
			Port:           8000,
			Interval:       750 * time.Millisecond,
			MaxConnections: 100,
		},
	}
}

// Load reads path over the built-in defaults and applies environment
// overrides. A missing file is not an error. Keys present in the file win
// even when their value is zero, so `base_delay: 0s` disables backoff.
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
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := mergo.Merge(cfg, fromEnv(), mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without overwriting variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// fromEnv holds only the values set in the environment. Unset variables stay
// empty and leave the loaded config alone when merged.
func fromEnv() *Config {
	var c Config
	c.API.BaseURL = os.Getenv(EnvAPIBaseURL)
	c.API.Token = os.Getenv(EnvToken)
	c.Feed.BaseURL = os.Getenv(EnvFeedBaseURL)
	return &c
}

// ReconnectPolicy converts the reconnect section for the feed controller.
func (c *Config) ReconnectPolicy() feed.ReconnectPolicy {
	return feed.ReconnectPolicy{
		Mode:      feed.ReconnectMode(c.Feed.Reconnect.Mode),
		BaseDelay: c.Feed.Reconnect.BaseDelay,
		MaxDelay:  c.Feed.Reconnect.MaxDelay,
	}
}

// Retention converts the retention section for the feed controller.
func (c *Config) Retention() feed.Retention {
	return feed.Retention{MaxEvents: c.Feed.Retention.MaxEvents}
}

func (c *Config) Validate() error {
	if err := c.ReconnectPolicy().Validate(); err != nil {
		return fmt.Errorf("feed.reconnect: %w", err)
	}
	if c.Feed.Retention.MaxEvents < 0 {
		return fmt.Errorf("feed.retention.max_events must not be negative, got %d", c.Feed.Retention.MaxEvents)
	}
	if c.Feed.InboxSize < 0 {
		return fmt.Errorf("feed.inbox_size must not be negative, got %d", c.Feed.InboxSize)
	}
	if c.Archive.BatchSize < 0 {
		return fmt.Errorf("archive.batch_size must not be negative, got %d", c.Archive.BatchSize)
	}
	if c.Mock.Port < 0 || c.Mock.Port > 65535 {
		return fmt.Errorf("mock.port out of range: %d", c.Mock.Port)
	}
	return nil
}
