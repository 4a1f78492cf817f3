package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ligustah/lobby/internal/asset"
	"github.com/ligustah/lobby/internal/bytesize"
	"github.com/ligustah/lobby/internal/decode"
	"github.com/ligustah/lobby/internal/logging"
)

// Launch argument names, shared by flags and log messages.
const (
	KeySessionID      = "app-session-id"
	KeyPlayerName     = "portal-user-name"
	KeyAvatarModelURL = "app-avatar-model-url"
	KeyAvatarImageURL = "app-avatar-image-url"
)

// EnvPrefix prefixes every environment variable read by LoadFromEnv.
const EnvPrefix = "LOBBY_"

// FailurePolicy decides what bootstrap does when an avatar load fails.
type FailurePolicy string

const (
	// PolicyContinue logs the failure and keeps the default asset.
	PolicyContinue FailurePolicy = "continue"
	// PolicyAbort cancels the remaining loads and fails the bootstrap.
	PolicyAbort FailurePolicy = "abort"
)

// ErrMissingSessionID is returned by Validate when no session id is set.
var ErrMissingSessionID = errors.New("config: " + KeySessionID + " is required")

// Config is the launch configuration. It is built once at startup and passed
// to whatever needs it.
type Config struct {
	SessionID     int
	PlayerName    string
	Avatar        AvatarConfig
	Fetch         FetchConfig
	Log           LogConfig
	FailurePolicy FailurePolicy
}

// AvatarConfig holds the avatar asset URLs.
type AvatarConfig struct {
	ImageURL string
	ModelURL string
}

// FetchConfig configures the asset fetchers.
type FetchConfig struct {
	Timeout   time.Duration
	MaxSize   int64
	MaxPixels int
}

// LogConfig configures logging.
type LogConfig struct {
	Level string
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Fetch: FetchConfig{
			Timeout:   asset.DefaultTimeout,
			MaxSize:   32 * bytesize.MiB,
			MaxPixels: decode.DefaultMaxPixels,
		},
		Log:           LogConfig{Level: "info"},
		FailurePolicy: PolicyContinue,
	}
}

// fileConfig is the on-disk shape; durations and sizes are strings.
type fileConfig struct {
	SessionID     int             `yaml:"session_id" toml:"session_id"`
	PlayerName    string          `yaml:"player_name" toml:"player_name"`
	Avatar        fileAvatar      `yaml:"avatar" toml:"avatar"`
	Fetch         fileFetchConfig `yaml:"fetch" toml:"fetch"`
	Log           fileLog         `yaml:"log" toml:"log"`
	FailurePolicy string          `yaml:"failure_policy" toml:"failure_policy"`
}

type fileAvatar struct {
	ImageURL string `yaml:"image_url" toml:"image_url"`
	ModelURL string `yaml:"model_url" toml:"model_url"`
}

type fileFetchConfig struct {
	Timeout   string `yaml:"timeout" toml:"timeout"`
	MaxSize   string `yaml:"max_size" toml:"max_size"`
	MaxPixels int    `yaml:"max_pixels" toml:"max_pixels"`
}

type fileLog struct {
	Level string `yaml:"level" toml:"level"`
}

// LoadFromFile loads configuration from a YAML or TOML file, picked by the
// file extension (.toml is TOML, anything else YAML). Unset fields keep
// their defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		err = yaml.Unmarshal(data, &fc)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()
	cfg.SessionID = fc.SessionID
	cfg.PlayerName = fc.PlayerName
	cfg.Avatar.ImageURL = fc.Avatar.ImageURL
	cfg.Avatar.ModelURL = fc.Avatar.ModelURL
	if fc.Fetch.Timeout != "" {
		d, err := time.ParseDuration(fc.Fetch.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse fetch.timeout: %w", err)
		}
		cfg.Fetch.Timeout = d
	}
	if fc.Fetch.MaxSize != "" {
		size, err := bytesize.Parse(fc.Fetch.MaxSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse fetch.max_size: %w", err)
		}
		cfg.Fetch.MaxSize = size
	}
	if fc.Fetch.MaxPixels != 0 {
		cfg.Fetch.MaxPixels = fc.Fetch.MaxPixels
	}
	if fc.Log.Level != "" {
		cfg.Log.Level = fc.Log.Level
	}
	if fc.FailurePolicy != "" {
		cfg.FailurePolicy = FailurePolicy(fc.FailurePolicy)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the LOBBY_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(EnvPrefix + "SESSION_ID"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sSESSION_ID: %w", EnvPrefix, err)
		}
		c.SessionID = n
	}
	if v := os.Getenv(EnvPrefix + "PLAYER_NAME"); v != "" {
		c.PlayerName = v
	}
	if v := os.Getenv(EnvPrefix + "AVATAR_IMAGE_URL"); v != "" {
		c.Avatar.ImageURL = v
	}
	if v := os.Getenv(EnvPrefix + "AVATAR_MODEL_URL"); v != "" {
		c.Avatar.ModelURL = v
	}
	if v := os.Getenv(EnvPrefix + "FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sFETCH_TIMEOUT: %w", EnvPrefix, err)
		}
		c.Fetch.Timeout = d
	}
	if v := os.Getenv(EnvPrefix + "FETCH_MAX_SIZE"); v != "" {
		size, err := bytesize.Parse(v)
		if err != nil {
			return fmt.Errorf("parse %sFETCH_MAX_SIZE: %w", EnvPrefix, err)
		}
		c.Fetch.MaxSize = size
	}
	if v := os.Getenv(EnvPrefix + "FETCH_MAX_PIXELS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sFETCH_MAX_PIXELS: %w", EnvPrefix, err)
		}
		c.Fetch.MaxPixels = n
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvPrefix + "FAILURE_POLICY"); v != "" {
		c.FailurePolicy = FailurePolicy(v)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.SessionID <= 0 {
		return ErrMissingSessionID
	}
	return c.ValidateFetch()
}

// ValidateFetch validates everything except the session identity, for
// commands that load assets without joining a session.
func (c *Config) ValidateFetch() error {
	if c.Fetch.Timeout <= 0 {
		return errors.New("config: fetch timeout must be positive")
	}
	if c.Fetch.MaxSize <= 0 {
		return errors.New("config: fetch max_size must be positive")
	}
	if c.Fetch.MaxPixels < 0 {
		return errors.New("config: fetch max_pixels must not be negative")
	}
	if c.Avatar.ImageURL != "" {
		if err := asset.ValidateURL(c.Avatar.ImageURL); err != nil {
			return fmt.Errorf("config: %s: %w", KeyAvatarImageURL, err)
		}
	}
	if c.Avatar.ModelURL != "" {
		if err := asset.ValidateURL(c.Avatar.ModelURL); err != nil {
			return fmt.Errorf("config: %s: %w", KeyAvatarModelURL, err)
		}
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	switch c.FailurePolicy {
	case PolicyContinue, PolicyAbort:
	default:
		return fmt.Errorf("config: unknown failure policy %q", c.FailurePolicy)
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.SessionID != 0 {
		c.SessionID = override.SessionID
	}
	if override.PlayerName != "" {
		c.PlayerName = override.PlayerName
	}
	if override.Avatar.ImageURL != "" {
		c.Avatar.ImageURL = override.Avatar.ImageURL
	}
	if override.Avatar.ModelURL != "" {
		c.Avatar.ModelURL = override.Avatar.ModelURL
	}
	if override.Fetch.Timeout != 0 {
		c.Fetch.Timeout = override.Fetch.Timeout
	}
	if override.Fetch.MaxSize != 0 {
		c.Fetch.MaxSize = override.Fetch.MaxSize
	}
	if override.Fetch.MaxPixels != 0 {
		c.Fetch.MaxPixels = override.Fetch.MaxPixels
	}
	if override.Log.Level != "" {
		c.Log.Level = override.Log.Level
	}
	if override.FailurePolicy != "" {
		c.FailurePolicy = override.FailurePolicy
	}
	return c
}
