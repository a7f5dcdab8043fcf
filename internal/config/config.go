// Package config loads and validates seolens configuration.
//
// Configuration lives in a yaml file under the XDG config directory
// (~/.config/seolens/config.yaml on Linux). Every field can be
// overridden with a SEOLENS_* environment variable, which is how the
// server is usually configured when launched by an AI tool's MCP host.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "seolens"

// Defaults applied when neither the config file nor the environment
// provides a value.
const (
	DefaultAPIBaseURL        = "https://api.seolens.dev/v1"
	DefaultCacheTTLSeconds   = 900
	DefaultSearchTTLSeconds  = 300
	DefaultRequestTimeoutSec = 30
)

// Config holds the runtime configuration for the seolens server.
type Config struct {
	// APIBaseURL is the root endpoint of the backend SEO data service.
	APIBaseURL string `yaml:"api_base_url"`

	// APIKey authenticates requests against the backend. Required.
	APIKey string `yaml:"api_key"`

	// CacheTTLSeconds is the default freshness window for cached tool
	// responses.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`

	// SearchTTLSeconds is the shorter window used for search-stats
	// responses, which go stale faster than crawl data.
	SearchTTLSeconds int `yaml:"search_ttl_seconds"`

	// RequestTimeoutSeconds bounds each backend HTTP call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	// DataDir is where seolens keeps local state (crawl history db).
	// Defaults to ~/.seolens.
	DataDir string `yaml:"data_dir"`
}

// ConfigPath returns the standard config file path for the current platform.
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Load reads the config file if present, applies environment overrides,
// fills in defaults, and validates the result. A missing config file is
// not an error: the environment alone can carry a full configuration.
func Load() (*Config, error) {
	cfg := defaults()

	path := ConfigPath()
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads the config from a specific path, applying the same
// environment overrides and validation as Load. Used in tests.
func LoadFrom(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		APIBaseURL:            DefaultAPIBaseURL,
		CacheTTLSeconds:       DefaultCacheTTLSeconds,
		SearchTTLSeconds:      DefaultSearchTTLSeconds,
		RequestTimeoutSeconds: DefaultRequestTimeoutSec,
		DataDir:               filepath.Join(home, ".seolens"),
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SEOLENS_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("SEOLENS_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("SEOLENS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v, ok := envInt("SEOLENS_CACHE_TTL"); ok {
		cfg.CacheTTLSeconds = v
	}
	if v, ok := envInt("SEOLENS_SEARCH_TTL"); ok {
		cfg.SearchTTLSeconds = v
	}
	if v, ok := envInt("SEOLENS_REQUEST_TIMEOUT"); ok {
		cfg.RequestTimeoutSeconds = v
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required (set SEOLENS_API_KEY or api_key in %s)", ConfigPath())
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	if c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("cache_ttl_seconds must be positive, got %d", c.CacheTTLSeconds)
	}
	if c.SearchTTLSeconds <= 0 {
		return fmt.Errorf("search_ttl_seconds must be positive, got %d", c.SearchTTLSeconds)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	return nil
}

// CacheTTL returns the default cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SearchTTL returns the search-stats cache TTL as a duration.
func (c *Config) SearchTTL() time.Duration {
	return time.Duration(c.SearchTTLSeconds) * time.Second
}

// RequestTimeout returns the backend request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Save writes the config to the standard location, creating the
// directory as needed. The file is created 0600 since it holds the
// API key.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
