package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// Catalog feed settings
	Catalog CatalogConfig `json:"catalog"`

	// UI Preferences
	UI UIConfig `json:"ui"`

	// Rendering knobs
	Render RenderConfig `json:"render"`
}

// CatalogConfig holds the course feed sources
type CatalogConfig struct {
	// Source is a URL or local file path of the catalog feed
	Source string `json:"source"`

	// ExtraSources are merged into the main feed (multi-term catalogs)
	ExtraSources []string `json:"extra_sources,omitempty"`

	// OfflineFallback uses the cached snapshot when the feed is unreachable
	OfflineFallback bool `json:"offline_fallback"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme       string `json:"theme"`
	ViewMode    string `json:"view_mode"` // "list" or "grid"
	DensityMode string `json:"density_mode"`

	// SearchDebounceMs is the search input debounce window
	SearchDebounceMs int `json:"search_debounce_ms"`
}

// RenderConfig holds progressive rendering knobs
type RenderConfig struct {
	BatchSize    int `json:"batch_size"`
	BatchDelayMs int `json:"batch_delay_ms"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			OfflineFallback: true,
		},
		UI: UIConfig{
			Theme:            "dark",
			ViewMode:         "list",
			DensityMode:      "comfortable",
			SearchDebounceMs: 300,
		},
		Render: RenderConfig{
			BatchSize:    10,
			BatchDelayMs: 16,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".planner", "config.json")
}

// DataDir returns the directory holding the database and logs
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".planner")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}
	cfg.ApplyEnv()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides config values from environment variables
func (c *Config) ApplyEnv() {
	if src := os.Getenv("PLANNER_CATALOG_URL"); src != "" {
		c.Catalog.Source = src
	}
	if theme := os.Getenv("PLANNER_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// SearchDebounce returns the configured debounce window as a duration
func (c *Config) SearchDebounce() time.Duration {
	if c.UI.SearchDebounceMs <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.UI.SearchDebounceMs) * time.Millisecond
}

// BatchDelay returns the configured inter-batch delay as a duration
func (c *Config) BatchDelay() time.Duration {
	return time.Duration(c.Render.BatchDelayMs) * time.Millisecond
}
