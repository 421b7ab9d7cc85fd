package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Catalog.OfflineFallback {
		t.Error("offline fallback should default on")
	}
	if cfg.UI.ViewMode != "list" {
		t.Errorf("ViewMode = %q, want list", cfg.UI.ViewMode)
	}
	if cfg.Render.BatchSize != 10 || cfg.Render.BatchDelayMs != 16 {
		t.Errorf("render defaults = %+v", cfg.Render)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PLANNER_CATALOG_URL", "https://example.com/feed.json")
	t.Setenv("PLANNER_THEME", "light")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Catalog.Source != "https://example.com/feed.json" {
		t.Errorf("Source = %q", cfg.Catalog.Source)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestSearchDebounce(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.SearchDebounce(); got != 300*time.Millisecond {
		t.Errorf("SearchDebounce = %v", got)
	}

	cfg.UI.SearchDebounceMs = 0
	if got := cfg.SearchDebounce(); got != 300*time.Millisecond {
		t.Errorf("zero debounce should fall back to default, got %v", got)
	}

	cfg.UI.SearchDebounceMs = 150
	if got := cfg.SearchDebounce(); got != 150*time.Millisecond {
		t.Errorf("SearchDebounce = %v, want 150ms", got)
	}
}

func TestBatchDelay(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.BatchDelay(); got != 16*time.Millisecond {
		t.Errorf("BatchDelay = %v, want 16ms", got)
	}
}
