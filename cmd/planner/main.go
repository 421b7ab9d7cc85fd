package main

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/campusplanner/planner/internal/catalog"
	"github.com/campusplanner/planner/internal/config"
	"github.com/campusplanner/planner/internal/conflict"
	"github.com/campusplanner/planner/internal/controller"
	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/filter/rules"
	"github.com/campusplanner/planner/internal/logging"
	"github.com/campusplanner/planner/internal/model"
	"github.com/campusplanner/planner/internal/render"
	"github.com/campusplanner/planner/internal/selection"
	"github.com/campusplanner/planner/internal/store"
	"github.com/campusplanner/planner/internal/ui"
)

// errNoSource is shown when neither a configured feed nor a cached
// snapshot is available.
var errNoSource = errors.New("no catalog source configured: set catalog.source in config or PLANNER_CATALOG_URL")

func main() {
	// Optional .env for local overrides; missing file is fine.
	_ = godotenv.Load()

	if err := logging.Init(); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	dbPath := filepath.Join(dataDir, "planner.db")

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	detector := conflict.NewDetector()
	sel := selection.NewService(st)

	filters := filter.NewService(detector, sel.All, st)
	for _, rule := range rules.All() {
		filters.RegisterFilter(rule)
	}
	filters.LoadFiltersFromStorage()

	renderer := render.New(render.Options{
		BatchSize:  cfg.Render.BatchSize,
		BatchDelay: cfg.BatchDelay(),
	})
	ctrl := controller.New(filters, renderer, sel, cfg.SearchDebounce())

	loader := catalog.NewLoader(st)
	source := cfg.Catalog.Source
	restore := func(cat *model.Catalog) {
		if err := sel.Load(cat); err != nil {
			logging.Warn("failed to restore selections", "error", err)
		}
	}
	fetch := func(ctx context.Context) (*model.Catalog, error) {
		if len(cfg.Catalog.ExtraSources) > 0 {
			sources := append([]string{source}, cfg.Catalog.ExtraSources...)
			return loader.LoadMerged(ctx, sources)
		}
		return loader.Load(ctx, source)
	}
	loadCatalog := func() tea.Cmd {
		return func() tea.Msg {
			if source == "" {
				if cat, ok, err := loader.LoadCached(); err == nil && ok {
					restore(cat)
					return ui.CatalogLoaded{Catalog: cat, Cached: true}
				}
				return ui.CatalogLoaded{Err: errNoSource}
			}
			cat, err := fetch(context.Background())
			if err != nil && cfg.Catalog.OfflineFallback {
				if cached, ok, cerr := loader.LoadCached(); cerr == nil && ok {
					logging.Warn("feed unreachable, using cached catalog", "error", err)
					restore(cached)
					return ui.CatalogLoaded{Catalog: cached, Cached: true}
				}
			}
			if err != nil {
				return ui.CatalogLoaded{Err: err}
			}
			restore(cat)
			return ui.CatalogLoaded{Catalog: cat}
		}
	}

	// Persist the plan on every change.
	sel.OnChange(func(_ []model.SelectedCourse) {
		if err := sel.Save(); err != nil {
			logging.Warn("failed to persist selections", "error", err)
		}
	})

	app := ui.NewApp(ctrl, filters, sel, detector, loadCatalog)
	program := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		logging.Error("program error", "error", err)
		os.Exit(1)
	}

	if err := sel.Save(); err != nil {
		logging.Warn("failed to persist selections", "error", err)
	}
	if err := filters.SaveFiltersToStorage(); err != nil {
		logging.Warn("failed to persist filters", "error", err)
	}
}
