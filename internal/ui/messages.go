// Package ui provides the Bubble Tea TUI for the planner.
package ui

import (
	"github.com/campusplanner/planner/internal/controller"
	"github.com/campusplanner/planner/internal/model"
)

// CatalogLoaded is sent when the course feed has been loaded and
// decoded.
type CatalogLoaded struct {
	Catalog *model.Catalog
	Cached  bool
	Err     error
}

// ViewEvent wraps one controller event for the view.
type ViewEvent struct {
	Event controller.Event
}

// SelectionChanged is sent after the selection list mutates, carrying
// the conflicts among the currently chosen sections.
type SelectionChanged struct {
	Selected  []model.SelectedCourse
	Conflicts []model.Conflict
}

// FiltersSaved is sent after the active filters are persisted.
type FiltersSaved struct {
	Err error
}
