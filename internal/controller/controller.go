// Package controller sits between the catalog/filter layer and the
// TUI, deciding what courses flow to the view.
//
// The controller owns the debounced search, the active-filter
// pipeline, and the progressive renderer. Results come back through
// the Events channel as reset/append/done events, so the view never
// blocks on filtering and a superseded search can never write stale
// output: every generation of work runs under its own cancellation
// token and the newest generation cancels the rest.
package controller

import (
	"sync"
	"time"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/logging"
	"github.com/campusplanner/planner/internal/model"
	"github.com/campusplanner/planner/internal/ops"
	"github.com/campusplanner/planner/internal/render"
)

// opFilterRender is the operation id shared by search and re-filter,
// so either one cancels the other.
const opFilterRender = "filter-render"

// EventType categorizes controller events.
type EventType int

const (
	// EventReset clears the view before a fresh render.
	EventReset EventType = iota
	// EventAppend delivers one rendered batch.
	EventAppend
	// EventDone marks the end of a render.
	EventDone
)

// Event is one unit of view output. Courses is populated on EventDone
// with the final filtered list, for cursor and selection handling.
type Event struct {
	Type    EventType
	Text    string
	Matched int
	Total   int
	Elapsed time.Duration
	Courses []model.Course
}

// ViewMode selects the list or grid renderer.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewGrid
)

// Controller runs the filter pipeline and renders results.
// Safe for concurrent use.
type Controller struct {
	filters   *filter.Service
	renderer  *render.Renderer
	manager   *ops.Manager
	search    *ops.Debounced
	selection render.SelectionChecker

	mu      sync.Mutex
	courses []model.Course
	mode    ViewMode

	events chan Event
}

// New wires a controller over the filter service. debounce is the
// search input window.
func New(filters *filter.Service, renderer *render.Renderer, selection render.SelectionChecker, debounce time.Duration) *Controller {
	manager := ops.NewManager()
	return &Controller{
		filters:   filters,
		renderer:  renderer,
		manager:   manager,
		search:    ops.NewDebounced(manager, opFilterRender, debounce),
		selection: selection,
		// Buffered so a slow view drops batches instead of blocking
		// the render goroutine.
		events: make(chan Event, 64),
	}
}

// Events returns the view's event stream.
func (c *Controller) Events() <-chan Event { return c.events }

// SetCourses replaces the full course universe and re-renders.
func (c *Controller) SetCourses(courses []model.Course) {
	c.mu.Lock()
	c.courses = courses
	c.mu.Unlock()
	c.Apply()
}

// SetViewMode switches between list and grid rendering.
func (c *Controller) SetViewMode(mode ViewMode) {
	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()
}

// Courses returns the full course universe, for option pickers that
// must always see unfiltered data.
func (c *Controller) Courses() []model.Course {
	return c.snapshot()
}

// Search schedules a debounced search-and-filter pass. Rapid calls
// coalesce; only the last query within the window runs.
func (c *Controller) Search(query string) {
	c.search.Execute(func(token *ops.Token) error {
		courses := c.snapshot()
		filtered := c.filters.SearchAndFilter(query, courses)
		return c.render(filtered, len(courses), token)
	}, func(err error) {
		logging.Error("search failed", "error", err)
	})
}

// Apply re-runs the active filters immediately, cancelling any
// in-flight pass. Used when a filter is toggled.
func (c *Controller) Apply() {
	token := c.manager.Start(opFilterRender, "filters changed")
	go func() {
		courses := c.snapshot()
		filtered := c.filters.FilterCourses(courses)
		if err := c.render(filtered, len(courses), token); err != nil {
			if !ops.IsCanceled(err) {
				logging.Error("filter pass failed", "error", err)
			}
			return
		}
		c.manager.Complete(opFilterRender)
	}()
}

// Cancel stops all in-flight work, for shutdown.
func (c *Controller) Cancel() {
	c.search.Cancel()
	c.manager.CancelAll("shutting down")
	c.renderer.CancelCurrent()
}

func (c *Controller) snapshot() []model.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.courses
}

func (c *Controller) render(filtered []model.Course, total int, token *ops.Token) error {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()

	start := time.Now()
	// Section- and period-grain filters narrow what shows beneath each
	// course; membership and the Done payload stay course-level.
	display := c.filters.NarrowSections(filtered)
	sink := &eventSink{c: c, matched: len(filtered), total: total}
	if mode == ViewGrid {
		render.RenderCourseGrid(c.renderer, display, c.selection, sink, token)
	} else {
		render.RenderCourseList(c.renderer, display, c.selection, sink, token)
	}
	if err := token.Err(); err != nil {
		return err
	}
	c.emit(Event{Type: EventDone, Matched: len(filtered), Total: total, Elapsed: time.Since(start), Courses: filtered})
	return nil
}

func (c *Controller) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		logging.Warn("view event dropped", "type", ev.Type)
	}
}

// eventSink adapts the renderer's sink to the event stream.
type eventSink struct {
	c       *Controller
	matched int
	total   int
}

func (s *eventSink) Reset() {
	s.c.emit(Event{Type: EventReset, Matched: s.matched, Total: s.total})
}

func (s *eventSink) Append(text string) {
	s.c.emit(Event{Type: EventAppend, Text: text, Matched: s.matched, Total: s.total})
}
