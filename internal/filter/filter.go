// Package filter provides the pluggable course-filtering engine.
//
// Rules are independent predicate objects registered with a Service.
// Each rule validates its own criteria shape, renders a human summary,
// and narrows a course list. Rules are pure functions over immutable
// catalog data and safe to re-run at any time.
//
// Filters compose by sequential narrowing: each active filter consumes
// the previous filter's output, never a union. The search-text filter
// runs first for early volume reduction; the rest apply in the order
// they were activated.
package filter

import (
	"encoding/json"

	"github.com/campusplanner/planner/internal/conflict"
	"github.com/campusplanner/planner/internal/model"
)

// Rule is one registered filter implementation.
//
// ValidCriteria is a type-guard: it must reject malformed criteria and
// return false rather than panic. Apply must not modify the input
// slice.
type Rule interface {
	// ID is the stable registry key.
	ID() string

	// Name is the human-readable filter name.
	Name() string

	// Description explains what the filter does.
	Description() string

	// ValidCriteria reports whether criteria has the shape this rule
	// expects.
	ValidCriteria(criteria any) bool

	// DisplayValue renders criteria as a short summary for badges and
	// headers.
	DisplayValue(criteria any) string

	// Apply narrows courses by criteria. Rules that operate at a finer
	// grain return courses unchanged here and implement one of the
	// grain-specific interfaces below.
	Apply(courses []model.Course, criteria any, fctx *Context) []model.Course

	// DecodeCriteria rebuilds this rule's typed criteria from its JSON
	// form, used when restoring persisted filter state.
	DecodeCriteria(raw json.RawMessage) (any, error)
}

// SectionRule narrows individual sections; the consuming UI layer
// applies it below course granularity.
type SectionRule interface {
	ApplyToSections(sections []model.Section, criteria any) []model.Section
}

// PeriodRule narrows individual periods.
type PeriodRule interface {
	ApplyToPeriods(periods []model.Period, criteria any) []model.Period
}

// SelectedCourseRule narrows the user's selection list rather than the
// catalog.
type SelectedCourseRule interface {
	ApplyToSelectedCourses(selected []model.SelectedCourse, criteria any) []model.SelectedCourse
}

// ContextSectionRule narrows sections with access to cross-filter
// state, for rules that need the detector or the selection list below
// course granularity.
type ContextSectionRule interface {
	ApplyToSectionsWithContext(sections []model.Section, criteria any, fctx *Context) []model.Section
}

// Context carries the cross-filter state some rules need, most notably
// availability, which reasons about sibling filters and the user's
// current selections. It is an explicit contract, not an untyped bag.
type Context struct {
	// SelectedCourses is the user's current selection list.
	SelectedCourses []model.SelectedCourse

	// ActiveFilters is the full active set, including the rule being
	// applied; rules that re-check sibling criteria must skip their
	// own id.
	ActiveFilters []ActiveFilter

	// Detector is the session's shared conflict detector.
	Detector *conflict.Detector
}

// ActiveFilter is one entry of the active set: a rule id bound to
// criteria plus its cached display string.
type ActiveFilter struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Criteria     any    `json:"criteria"`
	DisplayValue string `json:"displayValue"`
}

// EventType categorizes filter state changes.
type EventType string

const (
	EventAdd    EventType = "add"
	EventRemove EventType = "remove"
	EventUpdate EventType = "update"
	EventClear  EventType = "clear"
)

// Event is delivered to listeners on every state change.
type Event struct {
	Type          EventType
	FilterID      string
	Criteria      any
	ActiveFilters []ActiveFilter
}

// Listener receives filter change events.
type Listener func(Event)
