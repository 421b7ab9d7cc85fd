package rules

import (
	"encoding/json"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// Required-flag states accepted by RequiredStatusCriteria. StatusAll
// is shared with the section-status rule.
const (
	StatusRequired = "required"
	StatusOptional = "optional"
)

// RequiredStatusCriteria narrows the selection list by the required
// flag.
type RequiredStatusCriteria struct {
	Status string `json:"status"`
}

// RequiredStatus operates on the user's selection list, splitting it
// into must-take and optional entries.
type RequiredStatus struct{}

func (RequiredStatus) ID() string          { return "requiredStatus" }
func (RequiredStatus) Name() string        { return "Required Status" }
func (RequiredStatus) Description() string { return "Filter courses by required/optional status" }

func (RequiredStatus) ValidCriteria(criteria any) bool {
	c, ok := criteria.(RequiredStatusCriteria)
	if !ok {
		return false
	}
	switch c.Status {
	case StatusRequired, StatusOptional, StatusAll:
		return true
	}
	return false
}

func (RequiredStatus) DisplayValue(criteria any) string {
	c := criteria.(RequiredStatusCriteria)
	switch c.Status {
	case StatusRequired:
		return "Required Courses"
	case StatusOptional:
		return "Optional Courses"
	case StatusAll:
		return "All Courses"
	}
	return "Unknown Status"
}

func (RequiredStatus) Apply(courses []model.Course, _ any, _ *filter.Context) []model.Course {
	return courses
}

func (RequiredStatus) ApplyToSelectedCourses(selected []model.SelectedCourse, criteria any) []model.SelectedCourse {
	c, ok := criteria.(RequiredStatusCriteria)
	if !ok || c.Status == StatusAll {
		return selected
	}
	out := make([]model.SelectedCourse, 0, len(selected))
	for i := range selected {
		if (c.Status == StatusRequired) == selected[i].Required {
			out = append(out, selected[i])
		}
	}
	return out
}

func (RequiredStatus) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[RequiredStatusCriteria](raw)
}
