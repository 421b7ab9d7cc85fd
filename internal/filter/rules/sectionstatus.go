package rules

import (
	"encoding/json"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// Section selection states accepted by SectionStatusCriteria.
const (
	StatusSelected   = "selected"
	StatusUnselected = "unselected"
	StatusAll        = "all"
)

// SectionStatusCriteria narrows the selection list by whether a
// section has been chosen.
type SectionStatusCriteria struct {
	Status string `json:"status"`
}

// SectionStatus operates on the user's selection list rather than the
// catalog. Section resolution is lazy so freshly deserialized entries
// that only carry a section number still count as selected.
type SectionStatus struct{}

func (SectionStatus) ID() string          { return "sectionStatus" }
func (SectionStatus) Name() string        { return "Section Status" }
func (SectionStatus) Description() string { return "Filter courses by section selection status" }

func (SectionStatus) ValidCriteria(criteria any) bool {
	c, ok := criteria.(SectionStatusCriteria)
	if !ok {
		return false
	}
	switch c.Status {
	case StatusSelected, StatusUnselected, StatusAll:
		return true
	}
	return false
}

func (SectionStatus) DisplayValue(criteria any) string {
	c := criteria.(SectionStatusCriteria)
	switch c.Status {
	case StatusSelected:
		return "With Selected Section"
	case StatusUnselected:
		return "Without Selected Section"
	case StatusAll:
		return "All Courses"
	}
	return "Unknown Status"
}

func (SectionStatus) Apply(courses []model.Course, _ any, _ *filter.Context) []model.Course {
	return courses
}

func (SectionStatus) ApplyToSelectedCourses(selected []model.SelectedCourse, criteria any) []model.SelectedCourse {
	c, ok := criteria.(SectionStatusCriteria)
	if !ok || c.Status == StatusAll {
		return selected
	}
	out := make([]model.SelectedCourse, 0, len(selected))
	for i := range selected {
		hasSection := selected[i].ResolveSection() != nil
		if (c.Status == StatusSelected) == hasSection {
			out = append(out, selected[i])
		}
	}
	return out
}

func (SectionStatus) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[SectionStatusCriteria](raw)
}
