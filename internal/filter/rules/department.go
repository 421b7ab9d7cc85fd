package rules

import (
	"encoding/json"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// DepartmentCriteria selects courses by department abbreviation.
type DepartmentCriteria struct {
	Departments []string `json:"departments"`
}

// Department keeps courses whose department abbreviation is in the
// criteria set, case-insensitively. Empty criteria pass everything.
type Department struct{}

func (Department) ID() string          { return "department" }
func (Department) Name() string        { return "Department" }
func (Department) Description() string { return "Filter courses by department(s)" }

func (Department) ValidCriteria(criteria any) bool {
	c, ok := criteria.(DepartmentCriteria)
	return ok && c.Departments != nil
}

func (Department) DisplayValue(criteria any) string {
	c := criteria.(DepartmentCriteria)
	return joinDisplay("Department", "Departments", c.Departments)
}

func (Department) Apply(courses []model.Course, criteria any, _ *filter.Context) []model.Course {
	c, ok := criteria.(DepartmentCriteria)
	if !ok || len(c.Departments) == 0 {
		return courses
	}
	wanted := lowerSet(c.Departments)

	out := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		if course.Department != nil && wanted[lower(course.Department.Abbreviation)] {
			out = append(out, course)
		}
	}
	return out
}

func (Department) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[DepartmentCriteria](raw)
}
