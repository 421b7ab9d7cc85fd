package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// ProfessorCriteria selects courses by instructor name.
type ProfessorCriteria struct {
	Professors []string `json:"professors"`
}

// Professor keeps courses where any period of any section is taught by
// one of the named instructors (case-insensitive exact match).
type Professor struct{}

func (Professor) ID() string          { return "professor" }
func (Professor) Name() string        { return "Professor" }
func (Professor) Description() string { return "Filter courses by instructor" }

func (Professor) ValidCriteria(criteria any) bool {
	c, ok := criteria.(ProfessorCriteria)
	return ok && c.Professors != nil
}

func (Professor) DisplayValue(criteria any) string {
	c := criteria.(ProfessorCriteria)
	if len(c.Professors) == 1 {
		return "Professor: " + c.Professors[0]
	}
	if len(c.Professors) <= 3 {
		return "Professors: " + strings.Join(c.Professors, ", ")
	}
	return fmt.Sprintf("Professors: %s, +%d more",
		strings.Join(c.Professors[:2], ", "), len(c.Professors)-2)
}

func (Professor) Apply(courses []model.Course, criteria any, _ *filter.Context) []model.Course {
	c, ok := criteria.(ProfessorCriteria)
	if !ok || len(c.Professors) == 0 {
		return courses
	}
	wanted := lowerSet(c.Professors)

	out := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		for i := range course.Sections {
			if sectionMatchesProfessor(&course.Sections[i], wanted) {
				out = append(out, course)
				break
			}
		}
	}
	return out
}

func (Professor) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[ProfessorCriteria](raw)
}
