package rules

import (
	"encoding/json"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// TermCriteria selects courses offered in the given academic terms.
type TermCriteria struct {
	Terms []string `json:"terms"`
}

// Term keeps courses with at least one section in any of the criteria
// terms, matched on the normalized term code.
type Term struct{}

func (Term) ID() string          { return "term" }
func (Term) Name() string        { return "Term" }
func (Term) Description() string { return "Filter courses by academic term" }

func (Term) ValidCriteria(criteria any) bool {
	c, ok := criteria.(TermCriteria)
	return ok && c.Terms != nil
}

func (Term) DisplayValue(criteria any) string {
	c := criteria.(TermCriteria)
	return joinDisplay("Term", "Terms", c.Terms)
}

func (Term) Apply(courses []model.Course, criteria any, _ *filter.Context) []model.Course {
	c, ok := criteria.(TermCriteria)
	if !ok || len(c.Terms) == 0 {
		return courses
	}
	wanted := normalizedTermSet(c.Terms)

	out := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		for i := range course.Sections {
			if sectionMatchesTerm(&course.Sections[i], wanted) {
				out = append(out, course)
				break
			}
		}
	}
	return out
}

func (Term) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[TermCriteria](raw)
}
