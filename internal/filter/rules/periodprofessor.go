package rules

import (
	"encoding/json"
	"fmt"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// PeriodProfessorCriteria narrows periods by instructor.
type PeriodProfessorCriteria struct {
	Professors []string `json:"professors"`
}

// PeriodProfessor filters at period granularity, tolerating partial
// name matches in either direction.
type PeriodProfessor struct{}

func (PeriodProfessor) ID() string          { return "periodProfessor" }
func (PeriodProfessor) Name() string        { return "Period Professor" }
func (PeriodProfessor) Description() string { return "Filter periods by professor" }

func (PeriodProfessor) ValidCriteria(criteria any) bool {
	c, ok := criteria.(PeriodProfessorCriteria)
	return ok && c.Professors != nil
}

func (PeriodProfessor) DisplayValue(criteria any) string {
	c := criteria.(PeriodProfessorCriteria)
	switch len(c.Professors) {
	case 0:
		return "Any Professor"
	case 1:
		return c.Professors[0]
	}
	return fmt.Sprintf("%d Professors", len(c.Professors))
}

func (PeriodProfessor) Apply(courses []model.Course, _ any, _ *filter.Context) []model.Course {
	return courses
}

func (PeriodProfessor) ApplyToPeriods(periods []model.Period, criteria any) []model.Period {
	c, ok := criteria.(PeriodProfessorCriteria)
	if !ok || len(c.Professors) == 0 {
		return periods
	}
	selected := lowerSet(c.Professors)
	return filterPeriods(periods, func(p *model.Period) bool {
		return partialMatch(p.Professor, selected)
	})
}

func (PeriodProfessor) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[PeriodProfessorCriteria](raw)
}
