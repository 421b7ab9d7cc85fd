package rules

import (
	"encoding/json"
	"fmt"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// CreditRangeCriteria selects courses whose credit range overlaps
// [Min, Max].
type CreditRangeCriteria struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// CreditRange keeps courses whose [minCredits, maxCredits] interval
// overlaps the criteria interval. This is an overlap test, not
// containment: a 3-4 credit course matches a 4-4 criteria range.
type CreditRange struct{}

func (CreditRange) ID() string          { return "creditRange" }
func (CreditRange) Name() string        { return "Credit Range" }
func (CreditRange) Description() string { return "Filter courses by credit hours" }

func (CreditRange) ValidCriteria(criteria any) bool {
	c, ok := criteria.(CreditRangeCriteria)
	return ok && c.Min >= 0 && c.Max >= c.Min
}

func (CreditRange) DisplayValue(criteria any) string {
	c := criteria.(CreditRangeCriteria)
	if c.Min == c.Max {
		unit := "credits"
		if c.Min == 1 {
			unit = "credit"
		}
		return fmt.Sprintf("%g %s", c.Min, unit)
	}
	return fmt.Sprintf("%g-%g credits", c.Min, c.Max)
}

func (CreditRange) Apply(courses []model.Course, criteria any, _ *filter.Context) []model.Course {
	c, ok := criteria.(CreditRangeCriteria)
	if !ok {
		return courses
	}
	out := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		if course.MaxCredits >= c.Min && course.MinCredits <= c.Max {
			out = append(out, course)
		}
	}
	return out
}

func (CreditRange) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[CreditRangeCriteria](raw)
}
