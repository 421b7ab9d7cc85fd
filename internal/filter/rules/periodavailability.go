package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// PeriodAvailabilityCriteria narrows periods by open seats. Both
// fields may be combined; MinAvailable zero means no minimum.
type PeriodAvailabilityCriteria struct {
	AvailableOnly bool `json:"availableOnly"`
	MinAvailable  int  `json:"minAvailable"`
}

// PeriodAvailability filters seat availability at period granularity,
// unlike the composite course-level availability rule.
type PeriodAvailability struct{}

func (PeriodAvailability) ID() string          { return "periodAvailability" }
func (PeriodAvailability) Name() string        { return "Period Availability" }
func (PeriodAvailability) Description() string { return "Filter periods by seat availability" }

func (PeriodAvailability) ValidCriteria(criteria any) bool {
	c, ok := criteria.(PeriodAvailabilityCriteria)
	return ok && c.MinAvailable >= 0
}

func (PeriodAvailability) DisplayValue(criteria any) string {
	c := criteria.(PeriodAvailabilityCriteria)
	var parts []string
	if c.AvailableOnly {
		parts = append(parts, "Available Only")
	}
	if c.MinAvailable > 0 {
		parts = append(parts, fmt.Sprintf("Min %d Seats", c.MinAvailable))
	}
	if len(parts) == 0 {
		return "Any Availability"
	}
	return strings.Join(parts, ", ")
}

func (PeriodAvailability) Apply(courses []model.Course, _ any, _ *filter.Context) []model.Course {
	return courses
}

func (PeriodAvailability) ApplyToPeriods(periods []model.Period, criteria any) []model.Period {
	c, ok := criteria.(PeriodAvailabilityCriteria)
	if !ok {
		return periods
	}
	return filterPeriods(periods, func(p *model.Period) bool {
		if c.AvailableOnly && p.SeatsAvailable <= 0 {
			return false
		}
		if c.MinAvailable > 0 && p.SeatsAvailable < c.MinAvailable {
			return false
		}
		return true
	})
}

func (PeriodAvailability) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[PeriodAvailabilityCriteria](raw)
}
