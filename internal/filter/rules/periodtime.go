package rules

import (
	"encoding/json"
	"strings"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// PeriodTimeCriteria restricts periods to a time window. Either bound
// may be nil, leaving that side unconstrained.
type PeriodTimeCriteria struct {
	StartTime *TimePoint `json:"startTime"`
	EndTime   *TimePoint `json:"endTime"`
}

// PeriodTime keeps periods fully contained in the window: start no
// earlier than StartTime, end no later than EndTime. Containment, not
// overlap.
type PeriodTime struct{}

func (PeriodTime) ID() string          { return "periodTime" }
func (PeriodTime) Name() string        { return "Period Time" }
func (PeriodTime) Description() string { return "Filter periods by time range" }

func (PeriodTime) ValidCriteria(criteria any) bool {
	c, ok := criteria.(PeriodTimeCriteria)
	if !ok {
		return false
	}
	if c.StartTime != nil && !c.StartTime.valid() {
		return false
	}
	if c.EndTime != nil && !c.EndTime.valid() {
		return false
	}
	return true
}

func (PeriodTime) DisplayValue(criteria any) string {
	c := criteria.(PeriodTimeCriteria)
	var parts []string
	if c.StartTime != nil {
		parts = append(parts, "After "+c.StartTime.display())
	}
	if c.EndTime != nil {
		parts = append(parts, "Before "+c.EndTime.display())
	}
	if len(parts) == 0 {
		return "Any Time"
	}
	return strings.Join(parts, ", ")
}

func (PeriodTime) Apply(courses []model.Course, _ any, _ *filter.Context) []model.Course {
	return courses
}

func (PeriodTime) ApplyToPeriods(periods []model.Period, criteria any) []model.Period {
	c, ok := criteria.(PeriodTimeCriteria)
	if !ok {
		return periods
	}
	return filterPeriods(periods, func(p *model.Period) bool {
		return periodWithinWindow(p, c.StartTime, c.EndTime)
	})
}

func (PeriodTime) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[PeriodTimeCriteria](raw)
}
