package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// PeriodLocationCriteria narrows periods by building and/or room.
type PeriodLocationCriteria struct {
	Buildings []string `json:"buildings"`
	Rooms     []string `json:"rooms"`
}

// PeriodLocation filters at period granularity with bidirectional
// substring matching, so a partial building name still matches.
type PeriodLocation struct{}

func (PeriodLocation) ID() string          { return "periodLocation" }
func (PeriodLocation) Name() string        { return "Period Location" }
func (PeriodLocation) Description() string { return "Filter periods by building and room" }

func (PeriodLocation) ValidCriteria(criteria any) bool {
	_, ok := criteria.(PeriodLocationCriteria)
	return ok
}

func (PeriodLocation) DisplayValue(criteria any) string {
	c := criteria.(PeriodLocationCriteria)
	var parts []string
	if len(c.Buildings) == 1 {
		parts = append(parts, "Building: "+c.Buildings[0])
	} else if len(c.Buildings) > 1 {
		parts = append(parts, fmt.Sprintf("%d Buildings", len(c.Buildings)))
	}
	if len(c.Rooms) == 1 {
		parts = append(parts, "Room: "+c.Rooms[0])
	} else if len(c.Rooms) > 1 {
		parts = append(parts, fmt.Sprintf("%d Rooms", len(c.Rooms)))
	}
	if len(parts) == 0 {
		return "Any Location"
	}
	return strings.Join(parts, ", ")
}

func (PeriodLocation) Apply(courses []model.Course, _ any, _ *filter.Context) []model.Course {
	return courses
}

func (PeriodLocation) ApplyToPeriods(periods []model.Period, criteria any) []model.Period {
	c, ok := criteria.(PeriodLocationCriteria)
	if !ok {
		return periods
	}
	out := periods
	if len(c.Buildings) > 0 {
		selected := lowerSet(c.Buildings)
		out = filterPeriods(out, func(p *model.Period) bool {
			return partialMatch(p.Building, selected)
		})
	}
	if len(c.Rooms) > 0 {
		selected := lowerSet(c.Rooms)
		out = filterPeriods(out, func(p *model.Period) bool {
			return partialMatch(p.Room, selected)
		})
	}
	return out
}

func (PeriodLocation) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[PeriodLocationCriteria](raw)
}

func filterPeriods(periods []model.Period, keep func(*model.Period) bool) []model.Period {
	out := make([]model.Period, 0, len(periods))
	for i := range periods {
		if keep(&periods[i]) {
			out = append(out, periods[i])
		}
	}
	return out
}
