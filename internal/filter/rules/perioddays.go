package rules

import (
	"encoding/json"
	"strings"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// PeriodDaysCriteria names days to exclude.
type PeriodDaysCriteria struct {
	Days []string `json:"days"`
}

// PeriodDays is the one exclusionary rule: a period is dropped when it
// meets on any excluded day, and a whole section is dropped when any
// of its periods does. Every other rule is inclusion-style.
type PeriodDays struct{}

func (PeriodDays) ID() string          { return "periodDays" }
func (PeriodDays) Name() string        { return "Period Days" }
func (PeriodDays) Description() string { return "Exclude sections with classes on selected days" }

func (PeriodDays) ValidCriteria(criteria any) bool {
	c, ok := criteria.(PeriodDaysCriteria)
	return ok && c.Days != nil
}

func (PeriodDays) DisplayValue(criteria any) string {
	c := criteria.(PeriodDaysCriteria)
	if len(c.Days) == 0 {
		return "No exclusions"
	}
	names := make([]string, len(c.Days))
	for i, day := range c.Days {
		names[i] = dayDisplayName(day)
	}
	return "Exclude: " + strings.Join(names, ", ")
}

func (PeriodDays) Apply(courses []model.Course, _ any, _ *filter.Context) []model.Course {
	return courses
}

func (PeriodDays) ApplyToPeriods(periods []model.Period, criteria any) []model.Period {
	c, ok := criteria.(PeriodDaysCriteria)
	if !ok || len(c.Days) == 0 {
		return periods
	}
	excluded := excludedDaySet(c.Days)
	return filterPeriods(periods, func(p *model.Period) bool {
		return !periodOnDays(p, excluded)
	})
}

func (PeriodDays) ApplyToSections(sections []model.Section, criteria any) []model.Section {
	c, ok := criteria.(PeriodDaysCriteria)
	if !ok || len(c.Days) == 0 {
		return sections
	}
	excluded := excludedDaySet(c.Days)

	out := make([]model.Section, 0, len(sections))
	for i := range sections {
		touches := false
		for j := range sections[i].Periods {
			if periodOnDays(&sections[i].Periods[j], excluded) {
				touches = true
				break
			}
		}
		if !touches {
			out = append(out, sections[i])
		}
	}
	return out
}

func excludedDaySet(days []string) map[model.DayOfWeek]bool {
	set := make(map[model.DayOfWeek]bool, len(days))
	for _, d := range days {
		if day, ok := model.ParseDay(d); ok {
			set[day] = true
		}
	}
	return set
}

func periodOnDays(p *model.Period, days map[model.DayOfWeek]bool) bool {
	for day := range p.Days {
		if days[day] {
			return true
		}
	}
	return false
}

func dayDisplayName(day string) string {
	switch strings.ToLower(strings.TrimSpace(day)) {
	case "mon":
		return "Monday"
	case "tue":
		return "Tuesday"
	case "wed":
		return "Wednesday"
	case "thu":
		return "Thursday"
	case "fri":
		return "Friday"
	case "sat":
		return "Saturday"
	case "sun":
		return "Sunday"
	}
	return day
}

func (PeriodDays) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[PeriodDaysCriteria](raw)
}
