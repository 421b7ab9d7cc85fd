package rules

import (
	"encoding/json"
	"strings"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// PeriodTypeCriteria excludes periods whose meeting type matches any
// of the listed types.
type PeriodTypeCriteria struct {
	Types []string `json:"types"`
}

// PeriodType is exclusionary: listed types are hidden, everything else
// passes. Types are normalized so "Lec", "lecture", and "LECTURE" all
// name the same kind of meeting.
type PeriodType struct{}

func (PeriodType) ID() string          { return "periodType" }
func (PeriodType) Name() string        { return "Period Type" }
func (PeriodType) Description() string { return "Exclude sections with selected period types" }

func (PeriodType) ValidCriteria(criteria any) bool {
	c, ok := criteria.(PeriodTypeCriteria)
	return ok && c.Types != nil
}

func (PeriodType) DisplayValue(criteria any) string {
	c := criteria.(PeriodTypeCriteria)
	if len(c.Types) == 0 {
		return "No exclusions"
	}
	names := make([]string, len(c.Types))
	for i, t := range c.Types {
		names[i] = formatTypeName(t)
	}
	return "Exclude: " + strings.Join(names, ", ")
}

func (PeriodType) Apply(courses []model.Course, _ any, _ *filter.Context) []model.Course {
	return courses
}

func (PeriodType) ApplyToPeriods(periods []model.Period, criteria any) []model.Period {
	c, ok := criteria.(PeriodTypeCriteria)
	if !ok || len(c.Types) == 0 {
		return periods
	}
	excluded := make(map[string]bool, len(c.Types))
	for _, t := range c.Types {
		excluded[normalizeType(t)] = true
	}
	return filterPeriods(periods, func(p *model.Period) bool {
		return !excluded[normalizeType(p.Type)]
	})
}

func (PeriodType) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[PeriodTypeCriteria](raw)
}

// normalizeType folds the catalog's period type variants ("Lec",
// "Lecture", "LAB") to one canonical key per kind of meeting.
func normalizeType(t string) string {
	l := lower(t)
	switch {
	case strings.Contains(l, "lec"):
		return "lecture"
	case strings.Contains(l, "lab"):
		return "lab"
	case strings.Contains(l, "dis"):
		return "discussion"
	case strings.Contains(l, "rec"):
		return "recitation"
	case strings.Contains(l, "sem"):
		return "seminar"
	case strings.Contains(l, "studio"):
		return "studio"
	case strings.Contains(l, "conf"):
		return "conference"
	}
	return l
}

var typeNames = map[string]string{
	"lecture":    "Lecture",
	"lab":        "Lab",
	"discussion": "Discussion",
	"recitation": "Recitation",
	"seminar":    "Seminar",
	"studio":     "Studio",
	"conference": "Conference",
}

func formatTypeName(t string) string {
	if name, ok := typeNames[normalizeType(t)]; ok {
		return name
	}
	if t == "" {
		return t
	}
	return strings.ToUpper(t[:1]) + strings.ToLower(t[1:])
}
