package rules

import (
	"encoding/json"
	"strings"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// PeriodTermCriteria narrows sections by academic term.
type PeriodTermCriteria struct {
	Terms []string `json:"terms"`
}

// PeriodTerm is the section-granularity counterpart of Term, matching
// each section's normalized term code.
type PeriodTerm struct{}

func (PeriodTerm) ID() string          { return "periodTerm" }
func (PeriodTerm) Name() string        { return "Term" }
func (PeriodTerm) Description() string { return "Show sections from selected academic terms" }

func (PeriodTerm) ValidCriteria(criteria any) bool {
	c, ok := criteria.(PeriodTermCriteria)
	return ok && c.Terms != nil
}

func (PeriodTerm) DisplayValue(criteria any) string {
	c := criteria.(PeriodTermCriteria)
	if len(c.Terms) == 0 {
		return "All terms"
	}
	names := make([]string, len(c.Terms))
	for i, term := range c.Terms {
		names[i] = formatTermName(term)
	}
	if len(names) == 1 {
		return "Term: " + names[0]
	}
	return "Terms: " + strings.Join(names, ", ")
}

func (PeriodTerm) Apply(courses []model.Course, _ any, _ *filter.Context) []model.Course {
	return courses
}

func (PeriodTerm) ApplyToSections(sections []model.Section, criteria any) []model.Section {
	c, ok := criteria.(PeriodTermCriteria)
	if !ok || len(c.Terms) == 0 {
		return sections
	}
	wanted := normalizedTermSet(c.Terms)

	out := make([]model.Section, 0, len(sections))
	for i := range sections {
		if sectionMatchesTerm(&sections[i], wanted) {
			out = append(out, sections[i])
		}
	}
	return out
}

func (PeriodTerm) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[PeriodTermCriteria](raw)
}

// formatTermName expands single-letter term codes for display.
func formatTermName(term string) string {
	switch model.NormalizeTerm(term) {
	case "A":
		return "A Term"
	case "B":
		return "B Term"
	case "C":
		return "C Term"
	case "D":
		return "D Term"
	}
	return strings.ToUpper(term)
}
