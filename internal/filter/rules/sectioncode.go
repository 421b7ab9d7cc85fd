package rules

import (
	"encoding/json"
	"strings"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// SectionCodeCriteria selects sections by section number codes.
type SectionCodeCriteria struct {
	Codes []string `json:"codes"`
}

// SectionCode matches a section when any criteria code equals or is a
// substring of the section number, including the parts of composite
// numbers like "A01/AL01".
type SectionCode struct{}

func (SectionCode) ID() string   { return "sectionCode" }
func (SectionCode) Name() string { return "Section Code" }
func (SectionCode) Description() string {
	return "Filter by section codes (AL01, AX01, A01, etc.)"
}

func (SectionCode) ValidCriteria(criteria any) bool {
	c, ok := criteria.(SectionCodeCriteria)
	return ok && c.Codes != nil
}

func (SectionCode) DisplayValue(criteria any) string {
	c := criteria.(SectionCodeCriteria)
	if len(c.Codes) == 0 {
		return "No section codes"
	}
	return joinDisplay("Section", "Sections", c.Codes)
}

func (SectionCode) Apply(courses []model.Course, _ any, _ *filter.Context) []model.Course {
	return courses
}

func (SectionCode) ApplyToSections(sections []model.Section, criteria any) []model.Section {
	c, ok := criteria.(SectionCodeCriteria)
	if !ok || len(c.Codes) == 0 {
		return sections
	}
	codes := make([]string, 0, len(c.Codes))
	for _, code := range c.Codes {
		if code = lower(code); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return sections
	}

	out := make([]model.Section, 0, len(sections))
	for i := range sections {
		if sectionCodeMatches(sections[i].Number, codes) {
			out = append(out, sections[i])
		}
	}
	return out
}

func sectionCodeMatches(number string, codes []string) bool {
	number = strings.ToLower(number)
	for _, code := range codes {
		if number == code || strings.Contains(number, code) {
			return true
		}
		for _, part := range strings.Split(number, "/") {
			part = strings.TrimSpace(part)
			if part == code || strings.Contains(part, code) {
				return true
			}
		}
	}
	return false
}

func (SectionCode) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[SectionCodeCriteria](raw)
}
