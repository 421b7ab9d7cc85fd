package rules

import (
	"encoding/json"
	"strings"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// SearchText matches a free-text query against a course's id, name,
// description, department, and number. Exact substring first, then a
// fuzzy per-word fallback so near-misses while typing still hit.
type SearchText struct{}

func (SearchText) ID() string          { return filter.SearchTextID }
func (SearchText) Name() string        { return "Search Text" }
func (SearchText) Description() string { return "Filter courses by search text" }

func (SearchText) ValidCriteria(criteria any) bool {
	_, ok := criteria.(filter.SearchTextCriteria)
	return ok
}

func (SearchText) DisplayValue(criteria any) string {
	c := criteria.(filter.SearchTextCriteria)
	return `"` + strings.TrimSpace(c.Query) + `"`
}

func (SearchText) Apply(courses []model.Course, criteria any, _ *filter.Context) []model.Course {
	c, ok := criteria.(filter.SearchTextCriteria)
	if !ok {
		return courses
	}
	query := strings.ToLower(strings.TrimSpace(c.Query))
	if query == "" {
		return courses
	}

	out := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		text := courseSearchText(&course)
		if strings.Contains(text, query) || fuzzyMatch(text, query) {
			out = append(out, course)
		}
	}
	return out
}

func (SearchText) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[filter.SearchTextCriteria](raw)
}

func courseSearchText(course *model.Course) string {
	parts := []string{course.ID, course.Name, course.Description}
	if course.Department != nil {
		parts = append(parts, course.Department.Abbreviation, course.Department.Name)
	}
	parts = append(parts, course.Number)
	return strings.ToLower(strings.Join(parts, " "))
}

// fuzzyMatch relaxes the exact substring test. Short queries stay
// plain substring; longer multi-word queries require every word to
// match either exactly or via its first 80%-length prefix, so
// "algorithm" still finds "algorithms".
func fuzzyMatch(text, query string) bool {
	if len(query) <= 3 {
		return strings.Contains(text, query)
	}
	for _, word := range strings.Fields(query) {
		if len(word) <= 2 {
			if !strings.Contains(text, word) {
				return false
			}
			continue
		}
		partial := word[:len(word)*8/10]
		if !strings.Contains(text, partial) {
			return false
		}
	}
	return true
}
