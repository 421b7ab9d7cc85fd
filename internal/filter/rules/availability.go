package rules

import (
	"encoding/json"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// AvailabilityCriteria toggles the availability rule.
type AvailabilityCriteria struct {
	AvailableOnly bool `json:"availableOnly"`
}

// Availability is the composite rule. A course stays iff at least one
// of its sections simultaneously (a) has open seats, (b) matches every
// other active term, professor, and time-window filter, re-checked
// inline because upstream course-level passes may not have reached the
// section, and (c) does not conflict with any section the user has
// selected in a different course.
//
// Sibling criteria are evaluated through the same helpers the
// standalone rules use, so the two paths cannot drift apart.
type Availability struct{}

func (Availability) ID() string   { return "availability" }
func (Availability) Name() string { return "Availability" }
func (Availability) Description() string {
	return "Show only courses with at least one available section"
}

func (Availability) ValidCriteria(criteria any) bool {
	_, ok := criteria.(AvailabilityCriteria)
	return ok
}

func (Availability) DisplayValue(criteria any) string {
	c := criteria.(AvailabilityCriteria)
	if c.AvailableOnly {
		return "Available seats only"
	}
	return "All courses"
}

func (a Availability) Apply(courses []model.Course, criteria any, fctx *filter.Context) []model.Course {
	c, ok := criteria.(AvailabilityCriteria)
	if !ok || !c.AvailableOnly {
		return courses
	}

	checks := siblingChecks(fctx, a.ID())
	selected := otherSelections(fctx)

	out := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		if courseHasViableSection(&course, checks, selected, fctx) {
			out = append(out, course)
		}
	}
	return out
}

func (Availability) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[AvailabilityCriteria](raw)
}

// sectionCheck is one sibling constraint re-applied at section level.
type sectionCheck func(*model.Section) bool

// siblingChecks extracts the term, professor, and time-window shaped
// criteria from the other active filters as section predicates.
func siblingChecks(fctx *filter.Context, selfID string) []sectionCheck {
	if fctx == nil {
		return nil
	}
	var checks []sectionCheck
	for _, af := range fctx.ActiveFilters {
		if af.ID == selfID {
			continue
		}
		switch criteria := af.Criteria.(type) {
		case TermCriteria:
			if len(criteria.Terms) > 0 {
				wanted := normalizedTermSet(criteria.Terms)
				checks = append(checks, func(sec *model.Section) bool {
					return sectionMatchesTerm(sec, wanted)
				})
			}
		case PeriodTermCriteria:
			if len(criteria.Terms) > 0 {
				wanted := normalizedTermSet(criteria.Terms)
				checks = append(checks, func(sec *model.Section) bool {
					return sectionMatchesTerm(sec, wanted)
				})
			}
		case ProfessorCriteria:
			if len(criteria.Professors) > 0 {
				wanted := lowerSet(criteria.Professors)
				checks = append(checks, func(sec *model.Section) bool {
					return sectionMatchesProfessor(sec, wanted)
				})
			}
		case PeriodProfessorCriteria:
			if len(criteria.Professors) > 0 {
				wanted := lowerSet(criteria.Professors)
				checks = append(checks, func(sec *model.Section) bool {
					return sectionMatchesProfessor(sec, wanted)
				})
			}
		case PeriodTimeCriteria:
			start, end := criteria.StartTime, criteria.EndTime
			if start != nil || end != nil {
				checks = append(checks, func(sec *model.Section) bool {
					return sectionWithinWindow(sec, start, end)
				})
			}
		}
	}
	return checks
}

// otherSelections maps course id to the section selected in that
// course, for every selection that has resolved to a section.
func otherSelections(fctx *filter.Context) map[string]*model.Section {
	if fctx == nil {
		return nil
	}
	selected := make(map[string]*model.Section)
	for i := range fctx.SelectedCourses {
		sc := &fctx.SelectedCourses[i]
		if sc.Course == nil {
			continue
		}
		if sec := sc.ResolveSection(); sec != nil {
			selected[sc.Course.ID] = sec
		}
	}
	return selected
}

func courseHasViableSection(course *model.Course, checks []sectionCheck, selected map[string]*model.Section, fctx *filter.Context) bool {
nextSection:
	for i := range course.Sections {
		sec := &course.Sections[i]
		if sec.SeatsAvailable <= 0 {
			continue
		}
		for _, check := range checks {
			if !check(sec) {
				continue nextSection
			}
		}
		if conflictsWithSelections(sec, course.ID, selected, fctx) {
			continue
		}
		return true
	}
	return false
}

// conflictsWithSelections checks the candidate section against every
// section selected in a different course. A course is never compared
// against its own selections, and an empty selection set short
// circuits to no conflict.
func conflictsWithSelections(sec *model.Section, courseID string, selected map[string]*model.Section, fctx *filter.Context) bool {
	if len(selected) == 0 || fctx == nil || fctx.Detector == nil {
		return false
	}
	for id, other := range selected {
		if id == courseID {
			continue
		}
		if fctx.Detector.HasConflict(sec, other) {
			return true
		}
	}
	return false
}
