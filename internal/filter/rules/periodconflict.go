package rules

import (
	"encoding/json"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// PeriodConflictCriteria toggles conflict avoidance.
type PeriodConflictCriteria struct {
	AvoidConflicts bool `json:"avoidConflicts"`
}

// PeriodConflict hides sections that overlap any section the user has
// selected in a different course. A section is hidden when any of its
// periods conflicts; with nothing selected there is nothing to
// conflict with and everything passes.
type PeriodConflict struct{}

func (PeriodConflict) ID() string          { return "periodConflict" }
func (PeriodConflict) Name() string        { return "Schedule Conflicts" }
func (PeriodConflict) Description() string { return "Hide sections that conflict with selections" }

func (PeriodConflict) ValidCriteria(criteria any) bool {
	_, ok := criteria.(PeriodConflictCriteria)
	return ok
}

func (PeriodConflict) DisplayValue(criteria any) string {
	c := criteria.(PeriodConflictCriteria)
	if c.AvoidConflicts {
		return "Avoiding conflicts"
	}
	return "Conflicts allowed"
}

func (PeriodConflict) Apply(courses []model.Course, _ any, _ *filter.Context) []model.Course {
	return courses
}

func (PeriodConflict) ApplyToSectionsWithContext(sections []model.Section, criteria any, fctx *filter.Context) []model.Section {
	c, ok := criteria.(PeriodConflictCriteria)
	if !ok || !c.AvoidConflicts || fctx == nil || fctx.Detector == nil {
		return sections
	}
	chosen := otherSelections(fctx)
	if len(chosen) == 0 {
		return sections
	}

	out := make([]model.Section, 0, len(sections))
nextSection:
	for i := range sections {
		for _, sec := range chosen {
			// Never compare a selected section against itself.
			if sec.CRN == sections[i].CRN {
				continue
			}
			if fctx.Detector.HasConflict(&sections[i], sec) {
				continue nextSection
			}
		}
		out = append(out, sections[i])
	}
	return out
}

func (PeriodConflict) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[PeriodConflictCriteria](raw)
}
