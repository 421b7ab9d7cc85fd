package rules

import (
	"encoding/json"
	"strings"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

// LocationCriteria selects courses by building and/or room. Either
// list may be empty; an empty list places no constraint.
type LocationCriteria struct {
	Buildings []string `json:"buildings"`
	Rooms     []string `json:"rooms"`
}

// Location keeps courses with at least one period satisfying every
// non-empty constraint. Building and room, when both given, must hold
// on the same period.
type Location struct{}

func (Location) ID() string          { return "location" }
func (Location) Name() string        { return "Location" }
func (Location) Description() string { return "Filter courses by building or room" }

func (Location) ValidCriteria(criteria any) bool {
	c, ok := criteria.(LocationCriteria)
	return ok && (c.Buildings != nil || c.Rooms != nil)
}

func (Location) DisplayValue(criteria any) string {
	c := criteria.(LocationCriteria)
	var parts []string
	if len(c.Buildings) > 0 {
		parts = append(parts, joinDisplay("Building", "Buildings", c.Buildings))
	}
	if len(c.Rooms) > 0 {
		parts = append(parts, joinDisplay("Room", "Rooms", c.Rooms))
	}
	return strings.Join(parts, "; ")
}

func (Location) Apply(courses []model.Course, criteria any, _ *filter.Context) []model.Course {
	c, ok := criteria.(LocationCriteria)
	if !ok || (len(c.Buildings) == 0 && len(c.Rooms) == 0) {
		return courses
	}
	var buildings, rooms map[string]bool
	if len(c.Buildings) > 0 {
		buildings = lowerSet(c.Buildings)
	}
	if len(c.Rooms) > 0 {
		rooms = lowerSet(c.Rooms)
	}

	out := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		if courseHasLocation(&course, buildings, rooms) {
			out = append(out, course)
		}
	}
	return out
}

func courseHasLocation(course *model.Course, buildings, rooms map[string]bool) bool {
	for i := range course.Sections {
		for j := range course.Sections[i].Periods {
			p := &course.Sections[i].Periods[j]
			if buildings != nil && !buildings[lower(p.Building)] {
				continue
			}
			if rooms != nil && !rooms[lower(p.Room)] {
				continue
			}
			return true
		}
	}
	return false
}

func (Location) DecodeCriteria(raw json.RawMessage) (any, error) {
	return decodeCriteria[LocationCriteria](raw)
}
