// Package rules contains the built-in filter rule implementations.
//
// Every rule validates its own criteria shape and produces a short
// display summary. Matching semantics that more than one rule needs
// (term, professor, time window) live in the helpers below so there is
// exactly one implementation of each predicate; the availability rule
// re-checks sibling criteria through these same helpers.
package rules

import (
	"encoding/json"
	"strings"

	"github.com/campusplanner/planner/internal/model"
)

// decodeCriteria rebuilds a rule's typed criteria from persisted JSON.
func decodeCriteria[T any](raw json.RawMessage) (any, error) {
	var c T
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return c, nil
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// lowerSet builds a lookup set of lowercased, trimmed values.
func lowerSet(vals []string) map[string]bool {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}

// sectionMatchesTerm reports whether the section's normalized term is
// in the criteria set. The set must already hold normalized terms.
func sectionMatchesTerm(sec *model.Section, terms map[string]bool) bool {
	return terms[model.NormalizeTerm(sec.ComputedTerm)]
}

func normalizedTermSet(terms []string) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[model.NormalizeTerm(t)] = true
	}
	return set
}

// sectionMatchesProfessor reports whether any period of the section is
// taught by a professor in the set (case-insensitive exact match).
func sectionMatchesProfessor(sec *model.Section, professors map[string]bool) bool {
	for i := range sec.Periods {
		if professors[strings.ToLower(sec.Periods[i].Professor)] {
			return true
		}
	}
	return false
}

// partialMatch is the bidirectional substring test used by the
// period-level name filters: the selected value may name part of the
// period value or vice versa.
func partialMatch(value string, selected map[string]bool) bool {
	if value == "" {
		return false
	}
	value = strings.ToLower(strings.TrimSpace(value))
	if selected[value] {
		return true
	}
	for s := range selected {
		if strings.Contains(value, s) || strings.Contains(s, value) {
			return true
		}
	}
	return false
}

// TimePoint is a clock time inside filter criteria. Unlike model.Time
// it has no cached display string; criteria render on demand.
type TimePoint struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// TotalMinutes returns minutes since midnight.
func (t TimePoint) TotalMinutes() int { return t.Hours*60 + t.Minutes }

func (t TimePoint) valid() bool {
	return t.Hours >= 0 && t.Hours <= 23 && t.Minutes >= 0 && t.Minutes <= 59
}

func (t TimePoint) display() string {
	return model.NewTime(t.Hours, t.Minutes).Display
}

// periodWithinWindow applies the containment test: the period must
// start no earlier than start and end no later than end, for whichever
// bounds are present. This is containment, not overlap.
func periodWithinWindow(p *model.Period, start, end *TimePoint) bool {
	if start != nil && p.StartTime.TotalMinutes() < start.TotalMinutes() {
		return false
	}
	if end != nil && p.EndTime.TotalMinutes() > end.TotalMinutes() {
		return false
	}
	return true
}

// sectionWithinWindow reports whether every period of the section fits
// the window; sections with no periods trivially fit.
func sectionWithinWindow(sec *model.Section, start, end *TimePoint) bool {
	for i := range sec.Periods {
		if !periodWithinWindow(&sec.Periods[i], start, end) {
			return false
		}
	}
	return true
}

func joinDisplay(label, plural string, vals []string) string {
	if len(vals) == 1 {
		return label + ": " + vals[0]
	}
	return plural + ": " + strings.Join(vals, ", ")
}
