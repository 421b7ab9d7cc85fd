// Package conflict detects time/day overlaps between course sections.
//
// Detection is pairwise and memoized: the result for each unordered
// section pair is cached by CRN pair key, so repeated schedule checks
// against the same catalog load are cheap. Catalog data is immutable
// per session, so entries never expire; callers that reload a catalog
// with reused CRNs must ClearCache first.
package conflict

import (
	"fmt"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/campusplanner/planner/internal/model"
)

// Detector finds pairwise time conflicts between sections.
// Safe for use from a single goroutine per instance; the memo itself
// is concurrency-safe.
type Detector struct {
	memo *cache.Cache
}

// NewDetector creates a Detector with an empty memo.
func NewDetector() *Detector {
	return &Detector{memo: cache.New(cache.NoExpiration, 0)}
}

// DetectConflicts returns every period-level conflict between each
// unordered pair of the given sections. Periods within the same
// section are never checked against each other.
func (d *Detector) DetectConflicts(sections []*model.Section) []model.Conflict {
	var conflicts []model.Conflict

	for i := 0; i < len(sections); i++ {
		for j := i + 1; j < len(sections); j++ {
			key := pairKey(sections[i], sections[j])
			if cached, ok := d.memo.Get(key); ok {
				conflicts = append(conflicts, cached.([]model.Conflict)...)
				continue
			}
			pair := checkSectionConflicts(sections[i], sections[j])
			d.memo.Set(key, pair, cache.NoExpiration)
			conflicts = append(conflicts, pair...)
		}
	}

	return conflicts
}

// IsValidSchedule reports whether the sections are mutually
// conflict-free.
func (d *Detector) IsValidSchedule(sections []*model.Section) bool {
	return len(d.DetectConflicts(sections)) == 0
}

// ClearCache empties the memo. Needed only when CRNs are reused across
// catalog loads.
func (d *Detector) ClearCache() {
	d.memo.Flush()
}

// HasConflict reports whether two sections conflict at all, through the
// same memo as DetectConflicts.
func (d *Detector) HasConflict(a, b *model.Section) bool {
	return len(d.DetectConflicts([]*model.Section{a, b})) > 0
}

func checkSectionConflicts(s1, s2 *model.Section) []model.Conflict {
	// Non-nil so the memo distinguishes "checked, clean" from a miss.
	conflicts := []model.Conflict{}
	for i := range s1.Periods {
		for j := range s2.Periods {
			if c, ok := checkPeriodConflict(&s1.Periods[i], &s2.Periods[j], s1, s2); ok {
				conflicts = append(conflicts, c)
			}
		}
	}
	return conflicts
}

func checkPeriodConflict(p1, p2 *model.Period, s1, s2 *model.Section) (model.Conflict, bool) {
	shared := model.SharedDays(p1.Days, p2.Days)
	if len(shared) == 0 {
		return model.Conflict{}, false
	}
	if !hasTimeOverlap(p1, p2) {
		return model.Conflict{}, false
	}

	names := make([]string, len(shared))
	for i, day := range shared {
		names[i] = string(day)
	}
	return model.Conflict{
		Section1: s1,
		Section2: s2,
		Type:     model.TimeOverlap,
		Description: fmt.Sprintf("Time overlap on %s: %s-%s conflicts with %s-%s",
			strings.Join(names, ", "),
			p1.StartTime.Display, p1.EndTime.Display,
			p2.StartTime.Display, p2.EndTime.Display),
	}, true
}

// hasTimeOverlap applies half-open interval logic: a period ending
// exactly when another starts does not overlap.
func hasTimeOverlap(p1, p2 *model.Period) bool {
	start1, end1 := p1.StartTime.TotalMinutes(), p1.EndTime.TotalMinutes()
	start2, end2 := p2.StartTime.TotalMinutes(), p2.EndTime.TotalMinutes()
	return start1 < end2 && start2 < end1
}

// pairKey joins the two CRNs in both orders and keeps the
// lexicographically smaller string, so (a,b) and (b,a) share a slot.
func pairKey(s1, s2 *model.Section) string {
	k1 := fmt.Sprintf("%d-%d", s1.CRN, s2.CRN)
	k2 := fmt.Sprintf("%d-%d", s2.CRN, s1.CRN)
	if k1 < k2 {
		return k1
	}
	return k2
}
