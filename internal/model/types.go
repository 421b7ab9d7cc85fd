// Package model provides the catalog data types shared across the planner.
//
// Catalog data is loaded once per session and treated as immutable: filters
// and conflict checks never mutate a Course, Section, or Period in place.
package model

import "fmt"

// DayOfWeek is a closed seven-value enumeration of meeting days.
// Values are stored canonically lower-case; parse external strings
// with ParseDay.
type DayOfWeek string

const (
	Monday    DayOfWeek = "mon"
	Tuesday   DayOfWeek = "tue"
	Wednesday DayOfWeek = "wed"
	Thursday  DayOfWeek = "thu"
	Friday    DayOfWeek = "fri"
	Saturday  DayOfWeek = "sat"
	Sunday    DayOfWeek = "sun"
)

// DaySet is the set of days a period meets on.
type DaySet map[DayOfWeek]bool

// Has reports whether day is in the set.
func (s DaySet) Has(day DayOfWeek) bool { return s[day] }

// Time is a normalized 24-hour clock time.
//
// Display is a cached 12-hour rendering for the UI and is never
// authoritative: all comparisons go through Minutes().
type Time struct {
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
	Display string `json:"displayTime"`
}

// TotalMinutes returns the time as minutes since midnight, the only
// representation used for comparisons.
func (t Time) TotalMinutes() int { return t.Hours*60 + t.Minutes }

// Period is one scheduled meeting pattern (lecture/lab/discussion)
// belonging to a section.
type Period struct {
	Type           string
	Professor      string
	StartTime      Time
	EndTime        Time
	Location       string
	Building       string
	Room           string
	Seats          int
	SeatsAvailable int
	ActualWaitlist int
	MaxWaitlist    int
	Days           DaySet
}

// Section is one offering of a course, identified by CRN within a term.
type Section struct {
	CRN            int
	Number         string
	Seats          int
	SeatsAvailable int
	ActualWaitlist int
	MaxWaitlist    int
	Description    string
	// Term is the raw source string; ComputedTerm is the normalized
	// (uppercased, trimmed) code used for matching.
	Term         string
	ComputedTerm string
	Periods      []Period
}

// Course groups the sections of one catalog entry. Department is a
// reference back to the shared Department, not an owned copy.
type Course struct {
	ID          string
	Number      string
	Name        string
	Description string
	Department  *Department
	Sections    []Section
	MinCredits  float64
	MaxCredits  float64
}

// Department owns its courses; Abbreviation is the join key used by
// filters and categorization.
type Department struct {
	Abbreviation string
	Name         string
	Courses      []Course
}

// SelectedCourse is a course the user has added to their plan, with an
// optionally chosen section.
//
// SectionNumber may be known while Section is still nil (e.g. freshly
// deserialized state); ResolveSection reconstructs the pointer lazily.
type SelectedCourse struct {
	Course        *Course
	Section       *Section
	SectionNumber string
	Required      bool
}

// ResolveSection returns the selected section, resolving it from
// SectionNumber against the course's sections when only the number is
// known. Returns nil when no section is selected or the number no
// longer matches any section.
func (sc *SelectedCourse) ResolveSection() *Section {
	if sc.Section != nil {
		return sc.Section
	}
	if sc.SectionNumber == "" || sc.Course == nil {
		return nil
	}
	for i := range sc.Course.Sections {
		if sc.Course.Sections[i].Number == sc.SectionNumber {
			sc.Section = &sc.Course.Sections[i]
			return sc.Section
		}
	}
	return nil
}

// ConflictType categorizes a detected conflict.
type ConflictType string

// TimeOverlap is the only conflict type the detector currently emits.
const TimeOverlap ConflictType = "time_overlap"

// Conflict is a detected day+time overlap between two sections. It is
// recomputed per query and never persisted.
type Conflict struct {
	Section1    *Section
	Section2    *Section
	Type        ConflictType
	Description string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%d/%d: %s", c.Section1.CRN, c.Section2.CRN, c.Description)
}
