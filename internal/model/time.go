package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var timeRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// ParseTime parses an "HH:MM" 24-hour string from the catalog feed.
// Empty or "TBA" inputs produce a zero time displayed as "TBD";
// anything else unparseable keeps the raw string as its display so bad
// feed data stays visible without breaking comparisons.
func ParseTime(raw string) Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "TBA") {
		return Time{Display: "TBD"}
	}

	m := timeRe.FindStringSubmatch(raw)
	if m == nil {
		return Time{Display: raw}
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if hours > 23 || minutes > 59 {
		return Time{Display: raw}
	}

	return NewTime(hours, minutes)
}

// NewTime builds a Time with its 12-hour display rendering cached.
func NewTime(hours, minutes int) Time {
	return Time{Hours: hours, Minutes: minutes, Display: formatDisplay(hours, minutes)}
}

func formatDisplay(hours, minutes int) string {
	displayHours := hours
	switch {
	case hours == 0:
		displayHours = 12
	case hours > 12:
		displayHours = hours - 12
	}
	ampm := "AM"
	if hours >= 12 {
		ampm = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", displayHours, minutes, ampm)
}

// ParseDay maps an external day string to its canonical DayOfWeek.
// Matching is case-insensitive on the three-letter prefix; unknown
// strings return false.
func ParseDay(raw string) (DayOfWeek, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if len(s) > 3 {
		s = s[:3]
	}
	switch DayOfWeek(s) {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return DayOfWeek(s), true
	}
	return "", false
}

// ParseDays builds a DaySet from external day strings, dropping any it
// cannot recognize.
func ParseDays(raw []string) DaySet {
	days := make(DaySet, len(raw))
	for _, r := range raw {
		if day, ok := ParseDay(r); ok {
			days[day] = true
		}
	}
	return days
}

// SharedDays returns the intersection of two day sets in week order,
// used for conflict descriptions.
func SharedDays(a, b DaySet) []DayOfWeek {
	var shared []DayOfWeek
	for _, day := range []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday} {
		if a.Has(day) && b.Has(day) {
			shared = append(shared, day)
		}
	}
	return shared
}

// NormalizeTerm uppercases and trims a term code so raw feed values and
// user-entered criteria compare equal.
func NormalizeTerm(term string) string {
	return strings.ToUpper(strings.TrimSpace(term))
}
