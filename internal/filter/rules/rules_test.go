package rules

import (
	"testing"

	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/model"
)

func testPeriod(days []model.DayOfWeek, startH, startM, endH, endM int) model.Period {
	set := make(model.DaySet, len(days))
	for _, d := range days {
		set[d] = true
	}
	return model.Period{
		Days:      set,
		StartTime: model.NewTime(startH, startM),
		EndTime:   model.NewTime(endH, endM),
	}
}

func courseNames(courses []model.Course) []string {
	out := make([]string, len(courses))
	for i, c := range courses {
		out[i] = c.ID
	}
	return out
}

func TestCreditRangeOverlap(t *testing.T) {
	rule := CreditRange{}
	courses := []model.Course{
		{ID: "fixed-4", MinCredits: 4, MaxCredits: 4},
		{ID: "var-3-4", MinCredits: 3, MaxCredits: 4},
		{ID: "low-1-2", MinCredits: 1, MaxCredits: 2},
	}

	got := rule.Apply(courses, CreditRangeCriteria{Min: 3, Max: 4}, nil)
	want := []string{"fixed-4", "var-3-4"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", courseNames(got), want)
	}
	for i, c := range got {
		if c.ID != want[i] {
			t.Errorf("course %d = %s, want %s", i, c.ID, want[i])
		}
	}
}

func TestCreditRangeValidCriteria(t *testing.T) {
	rule := CreditRange{}
	tests := []struct {
		name     string
		criteria any
		want     bool
	}{
		{"point range", CreditRangeCriteria{Min: 3, Max: 3}, true},
		{"inverted", CreditRangeCriteria{Min: 4, Max: 3}, false},
		{"negative", CreditRangeCriteria{Min: -1, Max: 3}, false},
		{"wrong type", "3-4", false},
	}
	for _, tt := range tests {
		if got := rule.ValidCriteria(tt.criteria); got != tt.want {
			t.Errorf("%s: ValidCriteria = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSearchTextFuzzy(t *testing.T) {
	rule := SearchText{}
	dept := &model.Department{Abbreviation: "CS", Name: "Computer Science"}
	courses := []model.Course{
		{ID: "CS-2223", Number: "2223", Name: "Algorithms", Department: dept},
		{ID: "CS-3733", Number: "3733", Name: "Software Engineering", Department: dept},
		{ID: "MA-2611", Number: "2611", Name: "Applied Math"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"algorithms", []string{"CS-2223"}},
		// Near-miss query still hits via the per-word prefix fallback.
		{"algorithmic", []string{"CS-2223"}},
		{"cs", []string{"CS-2223", "CS-3733"}},
		{"2611", []string{"MA-2611"}},
		{"software engineering", []string{"CS-3733"}},
		{"basketweaving", nil},
	}
	for _, tt := range tests {
		got := rule.Apply(courses, filter.SearchTextCriteria{Query: tt.query}, nil)
		if len(got) != len(tt.want) {
			t.Errorf("query %q: got %v, want %v", tt.query, courseNames(got), tt.want)
			continue
		}
		for i, c := range got {
			if c.ID != tt.want[i] {
				t.Errorf("query %q: course %d = %s, want %s", tt.query, i, c.ID, tt.want[i])
			}
		}
	}
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		text  string
		query string
		want  bool
	}{
		// Short queries are plain substring.
		{"intro to circuits", "cir", true},
		{"intro to circuits", "xyz", false},
		// Each longer word matches via its 80%-length prefix.
		{"algorithms and data structures", "algorithm structure", true},
		{"algorithms and data structures", "algorithm geology", false},
		// Two-letter words need an exact substring hit.
		{"topics in ai", "ai topics", true},
		{"topics in ml", "ai topics", false},
	}
	for _, tt := range tests {
		if got := fuzzyMatch(tt.text, tt.query); got != tt.want {
			t.Errorf("fuzzyMatch(%q, %q) = %v, want %v", tt.text, tt.query, got, tt.want)
		}
	}
}

func TestPeriodDaysExclusion(t *testing.T) {
	rule := PeriodDays{}
	periods := []model.Period{
		testPeriod([]model.DayOfWeek{model.Monday, model.Wednesday}, 9, 0, 9, 50),
		testPeriod([]model.DayOfWeek{model.Tuesday}, 10, 0, 10, 50),
	}

	got := rule.ApplyToPeriods(periods, PeriodDaysCriteria{Days: []string{"wed"}})
	if len(got) != 1 || !got[0].Days.Has(model.Tuesday) {
		t.Errorf("excluding wed: kept %d periods, want only the Tuesday period", len(got))
	}

	// Empty exclusion list keeps everything.
	got = rule.ApplyToPeriods(periods, PeriodDaysCriteria{Days: []string{}})
	if len(got) != len(periods) {
		t.Errorf("empty exclusion dropped periods: got %d, want %d", len(got), len(periods))
	}
}

func TestPeriodDaysSectionLevel(t *testing.T) {
	rule := PeriodDays{}
	sections := []model.Section{
		// One period on Friday taints the whole section.
		{Number: "A01", Periods: []model.Period{
			testPeriod([]model.DayOfWeek{model.Monday}, 9, 0, 9, 50),
			testPeriod([]model.DayOfWeek{model.Friday}, 14, 0, 14, 50),
		}},
		{Number: "B01", Periods: []model.Period{
			testPeriod([]model.DayOfWeek{model.Tuesday, model.Thursday}, 9, 0, 9, 50),
		}},
	}

	got := rule.ApplyToSections(sections, PeriodDaysCriteria{Days: []string{"Friday"}})
	if len(got) != 1 || got[0].Number != "B01" {
		t.Errorf("excluding Friday: got %d sections, want only B01", len(got))
	}
}

func TestSectionCodeMatching(t *testing.T) {
	rule := SectionCode{}
	sections := []model.Section{
		{Number: "A01"},
		{Number: "AL01/AX02"},
		{Number: "B02"},
	}

	tests := []struct {
		name  string
		codes []string
		want  []string
	}{
		{"exact", []string{"A01"}, []string{"A01"}},
		{"composite part", []string{"AX02"}, []string{"AL01/AX02"}},
		{"substring", []string{"al"}, []string{"AL01/AX02"}},
		{"multiple codes", []string{"A01", "B02"}, []string{"A01", "B02"}},
		{"no match", []string{"C03"}, nil},
	}
	for _, tt := range tests {
		got := rule.ApplyToSections(sections, SectionCodeCriteria{Codes: tt.codes})
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %d sections, want %d", tt.name, len(got), len(tt.want))
			continue
		}
		for i, sec := range got {
			if sec.Number != tt.want[i] {
				t.Errorf("%s: section %d = %s, want %s", tt.name, i, sec.Number, tt.want[i])
			}
		}
	}
}

func TestSectionCodeBlankCodesPassThrough(t *testing.T) {
	rule := SectionCode{}
	sections := []model.Section{{Number: "A01"}}
	got := rule.ApplyToSections(sections, SectionCodeCriteria{Codes: []string{"  ", ""}})
	if len(got) != 1 {
		t.Error("whitespace-only codes should not filter anything")
	}
}

func TestPeriodTimeContainment(t *testing.T) {
	rule := PeriodTime{}
	periods := []model.Period{
		testPeriod([]model.DayOfWeek{model.Monday}, 9, 0, 9, 50),
		testPeriod([]model.DayOfWeek{model.Monday}, 8, 0, 10, 0),
		testPeriod([]model.DayOfWeek{model.Monday}, 15, 0, 16, 50),
	}

	start := &TimePoint{Hours: 9}
	end := &TimePoint{Hours: 17}
	got := rule.ApplyToPeriods(periods, PeriodTimeCriteria{StartTime: start, EndTime: end})
	// The 8:00 period starts before the window and is dropped even
	// though it overlaps it.
	if len(got) != 2 {
		t.Fatalf("got %d periods, want 2", len(got))
	}

	// Open-ended bounds.
	got = rule.ApplyToPeriods(periods, PeriodTimeCriteria{EndTime: &TimePoint{Hours: 10}})
	if len(got) != 2 {
		t.Errorf("end-only window: got %d periods, want 2", len(got))
	}
	got = rule.ApplyToPeriods(periods, PeriodTimeCriteria{})
	if len(got) != 3 {
		t.Errorf("unbounded window: got %d periods, want 3", len(got))
	}
}

func TestPeriodTimeValidCriteria(t *testing.T) {
	rule := PeriodTime{}
	if !rule.ValidCriteria(PeriodTimeCriteria{}) {
		t.Error("both bounds nil should be valid")
	}
	if rule.ValidCriteria(PeriodTimeCriteria{StartTime: &TimePoint{Hours: 25}}) {
		t.Error("out-of-range hours should be invalid")
	}
	if rule.ValidCriteria(PeriodTimeCriteria{EndTime: &TimePoint{Minutes: 75}}) {
		t.Error("out-of-range minutes should be invalid")
	}
}

func TestPeriodTimeDisplayValue(t *testing.T) {
	rule := PeriodTime{}
	tests := []struct {
		criteria PeriodTimeCriteria
		want     string
	}{
		{PeriodTimeCriteria{StartTime: &TimePoint{Hours: 9}}, "After 9:00 AM"},
		{PeriodTimeCriteria{EndTime: &TimePoint{Hours: 17}}, "Before 5:00 PM"},
		{PeriodTimeCriteria{StartTime: &TimePoint{Hours: 9}, EndTime: &TimePoint{Hours: 17}}, "After 9:00 AM, Before 5:00 PM"},
		{PeriodTimeCriteria{}, "Any Time"},
	}
	for _, tt := range tests {
		if got := rule.DisplayValue(tt.criteria); got != tt.want {
			t.Errorf("DisplayValue = %q, want %q", got, tt.want)
		}
	}
}

func TestPartialMatch(t *testing.T) {
	selected := lowerSet([]string{"Fuller Labs"})
	tests := []struct {
		value string
		want  bool
	}{
		{"Fuller Labs", true},
		{"fuller labs upper", true},
		{"Fuller", true},
		{"Salisbury", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := partialMatch(tt.value, selected); got != tt.want {
			t.Errorf("partialMatch(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestRegistryIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, rule := range All() {
		id := rule.ID()
		if id == "" {
			t.Errorf("rule %T has empty id", rule)
		}
		if seen[id] {
			t.Errorf("duplicate rule id %q", id)
		}
		seen[id] = true
	}
}

func TestPeriodTypeExclusion(t *testing.T) {
	lec := testPeriod([]model.DayOfWeek{model.Monday}, 9, 0, 9, 50)
	lec.Type = "Lecture"
	lab := testPeriod([]model.DayOfWeek{model.Wednesday}, 13, 0, 14, 50)
	lab.Type = "LAB"
	dis := testPeriod([]model.DayOfWeek{model.Friday}, 10, 0, 10, 50)
	dis.Type = "Dis"

	rule := PeriodType{}
	got := rule.ApplyToPeriods([]model.Period{lec, lab, dis}, PeriodTypeCriteria{Types: []string{"lab", "discussion"}})
	if len(got) != 1 || got[0].Type != "Lecture" {
		t.Fatalf("got %d periods, want only the lecture", len(got))
	}

	got = rule.ApplyToPeriods([]model.Period{lec, lab, dis}, PeriodTypeCriteria{Types: []string{}})
	if len(got) != 3 {
		t.Error("empty exclusion list should pass everything")
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Lec", "lecture"},
		{"LECTURE", "lecture"},
		{"Lab ", "lab"},
		{"Discussion", "discussion"},
		{"Rec", "recitation"},
		{"Seminar", "seminar"},
		{"Conf", "conference"},
		{"Web", "web"},
	}
	for _, tt := range tests {
		if got := normalizeType(tt.in); got != tt.want {
			t.Errorf("normalizeType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPeriodTypeDisplayValue(t *testing.T) {
	rule := PeriodType{}
	if got := rule.DisplayValue(PeriodTypeCriteria{Types: []string{}}); got != "No exclusions" {
		t.Errorf("empty = %q", got)
	}
	if got := rule.DisplayValue(PeriodTypeCriteria{Types: []string{"lab"}}); got != "Exclude: Lab" {
		t.Errorf("single = %q", got)
	}
	if got := rule.DisplayValue(PeriodTypeCriteria{Types: []string{"lec", "dis"}}); got != "Exclude: Lecture, Discussion" {
		t.Errorf("multiple = %q", got)
	}
}

func TestPeriodAvailabilitySeats(t *testing.T) {
	open := testPeriod([]model.DayOfWeek{model.Monday}, 9, 0, 9, 50)
	open.SeatsAvailable = 12
	tight := testPeriod([]model.DayOfWeek{model.Tuesday}, 9, 0, 9, 50)
	tight.SeatsAvailable = 2
	full := testPeriod([]model.DayOfWeek{model.Wednesday}, 9, 0, 9, 50)
	full.SeatsAvailable = 0
	periods := []model.Period{open, tight, full}

	rule := PeriodAvailability{}

	got := rule.ApplyToPeriods(periods, PeriodAvailabilityCriteria{AvailableOnly: true})
	if len(got) != 2 {
		t.Errorf("availableOnly kept %d periods, want 2", len(got))
	}

	got = rule.ApplyToPeriods(periods, PeriodAvailabilityCriteria{MinAvailable: 5})
	if len(got) != 1 || got[0].SeatsAvailable != 12 {
		t.Errorf("minAvailable kept %d periods, want only the open one", len(got))
	}

	got = rule.ApplyToPeriods(periods, PeriodAvailabilityCriteria{})
	if len(got) != 3 {
		t.Error("zero criteria should pass everything")
	}
}

func TestPeriodAvailabilityValidCriteria(t *testing.T) {
	rule := PeriodAvailability{}
	if !rule.ValidCriteria(PeriodAvailabilityCriteria{AvailableOnly: true}) {
		t.Error("plain criteria rejected")
	}
	if rule.ValidCriteria(PeriodAvailabilityCriteria{MinAvailable: -1}) {
		t.Error("negative minimum accepted")
	}
	if rule.ValidCriteria("availableOnly") {
		t.Error("wrong type accepted")
	}
}

func TestRequiredStatusSplit(t *testing.T) {
	algo := model.Course{ID: "algo"}
	art := model.Course{ID: "art"}
	selected := []model.SelectedCourse{
		{Course: &algo, Required: true},
		{Course: &art, Required: false},
	}

	rule := RequiredStatus{}

	got := rule.ApplyToSelectedCourses(selected, RequiredStatusCriteria{Status: StatusRequired})
	if len(got) != 1 || got[0].Course.ID != "algo" {
		t.Errorf("required kept %d entries", len(got))
	}

	got = rule.ApplyToSelectedCourses(selected, RequiredStatusCriteria{Status: StatusOptional})
	if len(got) != 1 || got[0].Course.ID != "art" {
		t.Errorf("optional kept %d entries", len(got))
	}

	got = rule.ApplyToSelectedCourses(selected, RequiredStatusCriteria{Status: StatusAll})
	if len(got) != 2 {
		t.Errorf("all kept %d entries, want 2", len(got))
	}
}

func TestRequiredStatusValidCriteria(t *testing.T) {
	rule := RequiredStatus{}
	for _, status := range []string{StatusRequired, StatusOptional, StatusAll} {
		if !rule.ValidCriteria(RequiredStatusCriteria{Status: status}) {
			t.Errorf("status %q rejected", status)
		}
	}
	if rule.ValidCriteria(RequiredStatusCriteria{Status: "sometimes"}) {
		t.Error("unknown status accepted")
	}
}
