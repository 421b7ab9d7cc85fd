package model

import "testing"

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		hours   int
		minutes int
		display string
	}{
		{"morning", "9:00", 9, 0, "9:00 AM"},
		{"afternoon", "14:30", 14, 30, "2:30 PM"},
		{"noon", "12:00", 12, 0, "12:00 PM"},
		{"midnight", "0:05", 0, 5, "12:05 AM"},
		{"empty", "", 0, 0, "TBD"},
		{"tba", "TBA", 0, 0, "TBD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTime(tt.raw)
			if got.Hours != tt.hours || got.Minutes != tt.minutes {
				t.Errorf("ParseTime(%q) = %d:%d, want %d:%d",
					tt.raw, got.Hours, got.Minutes, tt.hours, tt.minutes)
			}
			if got.Display != tt.display {
				t.Errorf("ParseTime(%q).Display = %q, want %q", tt.raw, got.Display, tt.display)
			}
		})
	}
}

func TestTotalMinutes(t *testing.T) {
	tm := Time{Hours: 9, Minutes: 30}
	if got := tm.TotalMinutes(); got != 570 {
		t.Errorf("TotalMinutes = %d, want 570", got)
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		raw  string
		want DayOfWeek
		ok   bool
	}{
		{"mon", Monday, true},
		{"Monday", Monday, true},
		{"WED", Wednesday, true},
		{"thursday", Thursday, true},
		{"xyz", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseDay(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseDay(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSharedDays(t *testing.T) {
	a := DaySet{Monday: true, Wednesday: true, Friday: true}
	b := DaySet{Wednesday: true, Friday: true, Sunday: true}

	shared := SharedDays(a, b)
	if len(shared) != 2 {
		t.Fatalf("SharedDays returned %d days, want 2", len(shared))
	}
	// Week order, not set order.
	if shared[0] != Wednesday || shared[1] != Friday {
		t.Errorf("SharedDays = %v, want [wed fri]", shared)
	}
}

func TestSharedDaysDisjoint(t *testing.T) {
	a := DaySet{Monday: true}
	b := DaySet{Tuesday: true}
	if got := SharedDays(a, b); len(got) != 0 {
		t.Errorf("SharedDays of disjoint sets = %v, want empty", got)
	}
}

func TestNormalizeTerm(t *testing.T) {
	tests := []struct{ raw, want string }{
		{"a", "A"},
		{" b ", "B"},
		{"Fall2026", "FALL2026"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTerm(tt.raw); got != tt.want {
			t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
