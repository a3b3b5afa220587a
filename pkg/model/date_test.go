package model

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", s, err)
	}
	return d
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "2026-01-15", false},
		{"leap day", "2024-02-29", false},
		{"empty", "", true},
		{"wrong layout", "15-01-2026", true},
		{"with time", "2026-01-15T10:00:00Z", true},
		{"nonsense", "not-a-date", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && FormatDate(d) != tt.input {
				t.Errorf("round trip mismatch: %q -> %q", tt.input, FormatDate(d))
			}
		})
	}
}

func TestNights(t *testing.T) {
	tests := []struct {
		checkIn  string
		checkOut string
		expected int
	}{
		{"2026-01-10", "2026-01-11", 1},
		{"2026-01-10", "2026-01-17", 7},
		{"2026-02-27", "2026-03-02", 3},
		{"2025-12-30", "2026-01-02", 3},
	}

	for _, tt := range tests {
		got := Nights(mustParse(t, tt.checkIn), mustParse(t, tt.checkOut))
		if got != tt.expected {
			t.Errorf("Nights(%s, %s) = %d, expected %d", tt.checkIn, tt.checkOut, got, tt.expected)
		}
	}
}

func TestEachNight_ExcludesCheckOut(t *testing.T) {
	var dates []string
	EachNight(mustParse(t, "2026-01-10"), mustParse(t, "2026-01-13"), func(d time.Time) {
		dates = append(dates, FormatDate(d))
	})

	expected := []string{"2026-01-10", "2026-01-11", "2026-01-12"}
	if len(dates) != len(expected) {
		t.Fatalf("expected %d nights, got %v", len(expected), dates)
	}
	for i, date := range expected {
		if dates[i] != date {
			t.Errorf("night %d: expected %s, got %s", i, date, dates[i])
		}
	}
}

func TestIsWeekendNight(t *testing.T) {
	tests := []struct {
		date    string
		weekend bool
	}{
		{"2026-01-08", false}, // Thursday
		{"2026-01-09", true},  // Friday
		{"2026-01-10", true},  // Saturday
		{"2026-01-11", false}, // Sunday: the night runs into Monday
		{"2026-01-12", false}, // Monday
	}

	for _, tt := range tests {
		if got := IsWeekendNight(mustParse(t, tt.date)); got != tt.weekend {
			t.Errorf("IsWeekendNight(%s) = %v, expected %v", tt.date, got, tt.weekend)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a        [2]string
		b        [2]string
		expected bool
	}{
		{"identical", [2]string{"2026-01-10", "2026-01-12"}, [2]string{"2026-01-10", "2026-01-12"}, true},
		{"partial", [2]string{"2026-01-10", "2026-01-12"}, [2]string{"2026-01-11", "2026-01-13"}, true},
		{"contained", [2]string{"2026-01-10", "2026-01-20"}, [2]string{"2026-01-12", "2026-01-14"}, true},
		{"adjacent", [2]string{"2026-01-10", "2026-01-12"}, [2]string{"2026-01-12", "2026-01-14"}, false},
		{"disjoint", [2]string{"2026-01-10", "2026-01-12"}, [2]string{"2026-01-20", "2026-01-22"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s1, e1 := mustParse(t, tt.a[0]), mustParse(t, tt.a[1])
			s2, e2 := mustParse(t, tt.b[0]), mustParse(t, tt.b[1])

			if got := Overlaps(s1, e1, s2, e2); got != tt.expected {
				t.Errorf("Overlaps(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.expected)
			}
			// Overlap is symmetric.
			if Overlaps(s1, e1, s2, e2) != Overlaps(s2, e2, s1, e1) {
				t.Errorf("Overlaps not symmetric for %v and %v", tt.a, tt.b)
			}
		})
	}
}
