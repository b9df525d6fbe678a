package dateparse

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-01-15", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2023-1-5", time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2023/01/15", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"1/15/2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15/1/2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15-Jan-2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15-January-2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"Jan 15, 2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15 Jan 2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"  2023-01-15  ", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},

		{"2023-01-15 08:30:00", time.Date(2023, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"2023-01-15T08:30:00", time.Date(2023, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"2023-01-15T08:30:00Z", time.Date(2023, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"2023-01-15 08:30", time.Date(2023, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"1/15/2023 08:30:00", time.Date(2023, 1, 15, 8, 30, 0, 0, time.UTC)},

		// Database text renderings of stored temporal values. sqlite writes
		// full ±HH:MM offsets; postgres casts timestamptz with a bare ±HH.
		{"2023-01-15 08:30:00+00:00", time.Date(2023, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"2023-01-15 08:30:00.123456+00:00", time.Date(2023, 1, 15, 8, 30, 0, 123456000, time.UTC)},
		{"2023-01-15 08:30:00+00", time.Date(2023, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"2023-01-15 08:30:00.123456+00", time.Date(2023, 1, 15, 8, 30, 0, 123456000, time.UTC)},
		{"2023-01-15 08:30:00-05", time.Date(2023, 1, 15, 13, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if !ok {
			t.Errorf("Parse(%q) failed", tt.in)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "soon", "99/99/9999", "12,5", "2023-13-01", "32/13/2023"} {
		if _, ok := Parse(in); ok {
			t.Errorf("Parse(%q) unexpectedly succeeded", in)
		}
	}
}

func TestParseTwoDigitYear(t *testing.T) {
	got, ok := Parse("1/15/99")
	if !ok {
		t.Fatal("Parse failed")
	}
	if got.Year() != 1999 {
		t.Errorf("year = %d, want 1999", got.Year())
	}

	// A two-digit year too far in the future drops back a century.
	got, ok = Parse("1/15/50")
	if !ok {
		t.Fatal("Parse failed")
	}
	want := 2050
	if want > time.Now().Year()+TwoDigitYearPivot {
		want = 1950
	}
	if got.Year() != want {
		t.Errorf("year = %d, want %d", got.Year(), want)
	}
}

func TestHasClock(t *testing.T) {
	if !HasClock("2023-01-15 08:30:00") {
		t.Error("datetime not detected")
	}
	if HasClock("2023-01-15") {
		t.Error("plain date misdetected")
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2023, 1, 15, 8, 30, 45, 123, time.FixedZone("x", 3600))
	got := DateOnly(in)
	want := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly = %v, want %v", got, want)
	}
}
