package entity

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"09:00", 9 * time.Hour, false},
		{"09:30", 9*time.Hour + 30*time.Minute, false},
		{"09:15:30", 9*time.Hour + 15*time.Minute + 30*time.Second, false},
		{"00:00", 0, false},
		{"23:59", 23*time.Hour + 59*time.Minute, false},
		{"25:00", 0, true},
		{"not-a-clock", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestISOWeekday(t *testing.T) {
	// 2026-01-05 is a Monday
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for offset, want := range []int{0, 1, 2, 3, 4, 5, 6} {
		day := monday.AddDate(0, 0, offset)
		if got := ISOWeekday(day); got != want {
			t.Errorf("ISOWeekday(%s) = %d, want %d", day.Weekday(), got, want)
		}
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 535, time.UTC)
	got := DateOf(ts)
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOf(%v) = %v, want %v", ts, got, want)
	}
}

func TestScheduleContainsDate(t *testing.T) {
	s := Schedule{
		ValidFrom: time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC),
		ValidTo:   time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		day  time.Time
		want bool
	}{
		// boundary days count regardless of the window's time-of-day
		{time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC), false},
		{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		if got := s.ContainsDate(tt.day); got != tt.want {
			t.Errorf("ContainsDate(%v) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestAvailabilityRowsForWeekday(t *testing.T) {
	a := Availability{
		Availability: AvailabilityRows{
			{DayOfWeek: 0, StartTime: "09:00", EndTime: "12:00"},
			{DayOfWeek: 0, StartTime: "14:00", EndTime: "17:00"},
			{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00"},
		},
	}

	if got := len(a.RowsForWeekday(0)); got != 2 {
		t.Errorf("RowsForWeekday(0) returned %d rows, want 2", got)
	}
	if got := len(a.RowsForWeekday(2)); got != 1 {
		t.Errorf("RowsForWeekday(2) returned %d rows, want 1", got)
	}
	if got := a.RowsForWeekday(5); got != nil {
		t.Errorf("RowsForWeekday(5) = %v, want nil", got)
	}
}

func TestExceptionContainsDate(t *testing.T) {
	e := AvailabilityException{
		ValidFrom: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		ValidTo:   time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC),
	}

	if !e.ContainsDate(time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)) {
		t.Error("expected first day of the range to be contained")
	}
	if !e.ContainsDate(time.Date(2026, 4, 12, 23, 0, 0, 0, time.UTC)) {
		t.Error("expected last day of the range to be contained")
	}
	if e.ContainsDate(time.Date(2026, 4, 13, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected day after the range to be excluded")
	}
}
