package service

import (
	"testing"
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

// 2026-01-05 is a Monday.
var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func appointmentAvailability(slotSize, tokensPerSlot int, rows ...entity.AvailabilityRow) entity.Availability {
	return entity.Availability{
		ID:                uuid.New(),
		Name:              "OPD",
		SlotType:          entity.SlotTypeAppointment,
		SlotSizeInMinutes: slotSize,
		TokensPerSlot:     tokensPerSlot,
		Availability:      rows,
	}
}

func exceptionOn(day time.Time, start, end string) entity.AvailabilityException {
	return entity.AvailabilityException{
		ID:        uuid.New(),
		Name:      "Lunch",
		ValidFrom: day,
		ValidTo:   day,
		StartTime: start,
		EndTime:   end,
	}
}

func TestExpandDayCutsWindowIntoSlots(t *testing.T) {
	expander := NewSlotExpander(1000)
	availability := appointmentAvailability(30, 2,
		entity.AvailabilityRow{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"},
	)

	slots := expander.ExpandDay([]entity.Availability{availability}, nil, monday)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}

	first, ok := slots["09:00:00-09:30:00"]
	if !ok {
		t.Fatal("missing 09:00-09:30 window")
	}
	if !first.StartDatetime.Equal(monday.Add(9 * time.Hour)) {
		t.Errorf("unexpected start %v", first.StartDatetime)
	}
	if first.TokensPerSlot != 2 {
		t.Errorf("TokensPerSlot = %d, want 2", first.TokensPerSlot)
	}
	if first.AvailabilityID != availability.ID {
		t.Error("candidate not attributed to its availability")
	}
	if _, ok := slots["09:30:00-10:00:00"]; !ok {
		t.Error("missing 09:30-10:00 window")
	}
}

func TestExpandDaySkipsOtherWeekdays(t *testing.T) {
	expander := NewSlotExpander(1000)
	availability := appointmentAvailability(30, 1,
		entity.AvailabilityRow{DayOfWeek: 2, StartTime: "09:00", EndTime: "10:00"},
	)

	slots := expander.ExpandDay([]entity.Availability{availability}, nil, monday)
	if len(slots) != 0 {
		t.Errorf("expected no slots on a Monday for a Wednesday row, got %d", len(slots))
	}
}

func TestExpandDaySkipsNonAppointmentTypes(t *testing.T) {
	expander := NewSlotExpander(1000)
	availability := appointmentAvailability(30, 1,
		entity.AvailabilityRow{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"},
	)
	availability.SlotType = entity.SlotTypeOpen

	slots := expander.ExpandDay([]entity.Availability{availability}, nil, monday)
	if len(slots) != 0 {
		t.Errorf("expected open availability to generate no slots, got %d", len(slots))
	}
}

func TestExpandDayExceptionRemovesOverlappingWindows(t *testing.T) {
	expander := NewSlotExpander(1000)
	availability := appointmentAvailability(30, 1,
		entity.AvailabilityRow{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"},
	)

	// A 09:15-09:45 blackout touches both half-hour windows.
	slots := expander.ExpandDay(
		[]entity.Availability{availability},
		[]entity.AvailabilityException{exceptionOn(monday, "09:15", "09:45")},
		monday,
	)
	if len(slots) != 0 {
		t.Errorf("expected both windows suppressed, got %d", len(slots))
	}

	// A 09:30-10:30 blackout leaves the first window untouched: the
	// interval test is half-open, so sharing a boundary is not overlap.
	slots = expander.ExpandDay(
		[]entity.Availability{availability},
		[]entity.AvailabilityException{exceptionOn(monday, "09:30", "10:30")},
		monday,
	)
	if len(slots) != 1 {
		t.Fatalf("expected 1 surviving window, got %d", len(slots))
	}
	if _, ok := slots["09:00:00-09:30:00"]; !ok {
		t.Error("expected 09:00-09:30 to survive a 09:30-10:30 blackout")
	}
}

func TestExpandDayIgnoresExceptionOutsideDateRange(t *testing.T) {
	expander := NewSlotExpander(1000)
	availability := appointmentAvailability(30, 1,
		entity.AvailabilityRow{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"},
	)
	otherDay := monday.AddDate(0, 0, 7)

	slots := expander.ExpandDay(
		[]entity.Availability{availability},
		[]entity.AvailabilityException{exceptionOn(otherDay, "09:00", "10:00")},
		monday,
	)
	if len(slots) != 2 {
		t.Errorf("expected exception on another date to be ignored, got %d slots", len(slots))
	}
}

func TestExpandDayDuplicateWindowsLastWins(t *testing.T) {
	expander := NewSlotExpander(1000)
	first := appointmentAvailability(60, 1,
		entity.AvailabilityRow{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"},
	)
	second := appointmentAvailability(60, 3,
		entity.AvailabilityRow{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"},
	)

	slots := expander.ExpandDay([]entity.Availability{first, second}, nil, monday)
	if len(slots) != 1 {
		t.Fatalf("expected identical windows to collapse, got %d", len(slots))
	}
	got := slots["09:00:00-10:00:00"]
	if got.AvailabilityID != second.ID {
		t.Error("expected the later availability to keep the attribution")
	}
	if got.TokensPerSlot != 3 {
		t.Errorf("TokensPerSlot = %d, want 3", got.TokensPerSlot)
	}
}

func TestExpandDayTruncatesAtIterationCap(t *testing.T) {
	expander := NewSlotExpander(3)
	availability := appointmentAvailability(15, 1,
		entity.AvailabilityRow{DayOfWeek: 0, StartTime: "09:00", EndTime: "12:00"},
	)

	slots := expander.ExpandDay([]entity.Availability{availability}, nil, monday)
	if len(slots) != 3 {
		t.Errorf("expected generation to stop at the cap, got %d slots", len(slots))
	}
}

func TestDayCapacitySumsTokensPerSlot(t *testing.T) {
	expander := NewSlotExpander(1000)
	availability := appointmentAvailability(30, 4,
		entity.AvailabilityRow{DayOfWeek: 0, StartTime: "09:00", EndTime: "11:00"},
	)

	// 4 windows of 4 tokens each
	if got := expander.DayCapacity([]entity.Availability{availability}, nil, monday); got != 16 {
		t.Errorf("DayCapacity = %d, want 16", got)
	}

	if got := expander.DayCapacity(nil, nil, monday); got != 0 {
		t.Errorf("DayCapacity with no availabilities = %d, want 0", got)
	}
}

func TestSortCandidatesOrdersByStart(t *testing.T) {
	expander := NewSlotExpander(1000)
	availability := appointmentAvailability(30, 1,
		entity.AvailabilityRow{DayOfWeek: 0, StartTime: "14:00", EndTime: "15:00"},
		entity.AvailabilityRow{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"},
	)

	ordered := SortCandidates(expander.ExpandDay([]entity.Availability{availability}, nil, monday))
	if len(ordered) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(ordered))
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].StartDatetime.Before(ordered[i-1].StartDatetime) {
			t.Fatalf("candidates out of order at index %d", i)
		}
	}
}
