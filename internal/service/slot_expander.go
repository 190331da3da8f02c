package service

import (
	"sort"
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

// CandidateSlot is a theoretical bookable window computed from an
// availability pattern, before it is reconciled against persisted slots.
type CandidateSlot struct {
	StartDatetime  time.Time
	EndDatetime    time.Time
	AvailabilityID uuid.UUID
	TokensPerSlot  int
}

// Key identifies the window by its clock times only; two availabilities
// producing the same window collapse onto one key.
func (c CandidateSlot) Key() string {
	return c.StartDatetime.Format("15:04:05") + "-" + c.EndDatetime.Format("15:04:05")
}

// SlotExpander turns recurring weekly availability definitions plus
// date-ranged blackout exceptions into concrete windows for a given
// day. It is pure: no persistence, no clock reads.
type SlotExpander struct {
	// Failsafe against malformed data (e.g. zero-advance steps);
	// generation truncates rather than erroring when exceeded.
	maxSlotsPerAvailability int
}

func NewSlotExpander(maxSlotsPerAvailability int) *SlotExpander {
	return &SlotExpander{maxSlotsPerAvailability: maxSlotsPerAvailability}
}

// ExpandDay computes the surviving candidate windows for day, keyed by
// their start/end clock times. When two availabilities emit the same
// window, the one processed last keeps the attribution.
func (e *SlotExpander) ExpandDay(availabilities []entity.Availability, exceptions []entity.AvailabilityException, day time.Time) map[string]CandidateSlot {
	slots := map[string]CandidateSlot{}
	dow := entity.ISOWeekday(day)
	date := entity.DateOf(day)

	dayExceptions := exceptionsForDay(exceptions, day)

	for _, availability := range availabilities {
		if availability.SlotType != entity.SlotTypeAppointment || availability.SlotSizeInMinutes <= 0 {
			continue
		}
		slotSize := time.Duration(availability.SlotSizeInMinutes) * time.Minute
		for _, row := range availability.RowsForWeekday(dow) {
			startClock, err := entity.ParseClock(row.StartTime)
			if err != nil {
				continue
			}
			endClock, err := entity.ParseClock(row.EndTime)
			if err != nil {
				continue
			}
			current := date.Add(startClock)
			end := date.Add(endClock)

			for i := 0; current.Before(end); i++ {
				if i == e.maxSlotsPerAvailability {
					break
				}
				windowEnd := current.Add(slotSize)
				if !overlapsAny(dayExceptions, date, current, windowEnd) {
					candidate := CandidateSlot{
						StartDatetime:  current,
						EndDatetime:    windowEnd,
						AvailabilityID: availability.ID,
						TokensPerSlot:  availability.TokensPerSlot,
					}
					slots[candidate.Key()] = candidate
				}
				current = windowEnd
			}
		}
	}
	return slots
}

// DayCapacity sums tokens_per_slot over every surviving window for day.
// Used by availability stats so capacity is reported even for days that
// were never materialized.
func (e *SlotExpander) DayCapacity(availabilities []entity.Availability, exceptions []entity.AvailabilityException, day time.Time) int {
	total := 0
	for _, candidate := range e.ExpandDay(availabilities, exceptions, day) {
		total += candidate.TokensPerSlot
	}
	return total
}

// SortCandidates orders candidates by start time for stable responses
func SortCandidates(candidates map[string]CandidateSlot) []CandidateSlot {
	ordered := make([]CandidateSlot, 0, len(candidates))
	for _, c := range candidates {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StartDatetime.Before(ordered[j].StartDatetime)
	})
	return ordered
}

func exceptionsForDay(exceptions []entity.AvailabilityException, day time.Time) []entity.AvailabilityException {
	var matched []entity.AvailabilityException
	for i := range exceptions {
		if exceptions[i].ContainsDate(day) {
			matched = append(matched, exceptions[i])
		}
	}
	return matched
}

// overlapsAny applies the half-open interval test
// exc.start < window.end && exc.end > window.start against every
// exception active on the day.
func overlapsAny(exceptions []entity.AvailabilityException, date, windowStart, windowEnd time.Time) bool {
	for _, exc := range exceptions {
		excStartClock, err := entity.ParseClock(exc.StartTime)
		if err != nil {
			continue
		}
		excEndClock, err := entity.ParseClock(exc.EndTime)
		if err != nil {
			continue
		}
		excStart := date.Add(excStartClock)
		excEnd := date.Add(excEndClock)
		if excStart.Before(windowEnd) && excEnd.After(windowStart) {
			return true
		}
	}
	return false
}
