package entity

import (
	"testing"
	"time"
)

func TestBookingStatusIsCancelledClass(t *testing.T) {
	cancelled := []BookingStatus{
		BookingStatusCancelled,
		BookingStatusRescheduled,
		BookingStatusEnteredInError,
		BookingStatusNoShow,
		BookingStatusFulfilled,
	}
	active := []BookingStatus{
		BookingStatusProposed,
		BookingStatusPending,
		BookingStatusBooked,
		BookingStatusArrived,
		BookingStatusCheckedIn,
		BookingStatusInConsultation,
		BookingStatusWaitlist,
	}

	for _, s := range cancelled {
		if !s.IsCancelledClass() {
			t.Errorf("expected %s to be cancelled-class", s)
		}
	}
	for _, s := range active {
		if s.IsCancelledClass() {
			t.Errorf("expected %s to hold a seat", s)
		}
	}
}

func TestBookingStatusIsCancelReason(t *testing.T) {
	tests := []struct {
		status BookingStatus
		want   bool
	}{
		{BookingStatusCancelled, true},
		{BookingStatusEnteredInError, true},
		{BookingStatusRescheduled, true},
		{BookingStatusNoShow, false},
		{BookingStatusFulfilled, false},
		{BookingStatusBooked, false},
		{BookingStatus("bogus"), false},
	}

	for _, tt := range tests {
		if got := tt.status.IsCancelReason(); got != tt.want {
			t.Errorf("IsCancelReason(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestCancelledClassStatusesMatchPredicate(t *testing.T) {
	listed := map[BookingStatus]bool{}
	for _, s := range CancelledClassStatuses() {
		listed[s] = true
		if !s.IsCancelledClass() {
			t.Errorf("listed status %s fails the predicate", s)
		}
	}

	all := []BookingStatus{
		BookingStatusProposed, BookingStatusPending, BookingStatusBooked,
		BookingStatusArrived, BookingStatusCheckedIn, BookingStatusInConsultation,
		BookingStatusFulfilled, BookingStatusCancelled, BookingStatusNoShow,
		BookingStatusEnteredInError, BookingStatusWaitlist, BookingStatusRescheduled,
	}
	for _, s := range all {
		if s.IsCancelledClass() && !listed[s] {
			t.Errorf("predicate accepts %s but it is not listed", s)
		}
	}
}

func TestTokenSlotIsPast(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	past := TokenSlot{EndDatetime: now.Add(-time.Minute)}
	ongoing := TokenSlot{EndDatetime: now.Add(time.Minute)}

	if !past.IsPast(now) {
		t.Error("expected ended slot to be past")
	}
	if ongoing.IsPast(now) {
		t.Error("expected ongoing slot not to be past")
	}
}
