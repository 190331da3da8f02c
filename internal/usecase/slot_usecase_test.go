package usecase

import (
	"testing"
	"time"

	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/service"

	"github.com/google/uuid"
)

var slotDay = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func windowCandidate(availabilityID uuid.UUID, startHour, startMin, endHour, endMin int) service.CandidateSlot {
	return service.CandidateSlot{
		StartDatetime:  slotDay.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		EndDatetime:    slotDay.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
		AvailabilityID: availabilityID,
		TokensPerSlot:  4,
	}
}

func windowSlot(availabilityID uuid.UUID, startHour, startMin, endHour, endMin int, deleted bool) entity.TokenSlot {
	return entity.TokenSlot{
		ID:             uuid.New(),
		ResourceID:     uuid.New(),
		AvailabilityID: &availabilityID,
		StartDatetime:  slotDay.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		EndDatetime:    slotDay.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
		Deleted:        deleted,
	}
}

func candidateMap(candidates ...service.CandidateSlot) map[string]service.CandidateSlot {
	m := make(map[string]service.CandidateSlot, len(candidates))
	for _, c := range candidates {
		m[c.Key()] = c
	}
	return m
}

func TestReconcileSlotsLiveMatchPrunesCandidate(t *testing.T) {
	availabilityID := uuid.New()
	candidates := candidateMap(windowCandidate(availabilityID, 9, 0, 9, 30))
	existing := []entity.TokenSlot{windowSlot(availabilityID, 9, 0, 9, 30, false)}

	revive := reconcileSlots(existing, candidates)

	if len(candidates) != 0 {
		t.Errorf("expected live slot to prune its candidate, %d left", len(candidates))
	}
	if len(revive) != 0 {
		t.Errorf("expected nothing to revive, got %d", len(revive))
	}
}

func TestReconcileSlotsRevivesTombstonedWindow(t *testing.T) {
	// An exception soft-deletes the 09:00 slot; after the exception is
	// removed the window comes back as a candidate and the tombstone
	// must be revived, not recreated.
	availabilityID := uuid.New()
	candidates := candidateMap(
		windowCandidate(availabilityID, 9, 0, 9, 30),
		windowCandidate(availabilityID, 9, 30, 10, 0),
	)
	tombstone := windowSlot(availabilityID, 9, 0, 9, 30, true)
	existing := []entity.TokenSlot{tombstone}

	revive := reconcileSlots(existing, candidates)

	if len(revive) != 1 || revive[0].ID != tombstone.ID {
		t.Fatalf("expected the tombstone to be revived, got %v", revive)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected only the unmaterialized window to remain, %d left", len(candidates))
	}
	if _, ok := candidates["09:30:00-10:00:00"]; !ok {
		t.Errorf("expected the 09:30 window to survive reconciliation")
	}
}

func TestReconcileSlotsLiveRowWinsOverTombstone(t *testing.T) {
	availabilityID := uuid.New()
	candidates := candidateMap(windowCandidate(availabilityID, 9, 0, 9, 30))
	existing := []entity.TokenSlot{
		windowSlot(availabilityID, 9, 0, 9, 30, true),
		windowSlot(availabilityID, 9, 0, 9, 30, false),
	}

	revive := reconcileSlots(existing, candidates)

	if len(revive) != 0 {
		t.Errorf("expected no revival when a live row already holds the window, got %d", len(revive))
	}
	if len(candidates) != 0 {
		t.Errorf("expected the candidate to be pruned by the live row, %d left", len(candidates))
	}
}

func TestReconcileSlotsIgnoresOtherAvailability(t *testing.T) {
	candidates := candidateMap(windowCandidate(uuid.New(), 9, 0, 9, 30))

	otherAvailability := windowSlot(uuid.New(), 9, 0, 9, 30, true)
	noAvailability := otherAvailability
	noAvailability.ID = uuid.New()
	noAvailability.AvailabilityID = nil
	existing := []entity.TokenSlot{otherAvailability, noAvailability}

	revive := reconcileSlots(existing, candidates)

	if len(revive) != 0 {
		t.Errorf("expected no revival across availabilities, got %d", len(revive))
	}
	if len(candidates) != 1 {
		t.Errorf("expected the candidate to survive, %d left", len(candidates))
	}
}

func TestReconcileSlotsIgnoresUnwantedRows(t *testing.T) {
	availabilityID := uuid.New()
	candidates := candidateMap(windowCandidate(availabilityID, 9, 0, 9, 30))
	existing := []entity.TokenSlot{
		windowSlot(availabilityID, 14, 0, 14, 30, false),
		windowSlot(availabilityID, 15, 0, 15, 30, true),
	}

	revive := reconcileSlots(existing, candidates)

	if len(revive) != 0 {
		t.Errorf("expected rows outside the candidate set to be ignored, got %d revivals", len(revive))
	}
	if len(candidates) != 1 {
		t.Errorf("expected the candidate to survive, %d left", len(candidates))
	}
}
