package usecase

import (
	"testing"
	"time"

	"stablebook-service/internal/domain/entity"
)

// at builds a timestamp on a fixed test day.
func at(hour, min int) time.Time {
	return time.Date(2026, 9, 14, hour, min, 0, 0, time.UTC)
}

func slotWith(entries ...entity.SlotBookingEntry) *entity.FacilityDaySlot {
	return &entity.FacilityDaySlot{
		FacilityID:      "arena-1",
		Date:            "2026-09-14",
		CurrentBookings: entries,
		LastModified:    at(0, 0),
	}
}

func booking(id string, start, end time.Time, horses int, status string) entity.SlotBookingEntry {
	return entity.SlotBookingEntry{
		ReservationID: id,
		StartTime:     start,
		EndTime:       end,
		HorseCount:    horses,
		UserID:        "user-1",
		Status:        status,
	}
}

func TestValidateCapacityEmptySlot(t *testing.T) {
	res := ValidateCapacity(slotWith(), at(10, 0), at(11, 0), 3, 5, "")
	if !res.Valid {
		t.Fatalf("expected valid, got %+v", res)
	}
	if res.PeakConcurrent != 3 {
		t.Fatalf("peak = %d, want 3", res.PeakConcurrent)
	}
	if res.RemainingCapacity != 2 {
		t.Fatalf("remaining = %d, want 2", res.RemainingCapacity)
	}
	if res.PeakTime == nil || !res.PeakTime.Equal(at(10, 0)) {
		t.Fatalf("peakTime = %v, want 10:00", res.PeakTime)
	}
}

func TestValidateCapacityOverlapExceeds(t *testing.T) {
	slot := slotWith(booking("r1", at(9, 30), at(10, 30), 4, entity.BookingStatusConfirmed))
	res := ValidateCapacity(slot, at(10, 0), at(11, 0), 2, 5, "")
	if res.Valid {
		t.Fatalf("expected rejection, got %+v", res)
	}
	if res.PeakConcurrent != 6 {
		t.Fatalf("peak = %d, want 6", res.PeakConcurrent)
	}
	if res.RemainingCapacity != 0 {
		t.Fatalf("remaining = %d, want 0", res.RemainingCapacity)
	}
	if res.PeakTime == nil || !res.PeakTime.Equal(at(10, 0)) {
		t.Fatalf("peakTime = %v, want 10:00", res.PeakTime)
	}
}

func TestValidateCapacityCancelledAndRejectedExcluded(t *testing.T) {
	for _, status := range []string{entity.BookingStatusCancelled, entity.BookingStatusRejected} {
		slot := slotWith(booking("r1", at(9, 30), at(10, 30), 4, status))
		res := ValidateCapacity(slot, at(10, 0), at(11, 0), 2, 5, "")
		if !res.Valid {
			t.Fatalf("status %s: expected valid, got %+v", status, res)
		}
		if res.PeakConcurrent != 2 {
			t.Fatalf("status %s: peak = %d, want 2", status, res.PeakConcurrent)
		}
	}
}

// A booking ending exactly when the candidate starts still counts as
// momentarily coexisting with it: START sorts before END at equal instants.
func TestValidateCapacityBackToBackIsConservative(t *testing.T) {
	slot := slotWith(booking("r1", at(9, 0), at(10, 0), 5, entity.BookingStatusConfirmed))
	res := ValidateCapacity(slot, at(10, 0), at(11, 0), 5, 5, "")
	if res.Valid {
		t.Fatalf("expected rejection for back-to-back full-capacity bookings, got %+v", res)
	}
	if res.PeakConcurrent != 10 {
		t.Fatalf("peak = %d, want 10", res.PeakConcurrent)
	}
	if res.PeakTime == nil || !res.PeakTime.Equal(at(10, 0)) {
		t.Fatalf("peakTime = %v, want 10:00", res.PeakTime)
	}
}

func TestValidateCapacitySelfExclusion(t *testing.T) {
	slot := slotWith(booking("r1", at(10, 0), at(11, 0), 5, entity.BookingStatusConfirmed))

	// Without exclusion the edited booking collides with its own entry.
	res := ValidateCapacity(slot, at(10, 30), at(11, 30), 5, 5, "")
	if res.Valid {
		t.Fatalf("expected collision without exclusion, got %+v", res)
	}

	res = ValidateCapacity(slot, at(10, 30), at(11, 30), 5, 5, "r1")
	if !res.Valid {
		t.Fatalf("expected valid with self-exclusion, got %+v", res)
	}
	if res.PeakConcurrent != 5 {
		t.Fatalf("peak = %d, want 5", res.PeakConcurrent)
	}
}

func TestValidateCapacityNonOverlappingIgnored(t *testing.T) {
	slot := slotWith(
		booking("r1", at(6, 0), at(8, 0), 5, entity.BookingStatusConfirmed),
		booking("r2", at(12, 0), at(14, 0), 5, entity.BookingStatusConfirmed),
	)
	res := ValidateCapacity(slot, at(9, 0), at(11, 0), 4, 5, "")
	if !res.Valid {
		t.Fatalf("expected valid, got %+v", res)
	}
	if res.PeakConcurrent != 4 {
		t.Fatalf("peak = %d, want 4", res.PeakConcurrent)
	}
}

func TestValidateCapacityZeroHorseEntriesSkipped(t *testing.T) {
	slot := slotWith(booking("r1", at(10, 0), at(11, 0), 0, entity.BookingStatusConfirmed))
	res := ValidateCapacity(slot, at(10, 0), at(11, 0), 3, 5, "")
	if !res.Valid || res.PeakConcurrent != 3 {
		t.Fatalf("zero-horse entry affected sweep: %+v", res)
	}

	// A zero-horse candidate against an empty slot produces no events.
	res = ValidateCapacity(slotWith(), at(10, 0), at(11, 0), 0, 5, "")
	if !res.Valid || res.PeakConcurrent != 0 {
		t.Fatalf("expected trivial accept, got %+v", res)
	}
	if res.PeakTime != nil {
		t.Fatalf("peakTime = %v, want nil with no events", res.PeakTime)
	}
}

func TestValidateCapacityPeakTimeIsEarliest(t *testing.T) {
	// Peak of 4 is reached at 10:00 and again at 12:00; the earlier
	// instant is reported.
	slot := slotWith(
		booking("r1", at(10, 0), at(11, 0), 2, entity.BookingStatusConfirmed),
		booking("r2", at(12, 0), at(13, 0), 2, entity.BookingStatusConfirmed),
	)
	res := ValidateCapacity(slot, at(9, 0), at(14, 0), 2, 5, "")
	if !res.Valid {
		t.Fatalf("expected valid, got %+v", res)
	}
	if res.PeakConcurrent != 4 {
		t.Fatalf("peak = %d, want 4", res.PeakConcurrent)
	}
	if res.PeakTime == nil || !res.PeakTime.Equal(at(10, 0)) {
		t.Fatalf("peakTime = %v, want 10:00", res.PeakTime)
	}
}

func TestValidateCapacityResultConsistency(t *testing.T) {
	slot := slotWith(
		booking("r1", at(9, 0), at(12, 0), 3, entity.BookingStatusConfirmed),
		booking("r2", at(10, 0), at(11, 0), 2, entity.BookingStatusConfirmed),
	)
	for _, maxCapacity := range []int{1, 5, 6, 7, 20} {
		res := ValidateCapacity(slot, at(10, 0), at(11, 0), 2, maxCapacity, "")
		if res.Valid != (res.PeakConcurrent <= maxCapacity) {
			t.Fatalf("cap %d: valid=%v inconsistent with peak %d", maxCapacity, res.Valid, res.PeakConcurrent)
		}
		want := maxCapacity - res.PeakConcurrent
		if want < 0 {
			want = 0
		}
		if res.RemainingCapacity != want {
			t.Fatalf("cap %d: remaining = %d, want %d", maxCapacity, res.RemainingCapacity, want)
		}
	}
}
