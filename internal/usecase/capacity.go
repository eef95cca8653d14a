package usecase

import (
	"sort"
	"time"

	"stablebook-service/internal/domain/entity"
)

// CapacityResult reports the outcome of a capacity check across the candidate
// booking's window. PeakTime is the earliest instant at which PeakConcurrent
// was reached; it is nil only when the sweep saw no events at all (candidate
// with a zero horse count against an empty slot).
type CapacityResult struct {
	Valid             bool
	PeakConcurrent    int
	PeakTime          *time.Time
	RemainingCapacity int
}

type sweepEventKind int

const (
	sweepStart sweepEventKind = iota
	sweepEnd
)

type sweepEvent struct {
	at     time.Time
	kind   sweepEventKind
	horses int
}

// ValidateCapacity decides whether adding the candidate interval
// [candidateStart, candidateEnd) with candidateHorses horses keeps the
// facility's peak simultaneous horse count within maxCapacity, given the
// bookings already in the slot. excludeReservationID names an existing entry
// to leave out of the check, used when re-validating an edit to a booking so
// it cannot collide with itself; pass "" when adding a new booking.
//
// The check is a timeline sweep. At equal timestamps START events are ordered
// before END events, so a booking ending exactly when the candidate starts
// still counts as momentarily coexisting with it. Back-to-back bookings that
// together exceed capacity are rejected; that is deliberate.
//
// The function is pure and never fails; callers treat Valid == false as a
// capacity rejection, not an error.
func ValidateCapacity(slot *entity.FacilityDaySlot, candidateStart, candidateEnd time.Time, candidateHorses, maxCapacity int, excludeReservationID string) CapacityResult {
	events := make([]sweepEvent, 0, 2*(len(slot.CurrentBookings)+1))

	for _, b := range slot.CurrentBookings {
		if excludeReservationID != "" && b.ReservationID == excludeReservationID {
			continue
		}
		if !b.CountsTowardCapacity() {
			continue
		}
		// Entries outside the candidate window cannot raise concurrency
		// inside it. The filter keeps entries that merely touch the
		// window's edge: the tie-break below makes a booking ending at
		// the candidate's start coexist with it for that instant, so
		// dropping touching entries here would undo the tie-break.
		if candidateStart.After(b.EndTime) || candidateEnd.Before(b.StartTime) {
			continue
		}
		if b.HorseCount == 0 {
			continue
		}
		events = append(events,
			sweepEvent{at: b.StartTime, kind: sweepStart, horses: b.HorseCount},
			sweepEvent{at: b.EndTime, kind: sweepEnd, horses: b.HorseCount},
		)
	}
	if candidateHorses != 0 {
		events = append(events,
			sweepEvent{at: candidateStart, kind: sweepStart, horses: candidateHorses},
			sweepEvent{at: candidateEnd, kind: sweepEnd, horses: candidateHorses},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at.Equal(events[j].at) {
			return events[i].kind == sweepStart && events[j].kind == sweepEnd
		}
		return events[i].at.Before(events[j].at)
	})

	var (
		current  int
		peak     int
		peakTime *time.Time
	)
	for _, ev := range events {
		if ev.kind == sweepStart {
			current += ev.horses
		} else {
			current -= ev.horses
		}
		if current > peak || peakTime == nil {
			peak = current
			at := ev.at
			peakTime = &at
		}
	}

	remaining := maxCapacity - peak
	if remaining < 0 {
		remaining = 0
	}
	return CapacityResult{
		Valid:             peak <= maxCapacity,
		PeakConcurrent:    peak,
		PeakTime:          peakTime,
		RemainingCapacity: remaining,
	}
}
