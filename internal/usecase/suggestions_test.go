package usecase

import (
	"reflect"
	"testing"
	"time"

	"stablebook-service/internal/domain/entity"
)

func TestFindSuggestedSlotsAroundFullHour(t *testing.T) {
	// 14:00-15:00 is fully booked. Adjacent windows touching it are also
	// rejected by the conservative tie-break, so the nearest valid
	// windows sit a full half hour clear of the booking.
	slot := slotWith(booking("r1", at(14, 0), at(15, 0), 5, entity.BookingStatusConfirmed))

	got := FindSuggestedSlots(slot, at(14, 0), at(15, 0), 5, 5, 3, time.UTC)
	if len(got) != 3 {
		t.Fatalf("got %d suggestions, want 3: %+v", len(got), got)
	}

	wantStarts := []time.Time{at(15, 30), at(12, 30), at(16, 0)}
	for i, w := range wantStarts {
		if !got[i].StartTime.Equal(w) {
			t.Fatalf("suggestion %d starts %v, want %v", i, got[i].StartTime, w)
		}
	}
	for i, s := range got {
		if d := s.EndTime.Sub(s.StartTime); d != time.Hour {
			t.Fatalf("suggestion %d duration %v, want 1h", i, d)
		}
		if s.RemainingCapacity != 0 {
			t.Fatalf("suggestion %d remaining %d, want 0", i, s.RemainingCapacity)
		}
	}
}

func TestFindSuggestedSlotsDeterministic(t *testing.T) {
	slot := slotWith(
		booking("r1", at(14, 0), at(15, 0), 5, entity.BookingStatusConfirmed),
		booking("r2", at(16, 0), at(17, 0), 3, entity.BookingStatusConfirmed),
	)
	first := FindSuggestedSlots(slot, at(14, 0), at(15, 0), 4, 5, 3, time.UTC)
	for i := 0; i < 5; i++ {
		again := FindSuggestedSlots(slot, at(14, 0), at(15, 0), 4, 5, 3, time.UTC)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
}

func TestFindSuggestedSlotsForwardTieWins(t *testing.T) {
	// With an empty slot every candidate passes; the 30-minute forward
	// and backward offsets tie on distance and the forward one must come
	// first.
	got := FindSuggestedSlots(slotWith(), at(12, 0), at(13, 0), 2, 5, 2, time.UTC)
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}
	if !got[0].StartTime.Equal(at(12, 30)) {
		t.Fatalf("first suggestion starts %v, want forward 12:30", got[0].StartTime)
	}
	if !got[1].StartTime.Equal(at(11, 30)) {
		t.Fatalf("second suggestion starts %v, want backward 11:30", got[1].StartTime)
	}
}

func TestFindSuggestedSlotsRespectsEveningBound(t *testing.T) {
	// Requested 21:00; the first forward offset already reaches 21:30,
	// the second would start at 22:00 and stops the forward scan.
	got := FindSuggestedSlots(slotWith(), at(21, 0), at(22, 0), 2, 5, 10, time.UTC)
	for _, s := range got {
		if s.StartTime.Hour() >= 22 {
			t.Fatalf("suggestion starts at %v, past the 22:00 bound", s.StartTime)
		}
	}
	// 21:30 forward plus 8 backward offsets back to 17:00.
	if len(got) != 9 {
		t.Fatalf("got %d suggestions, want 9", len(got))
	}
}

func TestFindSuggestedSlotsRespectsMorningBound(t *testing.T) {
	// Requested 06:30; the first backward offset reaches 06:00, the
	// second would start at 05:30 and stops the backward scan.
	got := FindSuggestedSlots(slotWith(), at(6, 30), at(7, 30), 2, 5, 30, time.UTC)
	for _, s := range got {
		if s.StartTime.Hour() < 6 {
			t.Fatalf("suggestion starts at %v, before the 06:00 bound", s.StartTime)
		}
	}
	// 16 forward offsets plus the single 06:00 backward one.
	if len(got) != 17 {
		t.Fatalf("got %d suggestions, want 17", len(got))
	}
}

func TestFindSuggestedSlotsDefaultsMaxSuggestions(t *testing.T) {
	got := FindSuggestedSlots(slotWith(), at(12, 0), at(13, 0), 2, 5, 0, time.UTC)
	if len(got) != DefaultMaxSuggestions {
		t.Fatalf("got %d suggestions, want default %d", len(got), DefaultMaxSuggestions)
	}
}
