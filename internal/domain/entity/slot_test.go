package entity

import (
	"testing"
	"time"
)

func TestSlotDocumentIDZeroPadded(t *testing.T) {
	date := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	got := SlotDocumentID("arena-1", date, time.UTC)
	if got != "arena-1_2026-03-05" {
		t.Fatalf("id = %q, want arena-1_2026-03-05", got)
	}
}

func TestSlotDocumentIDUsesLocation(t *testing.T) {
	// 23:30 UTC is already the next day in a +02:00 zone; the key must
	// follow the booking zone, not UTC.
	loc := time.FixedZone("EET", 2*60*60)
	date := time.Date(2026, 3, 5, 23, 30, 0, 0, time.UTC)
	got := SlotDocumentID("arena-1", date, loc)
	if got != "arena-1_2026-03-06" {
		t.Fatalf("id = %q, want arena-1_2026-03-06", got)
	}
}

func TestNewEmptyDaySlot(t *testing.T) {
	date := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	slot := NewEmptyDaySlot("paddock-2", date, time.UTC)
	if slot.FacilityID != "paddock-2" || slot.Date != "2026-03-05" {
		t.Fatalf("unexpected slot %+v", slot)
	}
	if slot.CurrentBookings == nil || len(slot.CurrentBookings) != 0 {
		t.Fatalf("currentBookings must be empty, got %+v", slot.CurrentBookings)
	}
}

func TestBookingUpdateApplyMergesShallowly(t *testing.T) {
	entry := SlotBookingEntry{
		ReservationID: "r1",
		StartTime:     time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2026, 3, 5, 11, 0, 0, 0, time.UTC),
		HorseCount:    3,
		UserID:        "user-1",
		Status:        BookingStatusConfirmed,
	}

	status := BookingStatusCancelled
	got := BookingUpdate{Status: &status}.Apply(entry)
	if got.Status != BookingStatusCancelled {
		t.Fatalf("status = %s, want cancelled", got.Status)
	}
	if !got.StartTime.Equal(entry.StartTime) || got.HorseCount != 3 || got.UserID != "user-1" {
		t.Fatalf("unset fields changed: %+v", got)
	}
	// The original is untouched.
	if entry.Status != BookingStatusConfirmed {
		t.Fatalf("Apply mutated its input: %+v", entry)
	}

	newStart := entry.StartTime.Add(30 * time.Minute)
	horses := 5
	got = BookingUpdate{StartTime: &newStart, HorseCount: &horses}.Apply(entry)
	if !got.StartTime.Equal(newStart) || got.HorseCount != 5 {
		t.Fatalf("set fields not applied: %+v", got)
	}
	if !got.EndTime.Equal(entry.EndTime) || got.Status != BookingStatusConfirmed {
		t.Fatalf("unset fields changed: %+v", got)
	}
}

func TestCountsTowardCapacity(t *testing.T) {
	cases := map[string]bool{
		BookingStatusPending:   true,
		BookingStatusConfirmed: true,
		BookingStatusCancelled: false,
		BookingStatusRejected:  false,
	}
	for status, want := range cases {
		e := SlotBookingEntry{Status: status}
		if e.CountsTowardCapacity() != want {
			t.Fatalf("status %s: counts = %v, want %v", status, !want, want)
		}
	}
}
