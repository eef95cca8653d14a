package entity

import (
	"fmt"
	"time"
)

// Booking lifecycle status
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusRejected  = "rejected"
)

// FacilityDaySlot aggregates every booking for one facility on one calendar
// day. The document id is the composite "{facilityId}_{YYYY-MM-DD}", so two
// transactions booking the same facility and date always touch the same
// document and serialize on it.
type FacilityDaySlot struct {
	FacilityID      string             `bson:"facilityId" json:"facilityId"`
	Date            string             `bson:"date" json:"date"`
	CurrentBookings []SlotBookingEntry `bson:"currentBookings" json:"currentBookings"`
	LastModified    time.Time          `bson:"lastModified" json:"lastModified"`
}

// SlotBookingEntry is one booking's footprint inside a day slot. The interval
// is half-open: [StartTime, EndTime).
type SlotBookingEntry struct {
	ReservationID string    `bson:"reservationId" json:"reservationId"`
	StartTime     time.Time `bson:"startTime" json:"startTime"`
	EndTime       time.Time `bson:"endTime" json:"endTime"`
	HorseCount    int       `bson:"horseCount" json:"horseCount"`
	UserID        string    `bson:"userId" json:"userId"`
	Status        string    `bson:"status" json:"status"`
}

// CountsTowardCapacity reports whether the entry occupies capacity. Cancelled
// and rejected entries stay in the list for audit but stop counting.
func (e SlotBookingEntry) CountsTowardCapacity() bool {
	return e.Status != BookingStatusCancelled && e.Status != BookingStatusRejected
}

// BookingUpdate carries a partial update for one booking entry. Nil fields are
// left untouched; set fields shallow-merge over the existing entry.
type BookingUpdate struct {
	StartTime  *time.Time
	EndTime    *time.Time
	HorseCount *int
	Status     *string
}

// Apply merges the update into a copy of the entry and returns it.
func (u BookingUpdate) Apply(e SlotBookingEntry) SlotBookingEntry {
	if u.StartTime != nil {
		e.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		e.EndTime = *u.EndTime
	}
	if u.HorseCount != nil {
		e.HorseCount = *u.HorseCount
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
	return e
}

// SlotDocumentID builds the deterministic document key for a facility and
// calendar day. The date is rendered zero-padded in the given location, so
// callers can compute the key without a lookup.
func SlotDocumentID(facilityID string, date time.Time, loc *time.Location) string {
	return fmt.Sprintf("%s_%s", facilityID, date.In(loc).Format("2006-01-02"))
}

// NewEmptyDaySlot synthesizes the default document used when a (facility,
// date) pair has never been booked. It is never written by the read path.
func NewEmptyDaySlot(facilityID string, date time.Time, loc *time.Location) *FacilityDaySlot {
	return &FacilityDaySlot{
		FacilityID:      facilityID,
		Date:            date.In(loc).Format("2006-01-02"),
		CurrentBookings: []SlotBookingEntry{},
		LastModified:    time.Now(),
	}
}
