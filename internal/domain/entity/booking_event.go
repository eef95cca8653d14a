package entity

import "time"

// Routing keys for booking lifecycle events.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingRejected  = "booking.rejected"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload published for every booking lifecycle change.
// Consumers (notification delivery, invoicing) live in other services; this
// service only publishes. Times are RFC 3339 strings on the wire.
type BookingEvent struct {
	ReservationID string    `json:"reservationId"`
	FacilityID    string    `json:"facilityId"`
	UserID        string    `json:"userId"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	HorseCount    int       `json:"horseCount"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}
