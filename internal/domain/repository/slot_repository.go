package repository

import (
	"context"
	"errors"
	"time"

	"stablebook-service/internal/domain/entity"
)

// ErrReservationNotFound is returned by the update and remove mutators when
// no entry in the slot carries the requested reservation id.
var ErrReservationNotFound = errors.New("reservation not found in slot")

// SlotTxn is the transaction-scoped view of the slot document store. All
// methods stage reads and writes against one underlying storage transaction;
// nothing becomes durable unless the transaction commits. ReadSlot synthesizes
// an empty default for a (facility, date) pair that has never been written —
// it does not create the document.
//
// The mutators always write back the full currentBookings array together with
// a refreshed lastModified, using merge semantics so unrelated document fields
// survive and so a write against a just-synthesized default is an upsert. None
// of them validate capacity; that is the caller's job before mutating.
type SlotTxn interface {
	ReadSlot(facilityID string, date time.Time) (*entity.FacilityDaySlot, error)
	AddBooking(slot *entity.FacilityDaySlot, booking entity.SlotBookingEntry) error
	UpdateBooking(slot *entity.FacilityDaySlot, reservationID string, update entity.BookingUpdate) error
	RemoveBooking(slot *entity.FacilityDaySlot, reservationID string) error
}

// SlotRepository provides transactional access to facility day-slot documents.
type SlotRepository interface {
	// WithTransaction runs fn inside one storage transaction. Concurrent
	// transactions touching the same slot document conflict and are retried
	// or serialized by the storage layer; fn must therefore be safe to run
	// more than once. Returning an error from fn aborts the transaction.
	WithTransaction(ctx context.Context, fn func(txn SlotTxn) error) error

	// GetSlot reads a slot document outside any transaction, for display
	// surfaces that never write. Missing documents synthesize an empty slot.
	GetSlot(ctx context.Context, facilityID string, date time.Time) (*entity.FacilityDaySlot, error)
}
