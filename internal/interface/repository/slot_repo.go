package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stablebook-service/internal/domain/entity"
	"stablebook-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSlotRepository implements the SlotRepository interface on top of a
// facility_day_slots collection. One document per (facility, date) pair; the
// deterministic _id doubles as the serialization point for concurrent booking
// transactions — two transactions writing the same document conflict, and the
// driver retries the whole callback on transient transaction errors.
type MongoSlotRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	loc        *time.Location
}

// daySlotDocument is the persisted shape of a FacilityDaySlot. The _id is the
// composite key; the remaining fields mirror the entity.
type daySlotDocument struct {
	ID              string                    `bson:"_id"`
	FacilityID      string                    `bson:"facilityId"`
	Date            string                    `bson:"date"`
	CurrentBookings []entity.SlotBookingEntry `bson:"currentBookings"`
	LastModified    time.Time                 `bson:"lastModified"`
}

// NewMongoSlotRepository creates a new MongoDB slot repository. Dates in
// document keys are rendered in loc.
func NewMongoSlotRepository(client *mongo.Client, db *mongo.Database, loc *time.Location) repository.SlotRepository {
	collection := db.Collection("facility_day_slots")

	// Secondary index for per-facility day listings; key lookups go
	// through _id.
	ctx := context.Background()
	facilityDateIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "facilityId", Value: 1},
			{Key: "date", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, facilityDateIndex)

	return &MongoSlotRepository{
		client:     client,
		collection: collection,
		loc:        loc,
	}
}

// WithTransaction runs fn inside one mongo session transaction. The driver
// retries fn on transient transaction errors (write conflicts on the slot
// document), so fn re-reads and re-validates on every attempt.
func (r *MongoSlotRepository) WithTransaction(ctx context.Context, fn func(txn repository.SlotTxn) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&mongoSlotTxn{sc: sc, repo: r})
	})
	return err
}

// GetSlot reads a slot document outside any transaction, synthesizing an
// empty default when the document does not exist.
func (r *MongoSlotRepository) GetSlot(ctx context.Context, facilityID string, date time.Time) (*entity.FacilityDaySlot, error) {
	return r.readSlot(ctx, facilityID, date)
}

func (r *MongoSlotRepository) readSlot(ctx context.Context, facilityID string, date time.Time) (*entity.FacilityDaySlot, error) {
	id := entity.SlotDocumentID(facilityID, date, r.loc)

	var doc daySlotDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Synthesize the default without writing it; read-only
			// callers must not create documents.
			return entity.NewEmptyDaySlot(facilityID, date, r.loc), nil
		}
		return nil, fmt.Errorf("failed to read slot %s: %w", id, err)
	}

	slot := &entity.FacilityDaySlot{
		FacilityID:      doc.FacilityID,
		Date:            doc.Date,
		CurrentBookings: doc.CurrentBookings,
		LastModified:    doc.LastModified,
	}
	if slot.CurrentBookings == nil {
		slot.CurrentBookings = []entity.SlotBookingEntry{}
	}
	return slot, nil
}

// mongoSlotTxn stages reads and writes against one session transaction.
type mongoSlotTxn struct {
	sc   mongo.SessionContext
	repo *MongoSlotRepository
}

// ReadSlot reads the slot document for a facility and date within the
// transaction.
func (t *mongoSlotTxn) ReadSlot(facilityID string, date time.Time) (*entity.FacilityDaySlot, error) {
	return t.repo.readSlot(t.sc, facilityID, date)
}

// AddBooking appends the entry and writes the updated booking list back.
func (t *mongoSlotTxn) AddBooking(slot *entity.FacilityDaySlot, booking entity.SlotBookingEntry) error {
	bookings := make([]entity.SlotBookingEntry, 0, len(slot.CurrentBookings)+1)
	bookings = append(bookings, slot.CurrentBookings...)
	bookings = append(bookings, booking)
	return t.writeBookings(slot, bookings)
}

// UpdateBooking shallow-merges the update into the entry matching
// reservationID and writes the list back. Non-matching entries are untouched.
func (t *mongoSlotTxn) UpdateBooking(slot *entity.FacilityDaySlot, reservationID string, update entity.BookingUpdate) error {
	matched := false
	bookings := make([]entity.SlotBookingEntry, len(slot.CurrentBookings))
	for i, b := range slot.CurrentBookings {
		if b.ReservationID == reservationID {
			bookings[i] = update.Apply(b)
			matched = true
			continue
		}
		bookings[i] = b
	}
	if !matched {
		return fmt.Errorf("%w: %s", repository.ErrReservationNotFound, reservationID)
	}
	return t.writeBookings(slot, bookings)
}

// RemoveBooking filters out the entry matching reservationID and writes the
// list back.
func (t *mongoSlotTxn) RemoveBooking(slot *entity.FacilityDaySlot, reservationID string) error {
	matched := false
	bookings := make([]entity.SlotBookingEntry, 0, len(slot.CurrentBookings))
	for _, b := range slot.CurrentBookings {
		if b.ReservationID == reservationID {
			matched = true
			continue
		}
		bookings = append(bookings, b)
	}
	if !matched {
		return fmt.Errorf("%w: %s", repository.ErrReservationNotFound, reservationID)
	}
	return t.writeBookings(slot, bookings)
}

// writeBookings stages the full booking list plus a refreshed lastModified
// with merge semantics. Upsert covers the first write against a slot that so
// far only exists as a synthesized default.
func (t *mongoSlotTxn) writeBookings(slot *entity.FacilityDaySlot, bookings []entity.SlotBookingEntry) error {
	id := fmt.Sprintf("%s_%s", slot.FacilityID, slot.Date)
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"facilityId":      slot.FacilityID,
			"date":            slot.Date,
			"currentBookings": bookings,
			"lastModified":    now,
		},
	}

	_, err := t.repo.collection.UpdateOne(
		t.sc,
		bson.M{"_id": id},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", id, err)
	}

	slot.CurrentBookings = bookings
	slot.LastModified = now
	return nil
}
