package usecase

import (
	"context"
	"errors"
	"time"

	"stablebook-service/internal/domain/entity"
	"stablebook-service/internal/domain/repository"
	"stablebook-service/pkg/logger"
	"stablebook-service/pkg/metrics"

	"github.com/google/uuid"
)

// Input validation errors. Malformed intervals are rejected before any I/O so
// the validator never sees a degenerate sweep.
var (
	ErrInvalidInterval   = errors.New("booking end must be after start")
	ErrInvalidHorseCount = errors.New("horse count must be positive")
	ErrFacilityInactive  = errors.New("facility is not accepting bookings")
)

// BookingRequest describes one booking attempt.
type BookingRequest struct {
	FacilityID string
	UserID     string
	StartTime  time.Time
	EndTime    time.Time
	HorseCount int
}

// BookingResult is the outcome of a booking attempt. A capacity rejection is
// a normal result, not an error: Accepted is false, Reservation is nil and
// Suggestions carries up to maxSuggestions alternative windows.
type BookingResult struct {
	Accepted          bool
	Reservation       *entity.SlotBookingEntry
	PeakConcurrent    int
	RemainingCapacity int
	Suggestions       []SlotSuggestion
}

// BookingUsecase orchestrates the read-validate-write booking flow. All
// capacity decisions happen inside one slot-document transaction; the
// suggestion search runs afterwards on the snapshot the rejected check used.
type BookingUsecase struct {
	slotRepo       repository.SlotRepository
	facilityRepo   repository.FacilityRepository
	publisher      repository.EventPublisher
	metrics        *metrics.Metrics
	logger         logger.Logger
	loc            *time.Location
	maxSuggestions int
}

// NewBookingUsecase creates a new booking usecase
func NewBookingUsecase(
	slotRepo repository.SlotRepository,
	facilityRepo repository.FacilityRepository,
	publisher repository.EventPublisher,
	metrics *metrics.Metrics,
	logger logger.Logger,
	loc *time.Location,
	maxSuggestions int,
) *BookingUsecase {
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}
	return &BookingUsecase{
		slotRepo:       slotRepo,
		facilityRepo:   facilityRepo,
		publisher:      publisher,
		metrics:        metrics,
		logger:         logger,
		loc:            loc,
		maxSuggestions: maxSuggestions,
	}
}

// RequestBooking attempts to book the requested window. On success the entry
// is committed with a fresh reservation id and status confirmed; on capacity
// rejection the transaction writes nothing and the result carries the peak
// that was hit plus alternative windows.
func (u *BookingUsecase) RequestBooking(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if err := validateRequest(req.StartTime, req.EndTime, req.HorseCount); err != nil {
		return nil, err
	}
	u.metrics.BookingAttempts.Inc()

	facility, err := u.facilityRepo.GetByFacilityID(ctx, req.FacilityID)
	if err != nil {
		u.metrics.ErrorsCount.WithLabelValues("facility_lookup").Inc()
		return nil, err
	}
	if !facility.Active {
		return nil, ErrFacilityInactive
	}

	var (
		result   BookingResult
		snapshot *entity.FacilityDaySlot
	)
	started := time.Now()
	err = u.slotRepo.WithTransaction(ctx, func(txn repository.SlotTxn) error {
		slot, err := txn.ReadSlot(req.FacilityID, req.StartTime)
		if err != nil {
			return err
		}

		check := ValidateCapacity(slot, req.StartTime, req.EndTime, req.HorseCount, facility.MaxCapacity, "")
		if !check.Valid {
			// No write; the transaction commits empty. Keep the
			// snapshot so the finder works off the same data.
			snapshot = slot
			result = BookingResult{
				Accepted:          false,
				PeakConcurrent:    check.PeakConcurrent,
				RemainingCapacity: check.RemainingCapacity,
			}
			return nil
		}

		entry := entity.SlotBookingEntry{
			ReservationID: uuid.NewString(),
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			HorseCount:    req.HorseCount,
			UserID:        req.UserID,
			Status:        entity.BookingStatusConfirmed,
		}
		if err := txn.AddBooking(slot, entry); err != nil {
			return err
		}
		result = BookingResult{
			Accepted:          true,
			Reservation:       &entry,
			PeakConcurrent:    check.PeakConcurrent,
			RemainingCapacity: check.RemainingCapacity,
		}
		return nil
	})
	u.metrics.CapacityCheckTime.Observe(time.Since(started).Seconds())
	if err != nil {
		u.metrics.ErrorsCount.WithLabelValues("booking_txn").Inc()
		return nil, err
	}

	if !result.Accepted {
		u.metrics.BookingsRejected.Inc()
		result.Suggestions = FindSuggestedSlots(snapshot, req.StartTime, req.EndTime, req.HorseCount, facility.MaxCapacity, u.maxSuggestions, u.loc)
		u.metrics.SuggestionsReturned.Observe(float64(len(result.Suggestions)))
		u.logger.Info("booking rejected for capacity",
			"facilityId", req.FacilityID,
			"peak", result.PeakConcurrent,
			"maxCapacity", facility.MaxCapacity,
			"suggestions", len(result.Suggestions))
		u.publishEvent(ctx, entity.EventBookingRejected, entity.BookingEvent{
			FacilityID: req.FacilityID,
			UserID:     req.UserID,
			StartTime:  req.StartTime.Format(time.RFC3339),
			EndTime:    req.EndTime.Format(time.RFC3339),
			HorseCount: req.HorseCount,
			Status:     entity.BookingStatusRejected,
			OccurredAt: time.Now(),
		})
		return &result, nil
	}

	u.metrics.BookingsConfirmed.Inc()
	u.logger.Info("booking confirmed",
		"facilityId", req.FacilityID,
		"reservationId", result.Reservation.ReservationID,
		"horses", req.HorseCount)
	u.publishEvent(ctx, entity.EventBookingConfirmed, entity.BookingEvent{
		ReservationID: result.Reservation.ReservationID,
		FacilityID:    req.FacilityID,
		UserID:        req.UserID,
		StartTime:     req.StartTime.Format(time.RFC3339),
		EndTime:       req.EndTime.Format(time.RFC3339),
		HorseCount:    req.HorseCount,
		Status:        entity.BookingStatusConfirmed,
		OccurredAt:    time.Now(),
	})
	return &result, nil
}

// RescheduleBooking moves an existing booking to a new window on the same
// calendar day, re-validating capacity with the booking's own entry excluded
// so it cannot collide with itself. A capacity rejection again comes back as
// Accepted == false with suggestions.
func (u *BookingUsecase) RescheduleBooking(ctx context.Context, facilityID, reservationID string, newStart, newEnd time.Time) (*BookingResult, error) {
	var horseCount int
	if err := validateRequest(newStart, newEnd, 1); err != nil {
		return nil, err
	}

	facility, err := u.facilityRepo.GetByFacilityID(ctx, facilityID)
	if err != nil {
		u.metrics.ErrorsCount.WithLabelValues("facility_lookup").Inc()
		return nil, err
	}

	var (
		result   BookingResult
		snapshot *entity.FacilityDaySlot
		moved    *entity.SlotBookingEntry
	)
	err = u.slotRepo.WithTransaction(ctx, func(txn repository.SlotTxn) error {
		slot, err := txn.ReadSlot(facilityID, newStart)
		if err != nil {
			return err
		}

		existing := findBooking(slot, reservationID)
		if existing == nil {
			return repository.ErrReservationNotFound
		}
		horseCount = existing.HorseCount

		check := ValidateCapacity(slot, newStart, newEnd, existing.HorseCount, facility.MaxCapacity, reservationID)
		if !check.Valid {
			snapshot = slot
			result = BookingResult{
				Accepted:          false,
				PeakConcurrent:    check.PeakConcurrent,
				RemainingCapacity: check.RemainingCapacity,
			}
			return nil
		}

		update := entity.BookingUpdate{StartTime: &newStart, EndTime: &newEnd}
		if err := txn.UpdateBooking(slot, reservationID, update); err != nil {
			return err
		}
		updated := update.Apply(*existing)
		moved = &updated
		result = BookingResult{
			Accepted:          true,
			Reservation:       moved,
			PeakConcurrent:    check.PeakConcurrent,
			RemainingCapacity: check.RemainingCapacity,
		}
		return nil
	})
	if err != nil {
		u.metrics.ErrorsCount.WithLabelValues("reschedule_txn").Inc()
		return nil, err
	}

	if !result.Accepted {
		u.metrics.BookingsRejected.Inc()
		result.Suggestions = FindSuggestedSlots(snapshot, newStart, newEnd, horseCount, facility.MaxCapacity, u.maxSuggestions, u.loc)
		return &result, nil
	}

	u.logger.Info("booking rescheduled",
		"facilityId", facilityID,
		"reservationId", reservationID)
	u.publishEvent(ctx, entity.EventBookingConfirmed, entity.BookingEvent{
		ReservationID: reservationID,
		FacilityID:    facilityID,
		UserID:        moved.UserID,
		StartTime:     newStart.Format(time.RFC3339),
		EndTime:       newEnd.Format(time.RFC3339),
		HorseCount:    moved.HorseCount,
		Status:        moved.Status,
		OccurredAt:    time.Now(),
	})
	return &result, nil
}

// CancelBooking is the canonical user-facing cancellation: the entry's status
// flips to cancelled and it stops counting toward capacity, but it stays in
// the document for audit. Hard removal is PurgeBooking.
func (u *BookingUsecase) CancelBooking(ctx context.Context, facilityID string, date time.Time, reservationID string) error {
	var cancelled *entity.SlotBookingEntry
	err := u.slotRepo.WithTransaction(ctx, func(txn repository.SlotTxn) error {
		slot, err := txn.ReadSlot(facilityID, date)
		if err != nil {
			return err
		}
		existing := findBooking(slot, reservationID)
		if existing == nil {
			return repository.ErrReservationNotFound
		}
		status := entity.BookingStatusCancelled
		if err := txn.UpdateBooking(slot, reservationID, entity.BookingUpdate{Status: &status}); err != nil {
			return err
		}
		c := *existing
		c.Status = status
		cancelled = &c
		return nil
	})
	if err != nil {
		u.metrics.ErrorsCount.WithLabelValues("cancel_txn").Inc()
		return err
	}

	u.metrics.BookingsCancelled.Inc()
	u.logger.Info("booking cancelled",
		"facilityId", facilityID,
		"reservationId", reservationID)
	u.publishEvent(ctx, entity.EventBookingCancelled, entity.BookingEvent{
		ReservationID: reservationID,
		FacilityID:    facilityID,
		UserID:        cancelled.UserID,
		StartTime:     cancelled.StartTime.Format(time.RFC3339),
		EndTime:       cancelled.EndTime.Format(time.RFC3339),
		HorseCount:    cancelled.HorseCount,
		Status:        entity.BookingStatusCancelled,
		OccurredAt:    time.Now(),
	})
	return nil
}

// PurgeBooking hard-deletes an entry from the slot document. Admin path; user
// cancellation goes through CancelBooking.
func (u *BookingUsecase) PurgeBooking(ctx context.Context, facilityID string, date time.Time, reservationID string) error {
	err := u.slotRepo.WithTransaction(ctx, func(txn repository.SlotTxn) error {
		slot, err := txn.ReadSlot(facilityID, date)
		if err != nil {
			return err
		}
		return txn.RemoveBooking(slot, reservationID)
	})
	if err != nil {
		u.metrics.ErrorsCount.WithLabelValues("purge_txn").Inc()
		return err
	}
	u.logger.Info("booking purged",
		"facilityId", facilityID,
		"reservationId", reservationID)
	return nil
}

// DaySchedule returns the slot document for a facility and date. Display
// surface only; reads outside any transaction.
func (u *BookingUsecase) DaySchedule(ctx context.Context, facilityID string, date time.Time) (*entity.FacilityDaySlot, error) {
	return u.slotRepo.GetSlot(ctx, facilityID, date)
}

// SuggestSlots runs a dry capacity check plus the alternative search without
// touching any transaction. The snapshot may be slightly stale; a real
// booking attempt re-runs the full transactional check.
func (u *BookingUsecase) SuggestSlots(ctx context.Context, req BookingRequest) (CapacityResult, []SlotSuggestion, error) {
	if err := validateRequest(req.StartTime, req.EndTime, req.HorseCount); err != nil {
		return CapacityResult{}, nil, err
	}
	facility, err := u.facilityRepo.GetByFacilityID(ctx, req.FacilityID)
	if err != nil {
		return CapacityResult{}, nil, err
	}
	slot, err := u.slotRepo.GetSlot(ctx, req.FacilityID, req.StartTime)
	if err != nil {
		return CapacityResult{}, nil, err
	}
	check := ValidateCapacity(slot, req.StartTime, req.EndTime, req.HorseCount, facility.MaxCapacity, "")
	if check.Valid {
		return check, nil, nil
	}
	return check, FindSuggestedSlots(slot, req.StartTime, req.EndTime, req.HorseCount, facility.MaxCapacity, u.maxSuggestions, u.loc), nil
}

func (u *BookingUsecase) publishEvent(ctx context.Context, key string, event entity.BookingEvent) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, key, event); err != nil {
		u.metrics.ErrorsCount.WithLabelValues("event_publish").Inc()
		u.logger.Error("failed to publish booking event", "key", key, "error", err)
	}
}

func validateRequest(start, end time.Time, horseCount int) error {
	if !end.After(start) {
		return ErrInvalidInterval
	}
	if horseCount <= 0 {
		return ErrInvalidHorseCount
	}
	return nil
}

func findBooking(slot *entity.FacilityDaySlot, reservationID string) *entity.SlotBookingEntry {
	for i := range slot.CurrentBookings {
		if slot.CurrentBookings[i].ReservationID == reservationID {
			return &slot.CurrentBookings[i]
		}
	}
	return nil
}
