package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"stablebook-service/internal/domain/entity"
	"stablebook-service/internal/domain/repository"
	"stablebook-service/internal/usecase"
	"stablebook-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BookingHandler exposes the booking core over HTTP. All request and response
// times are RFC 3339 strings; dates are YYYY-MM-DD interpreted in the
// service's booking time zone.
type BookingHandler struct {
	booking      *usecase.BookingUsecase
	facilityRepo repository.FacilityRepository
	logger       logger.Logger
	loc          *time.Location
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(booking *usecase.BookingUsecase, facilityRepo repository.FacilityRepository, logger logger.Logger, loc *time.Location) *BookingHandler {
	return &BookingHandler{
		booking:      booking,
		facilityRepo: facilityRepo,
		logger:       logger,
		loc:          loc,
	}
}

type bookingRequestBody struct {
	UserID     string `json:"userId"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	HorseCount int    `json:"horseCount"`
}

type rescheduleBody struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type bookingResponse struct {
	ReservationID     string `json:"reservationId"`
	FacilityID        string `json:"facilityId"`
	UserID            string `json:"userId"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	HorseCount        int    `json:"horseCount"`
	Status            string `json:"status"`
	RemainingCapacity int    `json:"remainingCapacity"`
}

type rejectionResponse struct {
	Error             string                   `json:"error"`
	PeakConcurrent    int                      `json:"peakConcurrent"`
	RemainingCapacity int                      `json:"remainingCapacity"`
	Suggestions       []usecase.SlotSuggestion `json:"suggestions"`
}

// CreateBooking handles POST /v1/facilities/:facilityId/bookings. A capacity
// rejection answers 409 with alternative windows; malformed input answers 400.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	facilityID := c.Param("facilityId")

	var body bookingRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startTime must be RFC 3339"})
	}
	end, err := time.Parse(time.RFC3339, body.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endTime must be RFC 3339"})
	}

	result, err := h.booking.RequestBooking(c.Request().Context(), usecase.BookingRequest{
		FacilityID: facilityID,
		UserID:     body.UserID,
		StartTime:  start,
		EndTime:    end,
		HorseCount: body.HorseCount,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	if !result.Accepted {
		return c.JSON(http.StatusConflict, rejectionResponse{
			Error:             "capacity exceeded",
			PeakConcurrent:    result.PeakConcurrent,
			RemainingCapacity: result.RemainingCapacity,
			Suggestions:       result.Suggestions,
		})
	}

	r := result.Reservation
	return c.JSON(http.StatusCreated, bookingResponse{
		ReservationID:     r.ReservationID,
		FacilityID:        facilityID,
		UserID:            r.UserID,
		StartTime:         r.StartTime.Format(time.RFC3339),
		EndTime:           r.EndTime.Format(time.RFC3339),
		HorseCount:        r.HorseCount,
		Status:            r.Status,
		RemainingCapacity: result.RemainingCapacity,
	})
}

// RescheduleBooking handles PATCH /v1/facilities/:facilityId/bookings/:reservationId.
func (h *BookingHandler) RescheduleBooking(c echo.Context) error {
	facilityID := c.Param("facilityId")
	reservationID := c.Param("reservationId")

	var body rescheduleBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startTime must be RFC 3339"})
	}
	end, err := time.Parse(time.RFC3339, body.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endTime must be RFC 3339"})
	}

	result, err := h.booking.RescheduleBooking(c.Request().Context(), facilityID, reservationID, start, end)
	if err != nil {
		return h.writeError(c, err)
	}
	if !result.Accepted {
		return c.JSON(http.StatusConflict, rejectionResponse{
			Error:             "capacity exceeded",
			PeakConcurrent:    result.PeakConcurrent,
			RemainingCapacity: result.RemainingCapacity,
			Suggestions:       result.Suggestions,
		})
	}

	r := result.Reservation
	return c.JSON(http.StatusOK, bookingResponse{
		ReservationID:     r.ReservationID,
		FacilityID:        facilityID,
		UserID:            r.UserID,
		StartTime:         r.StartTime.Format(time.RFC3339),
		EndTime:           r.EndTime.Format(time.RFC3339),
		HorseCount:        r.HorseCount,
		Status:            r.Status,
		RemainingCapacity: result.RemainingCapacity,
	})
}

// CancelBooking handles DELETE /v1/facilities/:facilityId/bookings/:reservationId.
// The booking's calendar date must be passed as ?date=YYYY-MM-DD. Default is a
// soft cancel; ?hard=true removes the entry from the document.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	facilityID := c.Param("facilityId")
	reservationID := c.Param("reservationId")

	date, err := h.parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	if c.QueryParam("hard") == "true" {
		if err := h.booking.PurgeBooking(c.Request().Context(), facilityID, date, reservationID); err != nil {
			return h.writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.booking.CancelBooking(c.Request().Context(), facilityID, date, reservationID); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DaySchedule handles GET /v1/facilities/:facilityId/schedule?date=YYYY-MM-DD.
func (h *BookingHandler) DaySchedule(c echo.Context) error {
	facilityID := c.Param("facilityId")
	date, err := h.parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	slot, err := h.booking.DaySchedule(c.Request().Context(), facilityID, date)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, slot)
}

// Suggestions handles GET /v1/facilities/:facilityId/suggestions. It never
// books anything; it reports whether the window currently fits and, when it
// does not, which nearby windows would.
func (h *BookingHandler) Suggestions(c echo.Context) error {
	facilityID := c.Param("facilityId")
	start, err := time.Parse(time.RFC3339, c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be RFC 3339"})
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be RFC 3339"})
	}
	horses := 1
	if hs := c.QueryParam("horses"); hs != "" {
		n, err := strconv.Atoi(hs)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "horses must be a positive integer"})
		}
		horses = n
	}

	check, suggestions, err := h.booking.SuggestSlots(c.Request().Context(), usecase.BookingRequest{
		FacilityID: facilityID,
		StartTime:  start,
		EndTime:    end,
		HorseCount: horses,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"valid":             check.Valid,
		"peakConcurrent":    check.PeakConcurrent,
		"remainingCapacity": check.RemainingCapacity,
		"suggestions":       suggestions,
	})
}

type facilityBody struct {
	FacilityID  string `json:"facilityId"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	MaxCapacity int    `json:"maxCapacity"`
}

// CreateFacility handles POST /v1/facilities.
func (h *BookingHandler) CreateFacility(c echo.Context) error {
	var body facilityBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.FacilityID == "" || body.MaxCapacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "facilityId and a positive maxCapacity are required"})
	}
	facility := &entity.Facility{
		FacilityID:  body.FacilityID,
		Name:        body.Name,
		Kind:        body.Kind,
		MaxCapacity: body.MaxCapacity,
		Active:      true,
	}
	if err := h.facilityRepo.Create(c.Request().Context(), facility); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, facility)
}

// ListFacilities handles GET /v1/facilities.
func (h *BookingHandler) ListFacilities(c echo.Context) error {
	facilities, err := h.facilityRepo.List(c.Request().Context(), c.QueryParam("all") != "true")
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, facilities)
}

// Health handles GET /healthz.
func (h *BookingHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (h *BookingHandler) parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, h.loc)
}

func (h *BookingHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInterval), errors.Is(err, usecase.ErrInvalidHorseCount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrFacilityNotFound), errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, usecase.ErrFacilityInactive):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	default:
		h.logger.Error("request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
