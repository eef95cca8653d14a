package httpapi

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires the booking endpoints onto the Echo instance.
// Authentication and organization scoping are handled upstream by the
// platform gateway; this service trusts the ids it is given.
func RegisterRoutes(e *echo.Echo, h *BookingHandler) {
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")
	v1.POST("/facilities", h.CreateFacility)
	v1.GET("/facilities", h.ListFacilities)

	v1.POST("/facilities/:facilityId/bookings", h.CreateBooking)
	v1.PATCH("/facilities/:facilityId/bookings/:reservationId", h.RescheduleBooking)
	v1.DELETE("/facilities/:facilityId/bookings/:reservationId", h.CancelBooking)
	v1.GET("/facilities/:facilityId/schedule", h.DaySchedule)
	v1.GET("/facilities/:facilityId/suggestions", h.Suggestions)
}
