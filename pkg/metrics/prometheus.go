package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	BookingAttempts     prometheus.Counter
	BookingsConfirmed   prometheus.Counter
	BookingsRejected    prometheus.Counter
	BookingsCancelled   prometheus.Counter
	CapacityCheckTime   prometheus.Histogram
	SuggestionsReturned prometheus.Histogram
	ErrorsCount         *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_attempts_total",
			Help:      "The total number of booking requests received",
		}),
		BookingsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_confirmed_total",
			Help:      "The total number of bookings that passed the capacity check and committed",
		}),
		BookingsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_rejected_total",
			Help:      "The total number of bookings rejected for capacity",
		}),
		BookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "The total number of bookings cancelled by users",
		}),
		CapacityCheckTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "capacity_check_seconds",
			Help:      "Time spent inside the booking transaction",
			Buckets:   prometheus.DefBuckets,
		}),
		SuggestionsReturned: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "suggestions_returned",
			Help:      "Number of alternative slots returned per rejected booking",
			Buckets:   []float64{0, 1, 2, 3},
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
