package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookinglink_bookings_confirmed_total",
		Help: "Bookings that resulted in a created calendar event",
	})
	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookinglink_booking_conflicts_total",
		Help: "Bookings rejected because the slot was no longer free",
	})
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookinglink_rate_limited_total",
		Help: "Booking requests rejected by the rate limiter",
	})
	TokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookinglink_token_refreshes_total",
		Help: "Access token refreshes against the calendar provider",
	})
	UpstreamFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookinglink_upstream_failures_total",
		Help: "Failed calls to the calendar provider",
	})
)
