package observability

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics counts booking outcomes. A nil *BookingMetrics is a no-op.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	cancellationsTotal *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	bookingLatency     prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome code",
		}, []string{"outcome"}),
		cancellationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "cancellations_total",
			Help:      "Cancellations by source and outcome",
		}, []string{"source", "outcome"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "notify",
			Name:      "notifications_total",
			Help:      "Notification sends by kind and status",
		}, []string{"kind", "status"}),
		bookingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "transaction_seconds",
			Help:      "Duration of the booking transaction",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.cancellationsTotal, m.notificationsTotal, m.bookingLatency)
	return m
}

// ObserveBooking records one attempt. outcome is "booked" or an error code.
func (m *BookingMetrics) ObserveBooking(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
	m.bookingLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveCancellation(source, outcome string) {
	if m == nil {
		return
	}
	m.cancellationsTotal.WithLabelValues(source, outcome).Inc()
}

func (m *BookingMetrics) ObserveNotification(kind, status string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(kind, status).Inc()
}
