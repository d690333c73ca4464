package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveBooking("booked", 0.01)
	m.ObserveBooking("booked", 0.02)
	m.ObserveBooking("slot_no_longer_available", 0.03)
	m.ObserveCancellation("staff", "cancelled")
	m.ObserveNotification("appointment_booked", "sent")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("booked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("slot_no_longer_available")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cancellationsTotal.WithLabelValues("staff", "cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsTotal.WithLabelValues("appointment_booked", "sent")))
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveBooking("booked", 0.1)
	m.ObserveCancellation("patient", "cancelled")
	m.ObserveNotification("appointment_booked", "failed")
}
