package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	t.Run("counters move with their helpers", func(t *testing.T) {
		m := NewWithRegisterer(prometheus.NewRegistry())

		m.IncrementCitizensRegistered()
		m.IncrementBooking(OutcomeBooked)
		m.IncrementBooking(OutcomeBooked)
		m.IncrementBooking(OutcomeCapacityExceeded)
		m.AddLoadSkipped("citizens", 3)
		m.AddLoadSkipped("centers", 0)
		m.ObserveTick(time.Now(), 2, 1, 1)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.CitizensRegistered))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.Bookings.WithLabelValues(OutcomeBooked)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Bookings.WithLabelValues(OutcomeCapacityExceeded)))
		assert.Equal(t, 3.0, testutil.ToFloat64(m.LoadSkipped.WithLabelValues("citizens")))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.RemindersSent))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ReminderAnomalies))
	})

	t.Run("nil metrics are a no-op", func(t *testing.T) {
		var m *Metrics
		assert.NotPanics(t, func() {
			m.IncrementCitizensRegistered()
			m.IncrementBooking(OutcomeIneligible)
			m.IncrementDoseCompleted("FIRST")
			m.IncrementPersistenceFailure("citizens")
			m.ObserveTick(time.Now(), 1, 0, 0)
			m.ObserveBook(time.Now())
		})
	})
}
