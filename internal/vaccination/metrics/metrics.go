package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking outcomes recorded by IncrementBooking.
const (
	OutcomeBooked           = "booked"
	OutcomeCapacityExceeded = "capacity_exceeded"
	OutcomeIneligible       = "ineligible"
)

// Metrics provides observability for the vaccination registry and the
// reminder scheduler. Every method is safe to call on a nil *Metrics.
type Metrics struct {
	CitizensRegistered  prometheus.Counter
	Bookings            *prometheus.CounterVec
	DosesCompleted      *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	LoadSkipped         *prometheus.CounterVec
	RemindersSent       prometheus.Counter
	RemindersFailed     prometheus.Counter
	ReminderAnomalies   prometheus.Counter
	TickDuration        prometheus.Histogram
	BookDuration        prometheus.Histogram
}

// New registers the metrics with the default Prometheus registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CitizensRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "vaxreg_citizens_registered_total",
			Help: "Total number of citizens registered",
		}),
		Bookings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxreg_bookings_total",
			Help: "Booking attempts by outcome",
		}, []string{"outcome"}),
		DosesCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxreg_doses_completed_total",
			Help: "Doses marked completed by dose kind",
		}, []string{"dose"}),
		PersistenceFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxreg_persistence_failures_total",
			Help: "Failed collection saves by collection",
		}, []string{"collection"}),
		LoadSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxreg_load_skipped_records_total",
			Help: "Malformed records skipped at load time by collection",
		}, []string{"collection"}),
		RemindersSent: f.NewCounter(prometheus.CounterOpts{
			Name: "vaxreg_reminders_sent_total",
			Help: "Reminders delivered to every configured notifier",
		}),
		RemindersFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "vaxreg_reminders_failed_total",
			Help: "Reminders that at least one notifier rejected",
		}),
		ReminderAnomalies: f.NewCounter(prometheus.CounterOpts{
			Name: "vaxreg_reminder_anomalies_total",
			Help: "Due appointments whose citizen could not be resolved",
		}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaxreg_reminder_tick_duration_seconds",
			Help:    "Duration of one reminder tick",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		BookDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaxreg_book_appointment_duration_seconds",
			Help:    "Duration of BookAppointment including the appointment file rewrite",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementCitizensRegistered() {
	if m == nil {
		return
	}
	m.CitizensRegistered.Inc()
}

// IncrementBooking records one booking attempt with the given outcome.
func (m *Metrics) IncrementBooking(outcome string) {
	if m == nil {
		return
	}
	m.Bookings.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementDoseCompleted(dose string) {
	if m == nil {
		return
	}
	m.DosesCompleted.WithLabelValues(dose).Inc()
}

func (m *Metrics) IncrementPersistenceFailure(collection string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(collection).Inc()
}

func (m *Metrics) AddLoadSkipped(collection string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.LoadSkipped.WithLabelValues(collection).Add(float64(n))
}

// ObserveTick records one reminder tick and its per-reminder outcomes.
func (m *Metrics) ObserveTick(start time.Time, sent, failed, anomalies int) {
	if m == nil {
		return
	}
	m.TickDuration.Observe(time.Since(start).Seconds())
	m.RemindersSent.Add(float64(sent))
	m.RemindersFailed.Add(float64(failed))
	m.ReminderAnomalies.Add(float64(anomalies))
}

// ObserveBook records the duration of a BookAppointment call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveBook(start time.Time) {
	if m == nil {
		return
	}
	m.BookDuration.Observe(time.Since(start).Seconds())
}
