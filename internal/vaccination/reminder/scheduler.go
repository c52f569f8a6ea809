// Package reminder runs the periodic scan that notifies citizens about
// appointments booked for the next calendar day.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vaxreg/internal/vaccination/metrics"
	"vaxreg/internal/vaccination/models"
	"vaxreg/pkg/platform/audit"
	"vaxreg/pkg/platform/sentinel"
)

// Defaults for Config fields left at zero.
const (
	DefaultInitialDelay = 2 * time.Second
	DefaultPeriod       = 10 * time.Second
	// DefaultNotifyTimeout bounds one Notify call so a stuck sink cannot
	// hold up the rest of the tick.
	DefaultNotifyTimeout = 5 * time.Second
)

// Source is the read-only view of the registry the scheduler scans.
type Source interface {
	AppointmentsOn(ctx context.Context, date models.Date) []models.Appointment
	FindCitizen(ctx context.Context, id string) (*models.Citizen, error)
	GetCenter(ctx context.Context, id string) (*models.Center, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Config holds the timer settings. They are operational knobs only.
type Config struct {
	InitialDelay  time.Duration
	Period        time.Duration
	NotifyTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.InitialDelay < 0 {
		c.InitialDelay = 0
	}
	if c.Period <= 0 {
		c.Period = DefaultPeriod
	}
	if c.NotifyTimeout <= 0 {
		c.NotifyTimeout = DefaultNotifyTimeout
	}
	return c
}

// DefaultConfig fires after two seconds and every ten seconds after that.
func DefaultConfig() Config {
	return Config{InitialDelay: DefaultInitialDelay, Period: DefaultPeriod, NotifyTimeout: DefaultNotifyTimeout}
}

// TickReport summarises one tick.
type TickReport struct {
	Date      models.Date `json:"date"`
	Due       int         `json:"due"`
	Sent      int         `json:"sent"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	Anomalies int         `json:"anomalies"`
}

// Scheduler owns the reminder loop. Start it once; Stop ends it.
type Scheduler struct {
	source   Source
	notifier Notifier
	cfg      Config
	deduper  Deduper
	logger   *slog.Logger
	metrics  *metrics.Metrics
	audit    AuditPublisher
	clock    func() time.Time

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	stopped bool
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithClock replaces time.Now when computing "tomorrow".
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithDeduper sends each appointment's reminder at most once per key
// instead of once per tick.
func WithDeduper(d Deduper) Option {
	return func(s *Scheduler) {
		s.deduper = d
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Scheduler) {
		s.audit = publisher
	}
}

// New builds a scheduler. A nil notifier falls back to a LogNotifier.
func New(source Source, notifier Notifier, cfg Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		source:   source,
		notifier: notifier,
		cfg:      cfg.withDefaults(),
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NewLogNotifier(s.logger)
	}
	return s
}

// Start launches the loop. Calls after the first, or after Stop, do nothing.
// ctx bounds the whole loop and is passed to every tick.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil || s.stopped {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(ctx, s.stop, s.done)
}

func (s *Scheduler) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(s.cfg.InitialDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-stop:
		return
	case <-timer.C:
	}
	s.safeTick(ctx)

	ticker := time.NewTicker(s.cfg.Period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.safeTick(ctx)
		}
	}
}

// Stop prevents further ticks and waits for an in-flight tick to finish,
// giving up when ctx is done. The in-flight tick is not interrupted.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	stop, done := s.stop, s.done
	s.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for reminder tick: %w", ctx.Err())
	}
}

func (s *Scheduler) safeTick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.ErrorContext(ctx, "reminder tick panicked", "panic", rec)
		}
	}()
	s.Tick(ctx)
}

// Tick scans appointments dated tomorrow and notifies each citizen. A
// missing citizen or a failing notifier is logged and counted; the tick
// always carries on with the remaining appointments.
func (s *Scheduler) Tick(ctx context.Context) TickReport {
	start := time.Now()
	tomorrow := models.DateOf(s.clock()).AddDays(1)
	due := s.source.AppointmentsOn(ctx, tomorrow)
	report := TickReport{Date: tomorrow, Due: len(due)}

	for _, appt := range due {
		citizen, err := s.source.FindCitizen(ctx, appt.CitizenID)
		if err != nil {
			report.Anomalies++
			s.logger.WarnContext(ctx, "reminder skipped: citizen missing",
				"appointment_id", appt.ID,
				"citizen_id", appt.CitizenID,
				"error", err,
			)
			continue
		}

		rem := models.Reminder{
			AppointmentID: appt.ID,
			CitizenID:     citizen.ID,
			CitizenName:   citizen.Name,
			Phone:         citizen.Phone,
			CenterID:      appt.CenterID,
			Dose:          appt.Dose,
			Date:          appt.Date,
		}
		if center, err := s.source.GetCenter(ctx, appt.CenterID); err == nil {
			rem.CenterName = center.Name
		}

		if s.deduper != nil {
			first, err := s.deduper.FirstSeen(ctx, rem.DedupeKey())
			if err != nil {
				s.logger.WarnContext(ctx, "reminder dedupe unavailable, sending anyway",
					"appointment_id", appt.ID,
					"error", err,
				)
			} else if !first {
				report.Skipped++
				continue
			}
		}

		if err := s.notify(ctx, rem); err != nil {
			report.Failed++
			s.logger.WarnContext(ctx, "reminder delivery failed",
				"appointment_id", appt.ID,
				"citizen_id", citizen.ID,
				"sink_unavailable", errors.Is(err, sentinel.ErrUnavailable),
				"error", err,
			)
			continue
		}
		report.Sent++
		s.emitAudit(ctx, rem)
	}

	s.metrics.ObserveTick(start, report.Sent, report.Failed, report.Anomalies)
	if report.Due > 0 {
		s.logger.InfoContext(ctx, "reminder tick completed",
			"date", report.Date,
			"due", report.Due,
			"sent", report.Sent,
			"skipped", report.Skipped,
			"failed", report.Failed,
			"anomalies", report.Anomalies,
		)
	}
	return report
}

// notify delivers one reminder within NotifyTimeout, whatever ctx allows.
func (s *Scheduler) notify(ctx context.Context, rem models.Reminder) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
	defer cancel()
	return s.notifier.Notify(ctx, rem)
}

func (s *Scheduler) emitAudit(ctx context.Context, rem models.Reminder) {
	if s.audit == nil {
		return
	}
	err := s.audit.Emit(ctx, audit.Event{
		Category: audit.EventReminderSent.Category(),
		Subject:  rem.AppointmentID,
		Action:   string(audit.EventReminderSent),
		Attributes: map[string]string{
			"citizen_id": rem.CitizenID,
			"date":       rem.Date.String(),
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", audit.EventReminderSent, "error", err)
	}
}
