// Package service holds the vaccination Registry: the in-memory citizen,
// center and appointment collections, the rules that guard them and the
// synchronous persistence of every mutation.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"vaxreg/internal/vaccination/metrics"
	"vaxreg/internal/vaccination/models"
	"vaxreg/internal/vaccination/reminder"
	dErrors "vaxreg/pkg/domain-errors"
	"vaxreg/pkg/platform/audit"
	"vaxreg/pkg/requestcontext"
)

// Store loads and saves whole collections. Saves are full rewrites.
type Store interface {
	LoadCitizens(ctx context.Context) ([]models.Citizen, models.LoadReport, error)
	LoadCenters(ctx context.Context) ([]models.Center, models.LoadReport, error)
	LoadAppointments(ctx context.Context) ([]models.Appointment, models.LoadReport, error)
	SaveCitizens(ctx context.Context, citizens []models.Citizen) error
	SaveCenters(ctx context.Context, centers []models.Center) error
	SaveAppointments(ctx context.Context, appointments []models.Appointment) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

type slotKey struct {
	centerID string
	date     models.Date
}

// Registry owns the three collections. One RWMutex guards all of them;
// readers (including the reminder scheduler) take the read lock, mutations
// take the write lock and persist before releasing it.
type Registry struct {
	mu sync.RWMutex

	citizens     map[string]*models.Citizen
	citizenOrder []string
	centers      map[string]*models.Center
	centerOrder  []string
	appointments []models.Appointment
	apptIndex    map[string]int
	slots        map[slotKey]int

	store       Store
	newID       func() string
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	audit       AuditPublisher
	loadReports []models.LoadReport

	reminders    *reminderConfig
	scheduler    *reminder.Scheduler
	shutdownOnce sync.Once
}

type reminderConfig struct {
	notifier reminder.Notifier
	cfg      reminder.Config
	opts     []reminder.Option
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(r *Registry) {
		r.tracer = tracer
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(r *Registry) {
		r.audit = publisher
	}
}

// WithIDGenerator replaces the appointment ID generator (uuid v4 by default).
func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) {
		r.newID = gen
	}
}

// WithReminders starts a reminder scheduler reading this registry once it
// is opened. Shutdown stops it.
func WithReminders(notifier reminder.Notifier, cfg reminder.Config, opts ...reminder.Option) Option {
	return func(r *Registry) {
		r.reminders = &reminderConfig{notifier: notifier, cfg: cfg, opts: opts}
	}
}

// Open loads every collection from store and returns a ready registry.
// Malformed records are skipped and reported through LoadReports; only an
// unreadable store fails the open.
func Open(ctx context.Context, store Store, opts ...Option) (*Registry, error) {
	r := &Registry{
		citizens:  make(map[string]*models.Citizen),
		centers:   make(map[string]*models.Center),
		apptIndex: make(map[string]int),
		slots:     make(map[slotKey]int),
		store:     store,
		newID:     uuid.NewString,
		logger:    slog.Default(),
		tracer:    otel.Tracer("vaxreg/registry"),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.load(ctx); err != nil {
		return nil, err
	}

	if r.reminders != nil {
		opts := append([]reminder.Option{
			reminder.WithLogger(r.logger),
			reminder.WithMetrics(r.metrics),
		}, r.reminders.opts...)
		if r.audit != nil {
			opts = append(opts, reminder.WithAuditPublisher(r.audit))
		}
		r.scheduler = reminder.New(r, r.reminders.notifier, r.reminders.cfg, opts...)
		r.scheduler.Start(context.WithoutCancel(ctx))
	}
	return r, nil
}

func (r *Registry) load(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "Registry.Load")
	defer span.End()

	var (
		citizens     []models.Citizen
		centers      []models.Center
		appointments []models.Appointment
		reports      [3]models.LoadReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		citizens, reports[0], err = r.store.LoadCitizens(gctx)
		return err
	})
	g.Go(func() (err error) {
		centers, reports[1], err = r.store.LoadCenters(gctx)
		return err
	})
	g.Go(func() (err error) {
		appointments, reports[2], err = r.store.LoadAppointments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return dErrors.Wrap(err, dErrors.CodePersistenceFailure, "failed to load registry")
	}

	for i := range citizens {
		c := citizens[i]
		r.citizens[c.ID] = &c
		r.citizenOrder = append(r.citizenOrder, c.ID)
	}
	for i := range centers {
		c := centers[i]
		r.centers[c.ID] = &c
		r.centerOrder = append(r.centerOrder, c.ID)
	}
	for _, a := range appointments {
		r.insertAppointment(a)
	}

	r.loadReports = reports[:]
	for _, rep := range r.loadReports {
		r.metrics.AddLoadSkipped(string(rep.Collection), rep.SkippedCount())
		r.logger.InfoContext(ctx, "collection loaded",
			"collection", rep.Collection,
			"loaded", rep.Loaded,
			"skipped", rep.SkippedCount(),
		)
	}
	return nil
}

// LoadReports returns the per-collection results of the initial load.
func (r *Registry) LoadReports() []models.LoadReport {
	return append([]models.LoadReport(nil), r.loadReports...)
}

// Shutdown stops the reminder scheduler, waiting for an in-flight tick no
// longer than ctx allows. It is safe to call more than once.
func (r *Registry) Shutdown(ctx context.Context) error {
	var err error
	r.shutdownOnce.Do(func() {
		if r.scheduler == nil {
			return
		}
		if err = r.scheduler.Stop(ctx); err != nil {
			r.logger.WarnContext(ctx, "reminder scheduler did not stop in time", "error", err)
		}
	})
	return err
}

func (r *Registry) insertAppointment(a models.Appointment) {
	r.apptIndex[a.ID] = len(r.appointments)
	r.appointments = append(r.appointments, a)
	r.slots[slotKey{centerID: a.CenterID, date: a.Date}]++
}

func (r *Registry) citizenSnapshot() []models.Citizen {
	out := make([]models.Citizen, 0, len(r.citizenOrder))
	for _, id := range r.citizenOrder {
		out = append(out, *r.citizens[id])
	}
	return out
}

func (r *Registry) centerSnapshot() []models.Center {
	out := make([]models.Center, 0, len(r.centerOrder))
	for _, id := range r.centerOrder {
		out = append(out, *r.centers[id])
	}
	return out
}

// persist runs save and turns a failure into CodePersistenceFailure. The
// in-memory mutation that preceded it is kept either way.
func (r *Registry) persist(ctx context.Context, collection models.Collection, msg string, save func() error) error {
	if err := save(); err != nil {
		r.metrics.IncrementPersistenceFailure(string(collection))
		r.logger.ErrorContext(ctx, "failed to persist collection",
			"collection", collection,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodePersistenceFailure, msg)
	}
	return nil
}

func (r *Registry) emitAudit(ctx context.Context, event audit.AuditEvent, subject string, attrs map[string]string) {
	r.logger.InfoContext(ctx, string(event), "subject", subject, "log_type", "audit")
	if r.audit == nil {
		return
	}
	err := r.audit.Emit(ctx, audit.Event{
		Category:   event.Category(),
		Timestamp:  requestcontext.Now(ctx),
		Subject:    subject,
		Action:     string(event),
		RequestID:  requestcontext.RequestID(ctx),
		Attributes: attrs,
	})
	if err != nil {
		r.logger.WarnContext(ctx, "failed to emit audit event", "event", event, "error", err)
	}
}

func (r *Registry) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "Registry."+name)
}

// endSpan records err on span when it is a server-side failure.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		if code := dErrors.CodeOf(err); code == dErrors.CodePersistenceFailure || code == dErrors.CodeInternal {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

// observe is deferred at the start of timed operations.
func observe(fn func(time.Time)) func() {
	start := time.Now()
	return func() { fn(start) }
}
