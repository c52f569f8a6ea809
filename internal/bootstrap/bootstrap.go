// Package bootstrap assembles a Registry from configuration: the chosen
// store, the reminder sinks, metrics, audit and default seeding. Both the
// server and the console use it.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"vaxreg/internal/platform/config"
	redisclient "vaxreg/internal/platform/redis"
	vaxmetrics "vaxreg/internal/vaccination/metrics"
	"vaxreg/internal/vaccination/models"
	"vaxreg/internal/vaccination/reminder"
	amqppub "vaxreg/internal/vaccination/reminder/publishers/amqp"
	kafkapub "vaxreg/internal/vaccination/reminder/publishers/kafka"
	"vaxreg/internal/vaccination/reminder/publishers/redisstream"
	"vaxreg/internal/vaccination/service"
	"vaxreg/internal/vaccination/store/flatfile"
	"vaxreg/internal/vaccination/store/postgres"
	"vaxreg/pkg/platform/audit"
	auditmemory "vaxreg/pkg/platform/audit/store/memory"
	"vaxreg/pkg/platform/circuit"
)

// App is an opened registry plus the resources it holds.
type App struct {
	Registry *service.Registry
	Audit    *audit.Publisher
	Metrics  *vaxmetrics.Metrics
	Redis    *redisclient.Client

	logger  *slog.Logger
	closers []func() error
}

// abortShutdownTimeout bounds the scheduler stop when Open fails after the
// registry is already running and no reminder shutdown timeout is set.
const abortShutdownTimeout = 5 * time.Second

type options struct {
	registerer  prometheus.Registerer
	notifiers   []reminder.Notifier
	seedCenters []models.Center
}

type Option func(*options)

// WithRegisterer registers registry metrics on reg instead of the default
// Prometheus registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithNotifier adds a reminder sink alongside the configured ones.
func WithNotifier(n reminder.Notifier) Option {
	return func(o *options) {
		o.notifiers = append(o.notifiers, n)
	}
}

// WithSeedCenters replaces DefaultCenters as the centers seeded into an empty
// registry.
func WithSeedCenters(centers []models.Center) Option {
	return func(o *options) {
		o.seedCenters = centers
	}
}

// Open builds every dependency named by cfg and opens the registry. On error
// everything already acquired is released.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (_ *App, err error) {
	o := options{registerer: prometheus.DefaultRegisterer, seedCenters: DefaultCenters}
	for _, opt := range opts {
		opt(&o)
	}

	app := &App{logger: logger}
	defer func() {
		if err != nil {
			app.abort(ctx, cfg.Reminder.ShutdownTimeout)
		}
	}()

	store, err := app.openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	notifier, dedupe, err := app.buildSinks(ctx, cfg, o.notifiers)
	if err != nil {
		return nil, err
	}

	app.Metrics = vaxmetrics.NewWithRegisterer(o.registerer)
	app.Audit = audit.NewPublisher(auditmemory.NewInMemoryStore())

	var reminderOpts []reminder.Option
	if dedupe != nil {
		reminderOpts = append(reminderOpts, reminder.WithDeduper(dedupe))
	}
	reg, err := service.Open(ctx, store,
		service.WithLogger(logger),
		service.WithMetrics(app.Metrics),
		service.WithAuditPublisher(app.Audit),
		service.WithReminders(notifier, reminder.Config{
			InitialDelay:  cfg.Reminder.InitialDelay,
			Period:        cfg.Reminder.Period,
			NotifyTimeout: cfg.Reminder.NotifyTimeout,
		}, reminderOpts...),
	)
	if err != nil {
		return nil, err
	}
	app.Registry = reg

	for _, rep := range reg.LoadReports() {
		for _, skipped := range rep.Skipped {
			logger.WarnContext(ctx, "malformed record skipped on load",
				"collection", rep.Collection,
				"line", skipped.Line,
				"reason", skipped.Reason,
			)
		}
	}

	if cfg.SeedDefaultCenters {
		if err := SeedCenters(ctx, reg, o.seedCenters, logger); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Store) (service.Store, error) {
	switch cfg.Kind {
	case config.StorePostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		store := postgres.New(db, postgres.WithLogger(a.logger))
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		a.logger.InfoContext(ctx, "using postgres store")
		return store, nil
	default:
		a.logger.InfoContext(ctx, "using flat-file store", "data_dir", cfg.DataDir)
		return flatfile.New(cfg.DataDir, flatfile.WithLogger(a.logger)), nil
	}
}

// buildSinks returns the log notifier fanned out to every configured
// external sink, and the deduper when dedupe is on.
func (a *App) buildSinks(ctx context.Context, cfg config.Config, extra []reminder.Notifier) (reminder.Notifier, reminder.Deduper, error) {
	sinks := reminder.Fanout{reminder.NewLogNotifier(a.logger)}
	sinks = append(sinks, extra...)

	var dedupe reminder.Deduper
	if cfg.Redis.URL != "" {
		client, err := redisclient.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		a.Redis = client
		a.closers = append(a.closers, client.Close)
		sinks = append(sinks, redisstream.New(client.Client, cfg.Redis.Stream,
			redisstream.WithBreaker(circuit.New("reminders-redis", circuit.WithLogger(a.logger)))))
		if cfg.Reminder.Dedupe {
			dedupe = reminder.NewRedisDeduper(client.Client, "", reminder.DefaultDedupeTTL)
		}
	}
	if cfg.Reminder.Dedupe && dedupe == nil {
		dedupe = reminder.NewMemoryDeduper(reminder.DefaultDedupeTTL)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		p, err := kafkapub.New(cfg.Kafka.Brokers, cfg.Kafka.Topic,
			kafkapub.WithBreaker(circuit.New("reminders-kafka", circuit.WithLogger(a.logger))))
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() error { p.Close(); return nil })
		if err := p.EnsureTopic(ctx, 1, 1); err != nil {
			a.logger.WarnContext(ctx, "could not ensure kafka topic", "topic", cfg.Kafka.Topic, "error", err)
		}
		sinks = append(sinks, p)
	}

	if cfg.AMQP.URL != "" {
		p, err := amqppub.New(cfg.AMQP.URL, cfg.AMQP.Queue,
			amqppub.WithBreaker(circuit.New("reminders-amqp", circuit.WithLogger(a.logger))))
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, p.Close)
		sinks = append(sinks, p)
	}

	a.logger.InfoContext(ctx, "reminder sinks configured", "count", len(sinks), "dedupe", dedupe != nil)
	return sinks, dedupe, nil
}

// Shutdown stops the reminder scheduler within ctx.
func (a *App) Shutdown(ctx context.Context) error {
	if a.Registry == nil {
		return nil
	}
	return a.Registry.Shutdown(ctx)
}

// abort stops a registry that was already running, then releases everything
// acquired so far. The scheduler goes first so it never ticks over closed sinks.
func (a *App) abort(ctx context.Context, timeout time.Duration) {
	if timeout <= 0 {
		timeout = abortShutdownTimeout
	}
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := a.Shutdown(stopCtx); err != nil {
		a.logger.WarnContext(ctx, "stopping reminders after failed start", "error", err)
	}
	if err := a.Close(); err != nil {
		a.logger.WarnContext(ctx, "closing resources after failed start", "error", err)
	}
}

// Close releases sinks and connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
