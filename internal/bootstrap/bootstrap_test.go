package bootstrap

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"vaxreg/internal/platform/config"
	"vaxreg/internal/vaccination/models"
	"vaxreg/internal/vaccination/reminder"
	dErrors "vaxreg/pkg/domain-errors"
)

type BootstrapSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    config.Config
	logger *slog.Logger
}

func TestBootstrapSuite(t *testing.T) {
	suite.Run(t, new(BootstrapSuite))
}

func (s *BootstrapSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.cfg = config.Config{
		Store: config.Store{Kind: config.StoreFlatFile, DataDir: s.T().TempDir()},
		Reminder: config.Reminder{
			InitialDelay: time.Hour,
			Period:       time.Hour,
		},
		SeedDefaultCenters: true,
	}
}

func (s *BootstrapSuite) open() *App {
	app, err := Open(s.ctx, s.cfg, s.logger, WithRegisterer(prometheus.NewRegistry()))
	s.Require().NoError(err)
	s.T().Cleanup(func() {
		s.NoError(app.Shutdown(s.ctx))
		s.NoError(app.Close())
	})
	return app
}

func (s *BootstrapSuite) TestSeedsOnlyAnEmptyRegistry() {
	app := s.open()
	centers := app.Registry.ListCenters(s.ctx)
	s.Equal(DefaultCenters, centers)

	_, err := app.Registry.UpdateCenterCapacity(s.ctx, "C002", 7)
	s.Require().NoError(err)
	s.Require().NoError(app.Shutdown(s.ctx))

	reopened := s.open()
	c, err := reopened.Registry.GetCenter(s.ctx, "C002")
	s.Require().NoError(err)
	s.Equal(7, c.DailyCapacity, "existing centers are never reseeded")
}

func (s *BootstrapSuite) TestSeedingDisabled() {
	s.cfg.SeedDefaultCenters = false
	app := s.open()
	s.Empty(app.Registry.ListCenters(s.ctx))
}

func (s *BootstrapSuite) TestMemoryDedupeWithoutRedis() {
	s.cfg.Reminder.Dedupe = true
	app := &App{logger: s.logger}
	_, dedupe, err := app.buildSinks(s.ctx, s.cfg, nil)
	s.Require().NoError(err)
	s.IsType(&reminder.MemoryDeduper{}, dedupe)
}

func (s *BootstrapSuite) TestExtraNotifierReceivesReminders() {
	var got []models.Reminder
	app := &App{logger: s.logger}
	notifier, _, err := app.buildSinks(s.ctx, s.cfg, []reminder.Notifier{
		reminder.NotifierFunc(func(_ context.Context, r models.Reminder) error {
			got = append(got, r)
			return nil
		}),
	})
	s.Require().NoError(err)
	s.Require().NoError(notifier.Notify(s.ctx, models.Reminder{AppointmentID: "a1"}))
	s.Len(got, 1)
}

func (s *BootstrapSuite) TestUnreachablePostgresFailsOpen() {
	s.cfg.Store = config.Store{Kind: config.StorePostgres, DatabaseURL: "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"}
	_, err := Open(s.ctx, s.cfg, s.logger, WithRegisterer(prometheus.NewRegistry()))
	s.ErrorContains(err, "ping postgres")
}

func schedulerRunning() bool {
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	return strings.Contains(string(buf[:n]), "reminder.(*Scheduler).run")
}

func (s *BootstrapSuite) TestFailedSeedStopsReminders() {
	s.cfg.Reminder.ShutdownTimeout = time.Second
	_, err := Open(s.ctx, s.cfg, s.logger,
		WithRegisterer(prometheus.NewRegistry()),
		WithSeedCenters([]models.Center{{ID: "C009", Name: "Closed", Location: "Nowhere", DailyCapacity: 0}}),
	)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidFormat))
	s.Eventually(func() bool { return !schedulerRunning() }, time.Second, 10*time.Millisecond,
		"reminder loop outlived the failed start")
}

func (s *BootstrapSuite) TestSeedKeptInMemoryWhenSaveFails() {
	if _, err := os.Stat("/proc/self"); err != nil {
		s.T().Skip("needs a procfs mount to make the data dir uncreatable")
	}
	// Loads see missing files; saves cannot create the directory.
	s.cfg.Store.DataDir = "/proc/vaxreg-seed/data"
	var logs bytes.Buffer
	s.logger = slog.New(slog.NewTextHandler(&logs, nil))

	app := s.open()
	s.Equal(DefaultCenters, app.Registry.ListCenters(s.ctx))
	s.Contains(logs.String(), "seeded center not persisted")
}
