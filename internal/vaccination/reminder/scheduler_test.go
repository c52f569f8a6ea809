package reminder

//go:generate mockgen -source=notifier.go -destination=mocks/mocks.go -package=mocks Notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vaxreg/internal/vaccination/models"
	"vaxreg/internal/vaccination/reminder/mocks"
	dErrors "vaxreg/pkg/domain-errors"
)

type fakeSource struct {
	appointments []models.Appointment
	citizens     map[string]models.Citizen
	centers      map[string]models.Center
}

func (f *fakeSource) AppointmentsOn(_ context.Context, date models.Date) []models.Appointment {
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeSource) FindCitizen(_ context.Context, id string) (*models.Citizen, error) {
	c, ok := f.citizens[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "citizen not found")
	}
	return &c, nil
}

func (f *fakeSource) GetCenter(_ context.Context, id string) (*models.Center, error) {
	c, ok := f.centers[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "center not found")
	}
	return &c, nil
}

var (
	jan10 = models.MustDate(2024, time.January, 10)
	jan11 = models.MustDate(2024, time.January, 11)
	// late evening in India, still 10 January locally
	fixedNow = time.Date(2024, 1, 10, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
)

func newFakeSource() *fakeSource {
	return &fakeSource{
		appointments: []models.Appointment{
			{ID: "a1", CitizenID: "111111111111", CenterID: "C001", Dose: models.DoseFirst, Date: jan11},
			{ID: "a2", CitizenID: "999999999999", CenterID: "C001", Dose: models.DoseFirst, Date: jan11},
			{ID: "a3", CitizenID: "222222222222", CenterID: "C404", Dose: models.DoseSecond, Date: jan11},
			{ID: "a4", CitizenID: "111111111111", CenterID: "C001", Dose: models.DoseSecond, Date: jan10},
		},
		citizens: map[string]models.Citizen{
			"111111111111": {Person: models.Person{Name: "Asha", Age: 34, Phone: "9876543210"}, ID: "111111111111"},
			"222222222222": {Person: models.Person{Name: "Vinod", Age: 61, Phone: "9123456780"}, ID: "222222222222", Dose1Completed: true},
		},
		centers: map[string]models.Center{
			"C001": {ID: "C001", Name: "City Hospital", Location: "Solapur", DailyCapacity: 5},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type SchedulerSuite struct {
	suite.Suite
	ctx      context.Context
	source   *fakeSource
	notifier *mocks.MockNotifier
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) SetupTest() {
	s.ctx = context.Background()
	s.source = newFakeSource()
	s.notifier = mocks.NewMockNotifier(gomock.NewController(s.T()))
}

func (s *SchedulerSuite) newScheduler(opts ...Option) *Scheduler {
	opts = append([]Option{
		WithLogger(discardLogger()),
		WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	return New(s.source, s.notifier, DefaultConfig(), opts...)
}

func (s *SchedulerSuite) TestTickNotifiesTomorrowOnly() {
	var got []models.Reminder
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r models.Reminder) error {
		got = append(got, r)
		return nil
	}).Times(2)

	report := s.newScheduler().Tick(s.ctx)

	s.Equal(TickReport{Date: jan11, Due: 3, Sent: 2, Anomalies: 1}, report)
	s.Require().Len(got, 2)
	s.Equal(models.Reminder{
		AppointmentID: "a1",
		CitizenID:     "111111111111",
		CitizenName:   "Asha",
		Phone:         "9876543210",
		CenterID:      "C001",
		CenterName:    "City Hospital",
		Dose:          models.DoseFirst,
		Date:          jan11,
	}, got[0])
	s.Equal("a3", got[1].AppointmentID)
	s.Empty(got[1].CenterName, "unknown center leaves the name blank")
}

func (s *SchedulerSuite) TestStuckSinkIsBoundedPerReminder() {
	var calls atomic.Int32
	stuck := NotifierFunc(func(ctx context.Context, _ models.Reminder) error {
		calls.Add(1)
		<-ctx.Done()
		return ctx.Err()
	})
	cfg := DefaultConfig()
	cfg.NotifyTimeout = 20 * time.Millisecond
	sched := New(s.source, stuck, cfg,
		WithLogger(discardLogger()),
		WithClock(func() time.Time { return fixedNow }),
	)

	done := make(chan TickReport, 1)
	go func() { done <- sched.Tick(context.WithoutCancel(s.ctx)) }()

	select {
	case report := <-done:
		s.Equal(int32(2), calls.Load(), "every due reminder is attempted")
		s.Equal(TickReport{Date: jan11, Due: 3, Failed: 2, Anomalies: 1}, report)
	case <-time.After(2 * time.Second):
		s.FailNow("tick blocked on a sink that never returns")
	}
}

func (s *SchedulerSuite) TestNotifierFailureDoesNotAbortTick() {
	gomock.InOrder(
		s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("sms gateway down")),
		s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil),
	)

	report := s.newScheduler().Tick(s.ctx)

	s.Equal(1, report.Failed)
	s.Equal(1, report.Sent)
	s.Equal(1, report.Anomalies)
}

func (s *SchedulerSuite) TestNothingDue() {
	s.source.appointments = nil
	report := s.newScheduler().Tick(s.ctx)
	s.Equal(TickReport{Date: jan11}, report)
}

func (s *SchedulerSuite) TestDedupeSendsOncePerAppointmentAndDay() {
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	sched := s.newScheduler(WithDeduper(NewMemoryDeduper(time.Hour)))

	first := sched.Tick(s.ctx)
	second := sched.Tick(s.ctx)

	s.Equal(2, first.Sent)
	s.Equal(0, second.Sent)
	s.Equal(2, second.Skipped)
}

func (s *SchedulerSuite) TestDedupeErrorStillSends() {
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	failing := dedupeFunc(func(context.Context, string) (bool, error) {
		return false, errors.New("redis unavailable")
	})

	report := s.newScheduler(WithDeduper(failing)).Tick(s.ctx)
	s.Equal(2, report.Sent)
}

type dedupeFunc func(ctx context.Context, key string) (bool, error)

func (f dedupeFunc) FirstSeen(ctx context.Context, key string) (bool, error) { return f(ctx, key) }

func (s *SchedulerSuite) TestStopBeforeFirstTick() {
	sched := New(s.source, s.notifier, Config{InitialDelay: time.Hour, Period: time.Hour}, WithLogger(discardLogger()))
	sched.Start(s.ctx)

	ctx, cancel := context.WithTimeout(s.ctx, time.Second)
	defer cancel()
	s.NoError(sched.Stop(ctx))
	s.NoError(sched.Stop(ctx), "second stop is a no-op")
}

func (s *SchedulerSuite) TestStopIsBoundedWhileTickInFlight() {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	blocking := NotifierFunc(func(ctx context.Context, _ models.Reminder) error {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return nil
	})
	sched := New(s.source, blocking, Config{InitialDelay: 0, Period: time.Hour},
		WithLogger(discardLogger()),
		WithClock(func() time.Time { return fixedNow }),
	)
	sched.Start(s.ctx)
	<-entered

	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Millisecond)
	defer cancel()
	err := sched.Stop(ctx)
	s.ErrorIs(err, context.DeadlineExceeded)

	close(release)
}

func (s *SchedulerSuite) TestStartAfterStopDoesNothing() {
	var calls atomic.Int32
	counting := NotifierFunc(func(context.Context, models.Reminder) error {
		calls.Add(1)
		return nil
	})
	sched := New(s.source, counting, Config{InitialDelay: 0, Period: time.Millisecond},
		WithLogger(discardLogger()),
		WithClock(func() time.Time { return fixedNow }),
	)
	s.Require().NoError(sched.Stop(s.ctx))
	sched.Start(s.ctx)
	time.Sleep(20 * time.Millisecond)
	s.Zero(calls.Load())
}

func (s *SchedulerSuite) TestLoopSurvivesPanickingNotifier() {
	var calls atomic.Int32
	delivered := make(chan struct{}, 1)
	flaky := NotifierFunc(func(context.Context, models.Reminder) error {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		select {
		case delivered <- struct{}{}:
		default:
		}
		return nil
	})
	sched := New(s.source, flaky, Config{InitialDelay: 0, Period: 5 * time.Millisecond},
		WithLogger(discardLogger()),
		WithClock(func() time.Time { return fixedNow }),
	)
	sched.Start(s.ctx)
	defer sched.Stop(s.ctx)

	select {
	case <-delivered:
	case <-time.After(5 * time.Second):
		s.FailNow("loop stopped after a panic")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{InitialDelay: -time.Second}.withDefaults()
	assert.Equal(t, time.Duration(0), cfg.InitialDelay)
	assert.Equal(t, DefaultPeriod, cfg.Period)
	assert.Equal(t, DefaultNotifyTimeout, cfg.NotifyTimeout)

	def := DefaultConfig()
	assert.Equal(t, 2*time.Second, def.InitialDelay)
	assert.Equal(t, 10*time.Second, def.Period)
}

func TestFanout(t *testing.T) {
	var seen []string
	ok := NotifierFunc(func(_ context.Context, r models.Reminder) error {
		seen = append(seen, "ok:"+r.AppointmentID)
		return nil
	})
	broken := NotifierFunc(func(context.Context, models.Reminder) error {
		return errors.New("broker unreachable")
	})

	err := Fanout{broken, ok}.Notify(context.Background(), models.Reminder{AppointmentID: "a1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unreachable")
	assert.Equal(t, []string{"ok:a1"}, seen, "a failing sink does not block the next one")

	assert.NoError(t, Fanout{ok}.Notify(context.Background(), models.Reminder{AppointmentID: "a2"}))
}

func TestMemoryDeduperExpires(t *testing.T) {
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	d := NewMemoryDeduper(time.Hour)
	d.clock = func() time.Time { return now }
	ctx := context.Background()

	first, err := d.FirstSeen(ctx, "a1:2024-01-11")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := d.FirstSeen(ctx, "a1:2024-01-11")
	require.NoError(t, err)
	assert.False(t, again)

	now = now.Add(2 * time.Hour)
	afterTTL, err := d.FirstSeen(ctx, "a1:2024-01-11")
	require.NoError(t, err)
	assert.True(t, afterTTL)
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLogNotifier(discardLogger())
	assert.NoError(t, n.Notify(context.Background(), models.Reminder{AppointmentID: "a1", Date: jan11}))
}
