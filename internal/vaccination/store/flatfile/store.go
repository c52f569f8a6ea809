// Package flatfile persists the registry collections as line-oriented,
// comma-separated files: one record per line, no header, booleans as
// true/false and dates as YYYY-MM-DD.
//
// Loads are best-effort and report skipped lines. Saves rewrite the whole
// collection through a temp file and an atomic rename.
package flatfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"vaxreg/internal/vaccination/models"
)

// Default file names inside the data directory.
const (
	CitizensFile     = "citizens.csv"
	CentersFile      = "centers.csv"
	AppointmentsFile = "appointments.csv"
)

// Store reads and writes the three collection files under one directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New returns a store rooted at dir. The directory is created on first save.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) LoadCitizens(ctx context.Context) ([]models.Citizen, models.LoadReport, error) {
	out, report, err := readRecords(s.path(CitizensFile), models.CollectionCitizens, citizenFields,
		decodeCitizen, func(c models.Citizen) string { return c.ID })
	s.logSkipped(ctx, report)
	return out, report, err
}

func (s *Store) LoadCenters(ctx context.Context) ([]models.Center, models.LoadReport, error) {
	out, report, err := readRecords(s.path(CentersFile), models.CollectionCenters, centerFields,
		decodeCenter, func(c models.Center) string { return c.ID })
	s.logSkipped(ctx, report)
	return out, report, err
}

func (s *Store) LoadAppointments(ctx context.Context) ([]models.Appointment, models.LoadReport, error) {
	out, report, err := readRecords(s.path(AppointmentsFile), models.CollectionAppointments, appointmentFields,
		decodeAppointment, func(a models.Appointment) string { return a.ID })
	s.logSkipped(ctx, report)
	return out, report, err
}

func (s *Store) SaveCitizens(ctx context.Context, citizens []models.Citizen) error {
	rows := make([][]string, 0, len(citizens))
	for _, c := range citizens {
		rows = append(rows, encodeCitizen(c))
	}
	return s.save(ctx, CitizensFile, rows)
}

func (s *Store) SaveCenters(ctx context.Context, centers []models.Center) error {
	rows := make([][]string, 0, len(centers))
	for _, c := range centers {
		rows = append(rows, encodeCenter(c))
	}
	return s.save(ctx, CentersFile, rows)
}

func (s *Store) SaveAppointments(ctx context.Context, appointments []models.Appointment) error {
	rows := make([][]string, 0, len(appointments))
	for _, a := range appointments {
		rows = append(rows, encodeAppointment(a))
	}
	return s.save(ctx, AppointmentsFile, rows)
}

func (s *Store) save(ctx context.Context, name string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := writeRecords(s.path(name), rows); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) logSkipped(ctx context.Context, report models.LoadReport) {
	if s.logger == nil {
		return
	}
	for _, rec := range report.Skipped {
		s.logger.WarnContext(ctx, "skipped malformed record",
			"collection", report.Collection,
			"line", rec.Line,
			"reason", rec.Reason,
		)
	}
}
