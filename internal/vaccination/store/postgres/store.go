// Package postgres stores the registry collections in PostgreSQL with the
// same contract as the flat-file store: best-effort loads that report bad
// rows, and full-collection rewrites inside one transaction.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"vaxreg/internal/vaccination/models"
	"vaxreg/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// Schema creates the three tables. position keeps insertion order so
// listings match the in-memory order after a reload.
const Schema = `
CREATE TABLE IF NOT EXISTS citizens (
	position        INTEGER NOT NULL,
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	age             INTEGER NOT NULL,
	phone           TEXT NOT NULL,
	dose1_completed BOOLEAN NOT NULL DEFAULT FALSE,
	dose2_completed BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS centers (
	position       INTEGER NOT NULL,
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	location       TEXT NOT NULL,
	daily_capacity INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS appointments (
	position         INTEGER NOT NULL,
	id               TEXT PRIMARY KEY,
	citizen_id       TEXT NOT NULL,
	center_id        TEXT NOT NULL,
	dose             TEXT NOT NULL,
	appointment_date DATE NOT NULL
);
CREATE INDEX IF NOT EXISTS appointments_center_date_idx ON appointments (center_id, appointment_date);
`

// Store persists the registry in PostgreSQL.
type Store struct {
	db        *sql.DB
	logger    *slog.Logger
	txTimeout time.Duration
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithTxTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.txTimeout = d
	}
}

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, txTimeout: defaultTxTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema creates missing tables. Safe to run on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) LoadCitizens(ctx context.Context) ([]models.Citizen, models.LoadReport, error) {
	report := models.LoadReport{Collection: models.CollectionCitizens}
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, age, phone, dose1_completed, dose2_completed FROM citizens ORDER BY position`)
	if err != nil {
		return nil, report, fmt.Errorf("load citizens: %w", err)
	}
	defer rows.Close()

	var out []models.Citizen
	for row := 1; rows.Next(); row++ {
		var (
			id, name, phone string
			age             int
			dose1, dose2    bool
		)
		if err := rows.Scan(&id, &name, &age, &phone, &dose1, &dose2); err != nil {
			return nil, report, fmt.Errorf("scan citizen: %w", err)
		}
		c, err := models.NewCitizen(name, age, phone, id)
		if err != nil {
			report.Skipped = append(report.Skipped, models.SkippedRecord{Line: row, Raw: id, Reason: err.Error()})
			continue
		}
		c.Dose1Completed, c.Dose2Completed = dose1, dose2
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, report, fmt.Errorf("load citizens: %w", err)
	}
	report.Loaded = len(out)
	s.logSkipped(ctx, report)
	return out, report, nil
}

func (s *Store) LoadCenters(ctx context.Context) ([]models.Center, models.LoadReport, error) {
	report := models.LoadReport{Collection: models.CollectionCenters}
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, location, daily_capacity FROM centers ORDER BY position`)
	if err != nil {
		return nil, report, fmt.Errorf("load centers: %w", err)
	}
	defer rows.Close()

	var out []models.Center
	for row := 1; rows.Next(); row++ {
		var (
			id, name, location string
			capacity           int
		)
		if err := rows.Scan(&id, &name, &location, &capacity); err != nil {
			return nil, report, fmt.Errorf("scan center: %w", err)
		}
		c, err := models.NewCenter(id, name, location, capacity)
		if err != nil {
			report.Skipped = append(report.Skipped, models.SkippedRecord{Line: row, Raw: id, Reason: err.Error()})
			continue
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, report, fmt.Errorf("load centers: %w", err)
	}
	report.Loaded = len(out)
	s.logSkipped(ctx, report)
	return out, report, nil
}

func (s *Store) LoadAppointments(ctx context.Context) ([]models.Appointment, models.LoadReport, error) {
	report := models.LoadReport{Collection: models.CollectionAppointments}
	rows, err := s.db.QueryContext(ctx, `SELECT id, citizen_id, center_id, dose, appointment_date::text FROM appointments ORDER BY position`)
	if err != nil {
		return nil, report, fmt.Errorf("load appointments: %w", err)
	}
	defer rows.Close()

	var out []models.Appointment
	for row := 1; rows.Next(); row++ {
		var id, citizenID, centerID, dose, date string
		if err := rows.Scan(&id, &citizenID, &centerID, &dose, &date); err != nil {
			return nil, report, fmt.Errorf("scan appointment: %w", err)
		}
		a, err := toAppointment(id, citizenID, centerID, dose, date)
		if err != nil {
			report.Skipped = append(report.Skipped, models.SkippedRecord{Line: row, Raw: id, Reason: err.Error()})
			continue
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, report, fmt.Errorf("load appointments: %w", err)
	}
	report.Loaded = len(out)
	s.logSkipped(ctx, report)
	return out, report, nil
}

func toAppointment(id, citizenID, centerID, dose, date string) (models.Appointment, error) {
	kind, err := models.ParseDoseKind(dose)
	if err != nil {
		return models.Appointment{}, err
	}
	d, err := models.ParseDate(date)
	if err != nil {
		return models.Appointment{}, err
	}
	return models.Appointment{ID: id, CitizenID: citizenID, CenterID: centerID, Dose: kind, Date: d}, nil
}

func (s *Store) SaveCitizens(ctx context.Context, citizens []models.Citizen) error {
	return s.rewrite(ctx, "citizens", func(tx *sql.Tx) error {
		for i, c := range citizens {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO citizens (position, id, name, age, phone, dose1_completed, dose2_completed) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				i, c.ID, c.Name, c.Age, c.Phone, c.Dose1Completed, c.Dose2Completed)
			if err != nil {
				return fmt.Errorf("insert citizen %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) SaveCenters(ctx context.Context, centers []models.Center) error {
	return s.rewrite(ctx, "centers", func(tx *sql.Tx) error {
		for i, c := range centers {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO centers (position, id, name, location, daily_capacity) VALUES ($1, $2, $3, $4, $5)`,
				i, c.ID, c.Name, c.Location, c.DailyCapacity)
			if err != nil {
				return fmt.Errorf("insert center %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) SaveAppointments(ctx context.Context, appointments []models.Appointment) error {
	return s.rewrite(ctx, "appointments", func(tx *sql.Tx) error {
		for i, a := range appointments {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO appointments (position, id, citizen_id, center_id, dose, appointment_date) VALUES ($1, $2, $3, $4, $5, $6)`,
				i, a.ID, a.CitizenID, a.CenterID, a.Dose.String(), a.Date.String())
			if err != nil {
				return fmt.Errorf("insert appointment %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

// rewrite replaces every row of table. When ctx already carries a
// transaction (tx.WithTx) the rewrite joins it and leaves the commit to the
// caller.
func (s *Store) rewrite(ctx context.Context, table string, insert func(*sql.Tx) error) error {
	if outer, ok := tx.From(ctx); ok {
		return replaceRows(ctx, outer, table, insert)
	}
	return s.RunInTx(ctx, func(ctx context.Context) error {
		t, _ := tx.From(ctx)
		return replaceRows(ctx, t, table, insert)
	})
}

func replaceRows(ctx context.Context, t *sql.Tx, table string, insert func(*sql.Tx) error) error {
	if _, err := t.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return insert(t)
}

// RunInTx runs fn inside one transaction carried on ctx. Saves called by fn
// commit or roll back together.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	t, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = t.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, t)); err != nil {
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) logSkipped(ctx context.Context, report models.LoadReport) {
	if s.logger == nil {
		return
	}
	for _, rec := range report.Skipped {
		s.logger.WarnContext(ctx, "skipped malformed row",
			"collection", report.Collection,
			"row", rec.Line,
			"id", rec.Raw,
			"reason", rec.Reason,
		)
	}
}
