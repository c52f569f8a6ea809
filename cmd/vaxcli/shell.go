package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"vaxreg/internal/vaccination/models"
	"vaxreg/internal/vaccination/report"
	dErrors "vaxreg/pkg/domain-errors"
)

// Registry is what the console calls.
type Registry interface {
	RegisterCitizen(ctx context.Context, name string, age int, phone, id string) (*models.Citizen, error)
	FindCitizen(ctx context.Context, id string) (*models.Citizen, error)
	FindAppointmentsByCitizen(ctx context.Context, citizenID string) []models.Appointment
	ListCenters(ctx context.Context) []models.Center
	BookAppointment(ctx context.Context, citizenID, centerID string, dose models.DoseKind, date models.Date) (*models.Appointment, error)
	MarkDoseCompleted(ctx context.Context, appointmentID string) (*models.Citizen, error)
	DoseSummary(ctx context.Context) []models.CenterDoses
}

// errExit ends the menu loop.
var errExit = errors.New("exit")

// Shell is the numbered-menu console.
type Shell struct {
	reg Registry
	in  *bufio.Scanner
	out io.Writer
}

func NewShell(reg Registry, in io.Reader, out io.Writer) *Shell {
	return &Shell{reg: reg, in: bufio.NewScanner(in), out: out}
}

const menu = `
=== Vaccine Management System ===
1. Register Citizen
2. List Centers
3. Book Dose 1
4. Book Dose 2
5. Mark Dose Completed
6. Show Citizen Status
7. Export Doses per Center
8. Exit
`

// Run loops until the user exits, input ends or ctx is cancelled. Domain
// errors are printed and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(s.out, menu)
		choice, ok := s.prompt("Choose option: ")
		if !ok {
			return s.in.Err()
		}

		err := s.dispatch(ctx, choice)
		switch {
		case errors.Is(err, errExit):
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			fmt.Fprintln(s.out, "Error:", describe(err))
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return s.registerCitizen(ctx)
	case "2":
		s.listCenters(ctx)
		return nil
	case "3":
		return s.bookDose(ctx, models.DoseFirst)
	case "4":
		return s.bookDose(ctx, models.DoseSecond)
	case "5":
		return s.markCompleted(ctx)
	case "6":
		return s.showStatus(ctx)
	case "7":
		return s.exportReport(ctx)
	case "8":
		return errExit
	default:
		fmt.Fprintln(s.out, "Invalid option.")
		return nil
	}
}

func (s *Shell) registerCitizen(ctx context.Context) error {
	name, err := s.field("Name: ")
	if err != nil {
		return err
	}
	ageText, err := s.field("Age: ")
	if err != nil {
		return err
	}
	age, convErr := strconv.Atoi(ageText)
	if convErr != nil {
		return dErrors.New(dErrors.CodeInvalidFormat, "age must be a whole number")
	}
	phone, err := s.field("Phone (10 digits): ")
	if err != nil {
		return err
	}
	id, err := s.field("National ID (12 digits): ")
	if err != nil {
		return err
	}

	c, err := s.reg.RegisterCitizen(ctx, name, age, phone, id)
	if c == nil {
		return err
	}
	fmt.Fprintln(s.out, "Citizen registered.")
	return s.notSaved(err)
}

func (s *Shell) listCenters(ctx context.Context) {
	fmt.Fprintln(s.out, "--- Centers ---")
	for _, c := range s.reg.ListCenters(ctx) {
		fmt.Fprintln(s.out, c)
	}
}

func (s *Shell) bookDose(ctx context.Context, dose models.DoseKind) error {
	citizenID, err := s.field("National ID: ")
	if err != nil {
		return err
	}
	centerID, err := s.field("Center ID: ")
	if err != nil {
		return err
	}
	dateText, err := s.field("Date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	date, err := models.ParseDate(dateText)
	if err != nil {
		return err
	}

	appt, err := s.reg.BookAppointment(ctx, citizenID, centerID, dose, date)
	if appt == nil {
		return err
	}
	fmt.Fprintln(s.out, "Booked:", appt.ID)
	return s.notSaved(err)
}

func (s *Shell) markCompleted(ctx context.Context) error {
	id, err := s.field("Appointment ID: ")
	if err != nil {
		return err
	}
	c, err := s.reg.MarkDoseCompleted(ctx, id)
	if c == nil {
		return err
	}
	fmt.Fprintln(s.out, "Dose marked completed.")
	fmt.Fprintln(s.out, c)
	return s.notSaved(err)
}

func (s *Shell) showStatus(ctx context.Context) error {
	id, err := s.field("National ID: ")
	if err != nil {
		return err
	}
	c, err := s.reg.FindCitizen(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, c)

	appts := s.reg.FindAppointmentsByCitizen(ctx, id)
	if len(appts) == 0 {
		fmt.Fprintln(s.out, "No appointments.")
		return nil
	}
	fmt.Fprintln(s.out, "Appointments:")
	for _, a := range appts {
		fmt.Fprintln(s.out, " -", a)
	}
	return nil
}

func (s *Shell) exportReport(ctx context.Context) error {
	path, err := s.field("Output file [doses-per-center.xlsx]: ")
	if err != nil {
		return err
	}
	if path == "" {
		path = "doses-per-center.xlsx"
	}

	summary := s.reg.DoseSummary(ctx)
	for _, row := range summary {
		fmt.Fprintf(s.out, "%s: %d\n", row.CenterID, row.Doses)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := report.WriteWorkbook(f, summary); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Fprintln(s.out, "Report written to", path)
	return nil
}

func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// field is prompt for a required answer; end of input aborts the loop.
func (s *Shell) field(label string) (string, error) {
	v, ok := s.prompt(label)
	if !ok {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return v, nil
}

// notSaved prints a warning for a change that took effect but was not
// written to disk and lets the menu carry on. Other errors pass through.
func (s *Shell) notSaved(err error) error {
	if dErrors.HasCode(err, dErrors.CodePersistenceFailure) {
		fmt.Fprintf(s.out, "Warning: %s; kept in memory only.\n", describe(err))
		return nil
	}
	return err
}

func describe(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
