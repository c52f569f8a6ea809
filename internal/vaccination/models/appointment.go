package models

import (
	"fmt"
	"strings"

	dErrors "vaxreg/pkg/domain-errors"
)

// DoseKind marks which vaccination event an appointment represents.
type DoseKind string

const (
	DoseFirst  DoseKind = "FIRST"
	DoseSecond DoseKind = "SECOND"
)

// ParseDoseKind accepts FIRST/SECOND (any case) and the legacy DOSE1/DOSE2
// spellings found in older data files.
func ParseDoseKind(s string) (DoseKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIRST", "DOSE1", "1":
		return DoseFirst, nil
	case "SECOND", "DOSE2", "2":
		return DoseSecond, nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidFormat, "unknown dose kind %q", s)
	}
}

func (k DoseKind) String() string { return string(k) }

// IsValid reports whether k is one of the declared kinds.
func (k DoseKind) IsValid() bool {
	return k == DoseFirst || k == DoseSecond
}

// Appointment books one dose for one citizen at one center on one day.
// It is never mutated after creation; completion lives on the Citizen.
type Appointment struct {
	ID        string   `json:"id"`
	CitizenID string   `json:"citizen_id"`
	CenterID  string   `json:"center_id"`
	Dose      DoseKind `json:"dose"`
	Date      Date     `json:"date"`
}

func (a Appointment) String() string {
	return fmt.Sprintf("%s,%s,%s,%s,%s", a.ID, a.CitizenID, a.CenterID, a.Dose, a.Date)
}

// Reminder is the notification emitted for a next-day appointment.
type Reminder struct {
	AppointmentID string   `json:"appointment_id"`
	CitizenID     string   `json:"citizen_id"`
	CitizenName   string   `json:"citizen_name"`
	Phone         string   `json:"phone"`
	CenterID      string   `json:"center_id"`
	CenterName    string   `json:"center_name,omitempty"`
	Dose          DoseKind `json:"dose"`
	Date          Date     `json:"date"`
}

// DedupeKey identifies the reminder for one appointment on one day.
func (r Reminder) DedupeKey() string {
	return r.AppointmentID + ":" + r.Date.String()
}

func (r Reminder) String() string {
	return fmt.Sprintf("%s (%s) at center %s for %s on %s", r.CitizenName, r.Phone, r.CenterID, r.Dose, r.Date)
}
