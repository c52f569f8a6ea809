package handler

import (
	"strings"

	"vaxreg/internal/vaccination/models"
	dErrors "vaxreg/pkg/domain-errors"
)

// RegisterCitizenRequest is the body of POST /citizens.
type RegisterCitizenRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Phone string `json:"phone"`
}

func (r *RegisterCitizenRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.ID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "id is required")
	}
	return nil
}

// AddCenterRequest is the body of POST /centers.
type AddCenterRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	DailyCapacity int    `json:"daily_capacity"`
}

func (r *AddCenterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

// UpdateCapacityRequest is the body of PUT /centers/{id}/capacity.
type UpdateCapacityRequest struct {
	DailyCapacity int `json:"daily_capacity"`
}

func (r *UpdateCapacityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

// BookAppointmentRequest is the body of POST /appointments.
type BookAppointmentRequest struct {
	CitizenID string `json:"citizen_id"`
	CenterID  string `json:"center_id"`
	Dose      string `json:"dose"`
	Date      string `json:"date"`

	// Parsed values (populated by Validate)
	dose models.DoseKind
	date models.Date
}

func (r *BookAppointmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.CitizenID = strings.TrimSpace(r.CitizenID)
	r.CenterID = strings.TrimSpace(r.CenterID)
	if r.CitizenID == "" || r.CenterID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "citizen_id and center_id are required")
	}

	dose, err := models.ParseDoseKind(r.Dose)
	if err != nil {
		return err
	}
	r.dose = dose

	date, err := models.ParseDate(strings.TrimSpace(r.Date))
	if err != nil {
		return err
	}
	r.date = date
	return nil
}
