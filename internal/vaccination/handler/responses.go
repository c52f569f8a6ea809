package handler

import "vaxreg/internal/vaccination/models"

// CitizenResponse wraps a citizen with its console rendering.
type CitizenResponse struct {
	models.Citizen
	Display string `json:"display"`
}

func toCitizenResponse(c models.Citizen) CitizenResponse {
	return CitizenResponse{Citizen: c, Display: c.String()}
}

type CitizenListResponse struct {
	Citizens []CitizenResponse `json:"citizens"`
}

type CenterListResponse struct {
	Centers []models.Center `json:"centers"`
}

type AppointmentListResponse struct {
	Appointments []models.Appointment `json:"appointments"`
}

// DoseReportResponse carries the ordered summary and the plain ID-keyed counts.
type DoseReportResponse struct {
	Centers []models.CenterDoses `json:"centers"`
	Counts  map[string]int       `json:"counts"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// NotPersistedResponse answers a change that is held in memory but could not
// be saved. Record is what the call produced, e.g. the booked appointment.
type NotPersistedResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Record           any    `json:"record"`
}
