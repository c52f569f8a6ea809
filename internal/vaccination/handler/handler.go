// Package handler exposes the vaccination registry over HTTP.
package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaxreg/internal/vaccination/models"
	"vaxreg/internal/vaccination/report"
	dErrors "vaxreg/pkg/domain-errors"
	"vaxreg/pkg/platform/httputil"
	"vaxreg/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service is the subset of the Registry the HTTP layer calls.
type Service interface {
	RegisterCitizen(ctx context.Context, name string, age int, phone, id string) (*models.Citizen, error)
	FindCitizen(ctx context.Context, id string) (*models.Citizen, error)
	ListCitizens(ctx context.Context) []models.Citizen
	FindAppointmentsByCitizen(ctx context.Context, citizenID string) []models.Appointment
	AddCenter(ctx context.Context, id, name, location string, capacity int) (*models.Center, error)
	GetCenter(ctx context.Context, id string) (*models.Center, error)
	ListCenters(ctx context.Context) []models.Center
	UpdateCenterCapacity(ctx context.Context, id string, capacity int) (*models.Center, error)
	BookAppointment(ctx context.Context, citizenID, centerID string, dose models.DoseKind, date models.Date) (*models.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	MarkDoseCompleted(ctx context.Context, appointmentID string) (*models.Citizen, error)
	DoseSummary(ctx context.Context) []models.CenterDoses
	DosesPerCenter(ctx context.Context) map[string]int
}

// Handler wires registry endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)

	r.Route("/citizens", func(r chi.Router) {
		r.Post("/", h.HandleRegisterCitizen)
		r.Get("/", h.HandleListCitizens)
		r.Get("/{id}", h.HandleGetCitizen)
		r.Get("/{id}/appointments", h.HandleCitizenAppointments)
	})
	r.Route("/centers", func(r chi.Router) {
		r.Post("/", h.HandleAddCenter)
		r.Get("/", h.HandleListCenters)
		r.Get("/{id}", h.HandleGetCenter)
		r.Put("/{id}/capacity", h.HandleUpdateCapacity)
	})
	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", h.HandleBookAppointment)
		r.Get("/{id}", h.HandleGetAppointment)
		r.Post("/{id}/complete", h.HandleCompleteDose)
	})
	r.Get("/reports/doses-per-center", h.HandleDoseReport)
	r.Get("/reports/doses-per-center.xlsx", h.HandleDoseWorkbook)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleRegisterCitizen handles POST /citizens.
func (h *Handler) HandleRegisterCitizen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterCitizenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	citizen, err := h.service.RegisterCitizen(ctx, req.Name, req.Age, req.Phone, req.ID)
	if citizen != nil && isNotPersisted(err) {
		h.notPersisted(ctx, w, "citizen registered but not saved", err, toCitizenResponse(*citizen), "citizen_id", req.ID)
		return
	}
	if err != nil {
		h.fail(ctx, w, "register citizen failed", err, "citizen_id", req.ID)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCitizenResponse(*citizen))
}

func (h *Handler) HandleListCitizens(w http.ResponseWriter, r *http.Request) {
	citizens := h.service.ListCitizens(r.Context())
	resp := CitizenListResponse{Citizens: make([]CitizenResponse, 0, len(citizens))}
	for _, c := range citizens {
		resp.Citizens = append(resp.Citizens, toCitizenResponse(c))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGetCitizen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	citizen, err := h.service.FindCitizen(ctx, id)
	if err != nil {
		h.fail(ctx, w, "find citizen failed", err, "citizen_id", id)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCitizenResponse(*citizen))
}

// HandleCitizenAppointments lists a citizen's appointments by date. An
// unknown citizen is a 404 rather than an empty list.
func (h *Handler) HandleCitizenAppointments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if _, err := h.service.FindCitizen(ctx, id); err != nil {
		h.fail(ctx, w, "find citizen failed", err, "citizen_id", id)
		return
	}
	appts := h.service.FindAppointmentsByCitizen(ctx, id)
	if appts == nil {
		appts = []models.Appointment{}
	}
	httputil.WriteJSON(w, http.StatusOK, AppointmentListResponse{Appointments: appts})
}

func (h *Handler) HandleAddCenter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddCenterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	center, err := h.service.AddCenter(ctx, req.ID, req.Name, req.Location, req.DailyCapacity)
	if center != nil && isNotPersisted(err) {
		h.notPersisted(ctx, w, "center added but not saved", err, center, "center_id", req.ID)
		return
	}
	if err != nil {
		h.fail(ctx, w, "add center failed", err, "center_id", req.ID)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, center)
}

func (h *Handler) HandleListCenters(w http.ResponseWriter, r *http.Request) {
	centers := h.service.ListCenters(r.Context())
	if centers == nil {
		centers = []models.Center{}
	}
	httputil.WriteJSON(w, http.StatusOK, CenterListResponse{Centers: centers})
}

func (h *Handler) HandleGetCenter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	center, err := h.service.GetCenter(ctx, id)
	if err != nil {
		h.fail(ctx, w, "get center failed", err, "center_id", id)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, center)
}

func (h *Handler) HandleUpdateCapacity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id := chi.URLParam(r, "id")

	req, ok := httputil.DecodeAndPrepare[UpdateCapacityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	center, err := h.service.UpdateCenterCapacity(ctx, id, req.DailyCapacity)
	if center != nil && isNotPersisted(err) {
		h.notPersisted(ctx, w, "capacity updated but not saved", err, center, "center_id", id)
		return
	}
	if err != nil {
		h.fail(ctx, w, "update capacity failed", err, "center_id", id)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, center)
}

// HandleBookAppointment handles POST /appointments.
func (h *Handler) HandleBookAppointment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BookAppointmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	appt, err := h.service.BookAppointment(ctx, req.CitizenID, req.CenterID, req.dose, req.date)
	if appt != nil && isNotPersisted(err) {
		h.notPersisted(ctx, w, "appointment booked but not saved", err, appt, "appointment_id", appt.ID)
		return
	}
	if err != nil {
		h.fail(ctx, w, "book appointment failed", err,
			"citizen_id", req.CitizenID,
			"center_id", req.CenterID,
			"date", req.date.String(),
		)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, appt)
}

func (h *Handler) HandleGetAppointment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	appt, err := h.service.GetAppointment(ctx, id)
	if err != nil {
		h.fail(ctx, w, "get appointment failed", err, "appointment_id", id)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, appt)
}

// HandleCompleteDose marks the appointment's dose complete and returns the
// updated citizen.
func (h *Handler) HandleCompleteDose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	citizen, err := h.service.MarkDoseCompleted(ctx, id)
	if citizen != nil && isNotPersisted(err) {
		h.notPersisted(ctx, w, "dose marked but not saved", err, toCitizenResponse(*citizen), "appointment_id", id)
		return
	}
	if err != nil {
		h.fail(ctx, w, "mark dose failed", err, "appointment_id", id)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCitizenResponse(*citizen))
}

func (h *Handler) HandleDoseReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	httputil.WriteJSON(w, http.StatusOK, DoseReportResponse{
		Centers: h.service.DoseSummary(ctx),
		Counts:  h.service.DosesPerCenter(ctx),
	})
}

// HandleDoseWorkbook renders the summary into a buffer first so a render
// failure can still produce a JSON error.
func (h *Handler) HandleDoseWorkbook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, h.service.DoseSummary(ctx)); err != nil {
		h.fail(ctx, w, "render dose workbook failed", dErrors.Wrap(err, dErrors.CodeInternal, "render workbook"))
		return
	}
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="doses-per-center.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// NotPersistedDescription is the client-facing text for a change kept in
// memory after its save failed. The I/O error itself is only logged.
const NotPersistedDescription = "saved in memory, not persisted"

func isNotPersisted(err error) bool {
	return dErrors.HasCode(err, dErrors.CodePersistenceFailure)
}

// notPersisted reports a failed save together with the record the call
// produced, so the caller still learns IDs such as a new appointment's.
func (h *Handler) notPersisted(ctx context.Context, w http.ResponseWriter, msg string, err error, record any, attrs ...any) {
	args := append([]any{"request_id", requestcontext.RequestID(ctx), "error", err}, attrs...)
	h.logger.ErrorContext(ctx, msg, args...)
	httputil.WriteJSON(w, http.StatusInternalServerError, NotPersistedResponse{
		Error:            string(dErrors.CodePersistenceFailure),
		ErrorDescription: NotPersistedDescription,
		Record:           record,
	})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	args := append([]any{"request_id", requestcontext.RequestID(ctx), "error", err}, attrs...)
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	httputil.WriteError(w, err)
}
