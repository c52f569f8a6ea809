package service

import (
	"context"
	"slices"

	"vaxreg/internal/vaccination/metrics"
	"vaxreg/internal/vaccination/models"
	dErrors "vaxreg/pkg/domain-errors"
	"vaxreg/pkg/platform/audit"
)

// BookAppointment admits the booking only while the (center, date) slot
// count is below the center's daily capacity. There is no waitlist.
//
// Checks run in order: citizen exists, center exists, a SECOND dose
// requires dose 1 completed, then capacity.
func (r *Registry) BookAppointment(ctx context.Context, citizenID, centerID string, dose models.DoseKind, date models.Date) (_ *models.Appointment, err error) {
	defer observe(r.metrics.ObserveBook)()
	ctx, span := r.startSpan(ctx, "BookAppointment")
	defer func() { endSpan(span, err) }()

	if !dose.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidFormat, "unknown dose kind %q", dose)
	}
	if date.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidFormat, "appointment date required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	citizen, ok := r.citizens[citizenID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "citizen %s not found", citizenID)
	}
	center, ok := r.centers[centerID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "center %s not found", centerID)
	}
	if dose == models.DoseSecond && !citizen.Dose1Completed {
		r.metrics.IncrementBooking(metrics.OutcomeIneligible)
		return nil, dErrors.New(dErrors.CodeIneligibleTransition, "first dose not completed")
	}

	key := slotKey{centerID: centerID, date: date}
	if r.slots[key] >= center.DailyCapacity {
		r.metrics.IncrementBooking(metrics.OutcomeCapacityExceeded)
		return nil, dErrors.Newf(dErrors.CodeCapacityExceeded, "no slots available at %s on %s", center.Name, date)
	}

	id := r.newID()
	for _, taken := r.apptIndex[id]; taken; _, taken = r.apptIndex[id] {
		id = r.newID()
	}
	appt := models.Appointment{
		ID:        id,
		CitizenID: citizenID,
		CenterID:  centerID,
		Dose:      dose,
		Date:      date,
	}
	r.insertAppointment(appt)
	r.metrics.IncrementBooking(metrics.OutcomeBooked)
	r.emitAudit(ctx, audit.EventAppointmentBooked, appt.ID, map[string]string{
		"citizen_id": citizenID,
		"center_id":  centerID,
		"dose":       dose.String(),
		"date":       date.String(),
	})

	out := appt
	err = r.persist(ctx, models.CollectionAppointments, "appointment booked but not saved", func() error {
		return r.store.SaveAppointments(ctx, append([]models.Appointment(nil), r.appointments...))
	})
	return &out, err
}

// FindAppointmentsByCitizen returns the citizen's appointments sorted by
// date. Appointments on the same date keep booking order.
func (r *Registry) FindAppointmentsByCitizen(ctx context.Context, citizenID string) []models.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Appointment
	for _, a := range r.appointments {
		if a.CitizenID == citizenID {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Appointment) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// GetAppointment returns the appointment with the given ID.
func (r *Registry) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.apptIndex[id]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "appointment %s not found", id)
	}
	out := r.appointments[idx]
	return &out, nil
}

// AppointmentsOn returns every appointment booked for date, in booking order.
func (r *Registry) AppointmentsOn(ctx context.Context, date models.Date) []models.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Appointment
	for _, a := range r.appointments {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out
}

// SlotsTaken reports how many appointments the center holds on date.
func (r *Registry) SlotsTaken(ctx context.Context, centerID string, date models.Date) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slots[slotKey{centerID: centerID, date: date}]
}
