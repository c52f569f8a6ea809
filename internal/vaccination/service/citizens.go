package service

import (
	"context"

	"vaxreg/internal/vaccination/models"
	dErrors "vaxreg/pkg/domain-errors"
	"vaxreg/pkg/platform/audit"
)

// RegisterCitizen validates age, phone and ID (first failure wins), rejects a
// known ID and persists the citizen collection.
//
// When the save fails the citizen is still registered in memory: the record
// is returned together with a CodePersistenceFailure error.
func (r *Registry) RegisterCitizen(ctx context.Context, name string, age int, phone, id string) (_ *models.Citizen, err error) {
	ctx, span := r.startSpan(ctx, "RegisterCitizen")
	defer func() { endSpan(span, err) }()

	c, err := models.NewCitizen(name, age, phone, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.citizens[id]; exists {
		return nil, dErrors.Newf(dErrors.CodeDuplicateEntity, "citizen %s already registered", id)
	}
	r.citizens[id] = c
	r.citizenOrder = append(r.citizenOrder, id)
	r.metrics.IncrementCitizensRegistered()
	r.emitAudit(ctx, audit.EventCitizenRegistered, id, nil)

	out := *c
	err = r.persist(ctx, models.CollectionCitizens, "citizen registered but not saved", func() error {
		return r.store.SaveCitizens(ctx, r.citizenSnapshot())
	})
	return &out, err
}

// FindCitizen returns a copy of the citizen with the given national ID.
func (r *Registry) FindCitizen(ctx context.Context, id string) (*models.Citizen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.citizens[id]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "citizen %s not found", id)
	}
	out := *c
	return &out, nil
}

// ListCitizens returns every citizen in registration order.
func (r *Registry) ListCitizens(ctx context.Context) []models.Citizen {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.citizenSnapshot()
}

// MarkDoseCompleted sets the completion flag matching the appointment's dose
// kind on its citizen. Marking an already-completed dose is a no-op and
// skips the save.
func (r *Registry) MarkDoseCompleted(ctx context.Context, appointmentID string) (_ *models.Citizen, err error) {
	ctx, span := r.startSpan(ctx, "MarkDoseCompleted")
	defer func() { endSpan(span, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.apptIndex[appointmentID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "appointment %s not found", appointmentID)
	}
	appt := r.appointments[idx]
	c, ok := r.citizens[appt.CitizenID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "citizen %s for appointment %s not found", appt.CitizenID, appointmentID)
	}

	if !c.MarkDose(appt.Dose) {
		out := *c
		return &out, nil
	}
	r.metrics.IncrementDoseCompleted(appt.Dose.String())
	r.emitAudit(ctx, audit.EventDoseCompleted, c.ID, map[string]string{
		"appointment_id": appt.ID,
		"dose":           appt.Dose.String(),
	})

	out := *c
	err = r.persist(ctx, models.CollectionCitizens, "dose marked but not saved", func() error {
		return r.store.SaveCitizens(ctx, r.citizenSnapshot())
	})
	return &out, err
}
