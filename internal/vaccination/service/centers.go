package service

import (
	"context"
	"strconv"

	"vaxreg/internal/vaccination/models"
	dErrors "vaxreg/pkg/domain-errors"
	"vaxreg/pkg/platform/audit"
)

// AddCenter creates a center. An existing ID is never overwritten.
func (r *Registry) AddCenter(ctx context.Context, id, name, location string, capacity int) (_ *models.Center, err error) {
	ctx, span := r.startSpan(ctx, "AddCenter")
	defer func() { endSpan(span, err) }()

	c, err := models.NewCenter(id, name, location, capacity)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.centers[id]; exists {
		return nil, dErrors.Newf(dErrors.CodeDuplicateEntity, "center %s already exists", id)
	}
	r.centers[id] = c
	r.centerOrder = append(r.centerOrder, id)
	r.emitAudit(ctx, audit.EventCenterAdded, id, map[string]string{"capacity": strconv.Itoa(capacity)})

	out := *c
	err = r.persist(ctx, models.CollectionCenters, "center added but not saved", func() error {
		return r.store.SaveCenters(ctx, r.centerSnapshot())
	})
	return &out, err
}

func (r *Registry) GetCenter(ctx context.Context, id string) (*models.Center, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.centers[id]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "center %s not found", id)
	}
	out := *c
	return &out, nil
}

// ListCenters returns a snapshot in insertion order.
func (r *Registry) ListCenters(ctx context.Context) []models.Center {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.centerSnapshot()
}

// UpdateCenterCapacity changes the daily capacity for future bookings.
// Appointments already booked beyond the new capacity stay in place.
func (r *Registry) UpdateCenterCapacity(ctx context.Context, id string, capacity int) (_ *models.Center, err error) {
	ctx, span := r.startSpan(ctx, "UpdateCenterCapacity")
	defer func() { endSpan(span, err) }()

	if err := models.ValidateCapacity(capacity); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.centers[id]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "center %s not found", id)
	}
	previous := c.DailyCapacity
	c.DailyCapacity = capacity
	r.emitAudit(ctx, audit.EventCenterCapacityUpdated, id, map[string]string{
		"previous": strconv.Itoa(previous),
		"capacity": strconv.Itoa(capacity),
	})

	out := *c
	err = r.persist(ctx, models.CollectionCenters, "capacity updated but not saved", func() error {
		return r.store.SaveCenters(ctx, r.centerSnapshot())
	})
	return &out, err
}
