package service

import (
	"context"
	"slices"

	"vaxreg/internal/vaccination/models"
)

// DosesPerCenter counts appointments per center ID. Every known center
// starts at zero; appointments for unknown centers are counted under their
// own ID.
func (r *Registry) DosesPerCenter(ctx context.Context) map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int, len(r.centers))
	for id := range r.centers {
		out[id] = 0
	}
	for _, a := range r.appointments {
		out[a.CenterID]++
	}
	return out
}

// DoseSummary is DosesPerCenter in a stable order: known centers in listing
// order, then unknown center IDs sorted.
func (r *Registry) DoseSummary(ctx context.Context) []models.CenterDoses {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int, len(r.centers))
	for _, a := range r.appointments {
		counts[a.CenterID]++
	}

	out := make([]models.CenterDoses, 0, len(counts)+len(r.centerOrder))
	for _, id := range r.centerOrder {
		out = append(out, models.CenterDoses{CenterID: id, CenterName: r.centers[id].Name, Doses: counts[id]})
		delete(counts, id)
	}
	orphans := make([]string, 0, len(counts))
	for id := range counts {
		orphans = append(orphans, id)
	}
	slices.Sort(orphans)
	for _, id := range orphans {
		out = append(out, models.CenterDoses{CenterID: id, Doses: counts[id]})
	}
	return out
}
