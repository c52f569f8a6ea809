package bootstrap

import (
	"context"
	"log/slog"

	"vaxreg/internal/vaccination/models"
	dErrors "vaxreg/pkg/domain-errors"
)

// DefaultCenters are added when a registry starts with no centers.
var DefaultCenters = []models.Center{
	{ID: "C001", Name: "City Hospital", Location: "Solapur", DailyCapacity: 5},
	{ID: "C002", Name: "Health Clinic", Location: "Solapur East", DailyCapacity: 3},
}

// CenterRegistry is what seeding needs from the registry.
type CenterRegistry interface {
	ListCenters(ctx context.Context) []models.Center
	AddCenter(ctx context.Context, id, name, location string, capacity int) (*models.Center, error)
}

// SeedCenters adds centers when reg has no centers at all. A center that is
// added but cannot be saved stays in memory and is only logged; any other
// failure is returned.
func SeedCenters(ctx context.Context, reg CenterRegistry, centers []models.Center, logger *slog.Logger) error {
	if len(reg.ListCenters(ctx)) > 0 {
		return nil
	}
	for _, c := range centers {
		_, err := reg.AddCenter(ctx, c.ID, c.Name, c.Location, c.DailyCapacity)
		if dErrors.HasCode(err, dErrors.CodePersistenceFailure) {
			logger.WarnContext(ctx, "seeded center not persisted", "center_id", c.ID, "error", err)
			continue
		}
		if err != nil {
			return err
		}
	}
	logger.InfoContext(ctx, "seeded centers", "count", len(centers))
	return nil
}
