package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vaxreg/internal/vaccination/models"
)

// Notifier delivers one reminder. Implementations must be safe for use by
// one scheduler goroutine at a time; the publishers are also safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, r models.Reminder) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, r models.Reminder) error

func (f NotifierFunc) Notify(ctx context.Context, r models.Reminder) error {
	return f(ctx, r)
}

// LogNotifier writes each reminder as an INFO log line. It is the default
// sink when nothing else is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, r models.Reminder) error {
	n.logger.InfoContext(ctx, "appointment reminder",
		"appointment_id", r.AppointmentID,
		"citizen", r.CitizenName,
		"phone", r.Phone,
		"center_id", r.CenterID,
		"center", r.CenterName,
		"dose", r.Dose,
		"date", r.Date,
	)
	return nil
}

// Fanout calls every notifier in order and joins their errors. One failing
// sink never stops delivery to the others.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, r models.Reminder) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", n, err))
		}
	}
	return errors.Join(errs...)
}
