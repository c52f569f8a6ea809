// Package redisstream appends reminders to a Redis stream for downstream
// SMS or push workers.
package redisstream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vaxreg/internal/vaccination/models"
	"vaxreg/pkg/platform/circuit"
)

const (
	DefaultStream = "vaxreg:reminders"
	// DefaultMaxLen caps the stream so an idle consumer cannot grow it forever.
	DefaultMaxLen = 100_000
)

type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
	cb     *circuit.Breaker
}

type Option func(*Publisher)

func WithMaxLen(n int64) Option {
	return func(p *Publisher) {
		p.maxLen = n
	}
}

func WithBreaker(cb *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.cb = cb
	}
}

func New(client *redis.Client, stream string, opts ...Option) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	p := &Publisher{
		client: client,
		stream: stream,
		maxLen: DefaultMaxLen,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cb == nil {
		p.cb = circuit.New("reminders-redis")
	}
	return p
}

// Notify XADDs one entry holding the reminder as JSON plus the fields
// consumers filter on.
func (p *Publisher) Notify(ctx context.Context, r models.Reminder) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}
	return p.cb.Execute(func() error {
		err := p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: p.maxLen,
			Approx: true,
			Values: map[string]any{
				"appointment_id": r.AppointmentID,
				"date":           r.Date.String(),
				"payload":        payload,
			},
		}).Err()
		if err != nil {
			return fmt.Errorf("xadd %s: %w", p.stream, err)
		}
		return nil
	})
}

func (p *Publisher) Stream() string { return p.stream }
