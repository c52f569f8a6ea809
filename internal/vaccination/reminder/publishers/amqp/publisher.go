// Package amqp publishes reminders to a durable RabbitMQ queue.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"vaxreg/internal/vaccination/models"
	"vaxreg/pkg/platform/circuit"
)

const DefaultQueue = "vaxreg.reminders"

type Publisher struct {
	conn  *amqp.Connection
	mu    sync.Mutex // guards ch; a channel is not safe for concurrent publishing
	ch    *amqp.Channel
	queue string
	cb    *circuit.Breaker
}

type Option func(*Publisher)

func WithBreaker(cb *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.cb = cb
	}
}

// New dials url and declares the queue (idempotent).
func New(url, queue string, opts ...Option) (*Publisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	p := &Publisher{conn: conn, ch: ch, queue: queue}
	for _, opt := range opts {
		opt(p)
	}
	if p.cb == nil {
		p.cb = circuit.New("reminders-amqp")
	}
	return p, nil
}

func (p *Publisher) Notify(ctx context.Context, r models.Reminder) error {
	msg, err := newPublishing(r, time.Now())
	if err != nil {
		return err
	}
	return p.cb.Execute(func() error {
		p.mu.Lock()
		defer p.mu.Unlock()
		if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
			return fmt.Errorf("publish to %s: %w", p.queue, err)
		}
		return nil
	})
}

func newPublishing(r models.Reminder, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode reminder: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    r.DedupeKey(),
		Timestamp:    now,
		Type:         "appointment.reminder",
		Body:         body,
	}, nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
