// Package kafka produces reminders to a Kafka topic keyed by appointment ID.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"vaxreg/internal/vaccination/models"
	"vaxreg/pkg/platform/circuit"
)

const (
	DefaultTopic = "vaxreg.reminders"
	// DefaultDeliveryTimeout caps how long a record may sit in retries before
	// ProduceSync gives up, so an unreachable broker surfaces as an error.
	DefaultDeliveryTimeout = 10 * time.Second
)

type Publisher struct {
	client          *kgo.Client
	topic           string
	cb              *circuit.Breaker
	deliveryTimeout time.Duration
}

type Option func(*Publisher)

func WithBreaker(cb *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.cb = cb
	}
}

func WithDeliveryTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.deliveryTimeout = d
		}
	}
}

// New connects a producer to brokers. The client is lazy: brokers are only
// dialled on the first request.
func New(brokers []string, topic string, opts ...Option) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no seed brokers")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	p := &Publisher{topic: topic, deliveryTimeout: DefaultDeliveryTimeout}
	for _, opt := range opts {
		opt(p)
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordDeliveryTimeout(p.deliveryTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	p.client = client
	if p.cb == nil {
		p.cb = circuit.New("reminders-kafka")
	}
	return p, nil
}

// EnsureTopic creates the topic when it does not exist yet.
func (p *Publisher) EnsureTopic(ctx context.Context, partitions int32, replication int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

func (p *Publisher) Notify(ctx context.Context, r models.Reminder) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(r.AppointmentID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "dedupe_key", Value: []byte(r.DedupeKey())},
		},
	}
	return p.cb.Execute(func() error {
		if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
			return fmt.Errorf("produce to %s: %w", p.topic, err)
		}
		return nil
	})
}

func (p *Publisher) Close() {
	p.client.Close()
}
