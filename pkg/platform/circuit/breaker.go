// Package circuit wraps sony/gobreaker with the settings every external
// reminder sink shares: trip after consecutive failures, try again after
// an open timeout.
package circuit

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"vaxreg/pkg/platform/sentinel"
)

// State mirrors the breaker state without leaking the gobreaker type.
type State string

const (
	StateClosed   State = "closed"
	StateHalfOpen State = "half-open"
	StateOpen     State = "open"
)

const (
	DefaultFailureThreshold = 3
	DefaultOpenTimeout      = 30 * time.Second
	DefaultHalfOpenRequests = 3
)

// ErrOpen is returned by Execute while the breaker rejects calls. It wraps
// sentinel.ErrUnavailable.
var ErrOpen = fmt.Errorf("circuit open: %w", sentinel.ErrUnavailable)

type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

type config struct {
	failureThreshold uint32
	openTimeout      time.Duration
	halfOpenRequests uint32
	logger           *slog.Logger
}

type Option func(*config)

// WithFailureThreshold sets how many consecutive failures open the breaker.
func WithFailureThreshold(n uint32) Option {
	return func(c *config) {
		if n > 0 {
			c.failureThreshold = n
		}
	}
}

// WithOpenTimeout sets how long the breaker stays open before probing.
func WithOpenTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.openTimeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func New(name string, opts ...Option) *Breaker {
	c := config{
		failureThreshold: DefaultFailureThreshold,
		openTimeout:      DefaultOpenTimeout,
		halfOpenRequests: DefaultHalfOpenRequests,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(&c)
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: c.halfOpenRequests,
		Timeout:     c.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})}
}

// Execute runs fn unless the breaker is open. Rejections wrap ErrOpen.
func (b *Breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(ErrOpen, err)
	}
	return err
}

func (b *Breaker) Name() string { return b.cb.Name() }

func (b *Breaker) IsOpen() bool { return b.State() == StateOpen }

func (b *Breaker) State() State {
	switch b.cb.State() {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}
