//go:build integration

package amqp

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"vaxreg/internal/vaccination/models"
	"vaxreg/pkg/testutil/containers"
)

func TestPublisherDeliversToQueue(t *testing.T) {
	url := containers.NewRabbitMQ(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, err := New(url, "test.reminders")
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Notify(ctx, models.Reminder{
		AppointmentID: "a1",
		Date:          models.MustDate(2024, time.January, 11),
	}))

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	var msg amqp.Delivery
	require.Eventually(t, func() bool {
		var ok bool
		msg, ok, err = ch.Get("test.reminders", true)
		return err == nil && ok
	}, 10*time.Second, 100*time.Millisecond)
	require.Equal(t, "a1:2024-01-11", msg.MessageId)
}
