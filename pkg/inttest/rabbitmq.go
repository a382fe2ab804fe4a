package inttest

import (
	"fmt"
	"testing"

	"github.com/orlangure/gnomock"
	"github.com/orlangure/gnomock/preset/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

// AMQP allows making requests to RabbitMQ. It does so by opening a connection and channel to
// RabbitMQ via the low-level github.com/rabbitmq/amqp091-go library.
type AMQP struct {
	URI     string
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// SetupRabbitMQ creates a RabbitMQ container with an AMQP connection and channel ready to publish
// and consume messages.
func SetupRabbitMQ(t *testing.T) *AMQP {
	t.Helper()
	skipUnlessEnabled(t)

	container, err := gnomock.Start(
		rabbitmq.Preset(
			rabbitmq.WithUser("rsvp", "rsvp"),
		),
	)
	require.NoError(t, err, "failed to start RabbitMQ")
	t.Cleanup(func() { require.NoError(t, gnomock.Stop(container), "failed to stop RabbitMQ") })

	uri := fmt.Sprintf("amqp://rsvp:rsvp@%s/", container.DefaultAddress())
	conn, err := amqp.Dial(uri)
	require.NoError(t, err, "failed setting up AMQP connection")
	t.Cleanup(func() { _ = conn.Close() })

	channel, err := conn.Channel()
	require.NoError(t, err, "failed setting up AMQP channel")

	return &AMQP{
		URI:     uri,
		Conn:    conn,
		Channel: channel,
	}
}
