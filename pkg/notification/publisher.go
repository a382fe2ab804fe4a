package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type queueDeclarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

// DeclareQueue declares the durable queue notifications are published to.
func DeclareQueue(channel queueDeclarer, name string) error {
	_, err := channel.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %q: %v", name, err)
	}
	return nil
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewPublisher(channel publishChannel, queue string) *Publisher {
	return &Publisher{channel: channel, queue: queue}
}

type Publisher struct {
	channel publishChannel
	queue   string
}

func (p *Publisher) Dispatch(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal %s notification: %v", n.Kind, err)
	}

	err = p.channel.PublishWithContext(context.WithoutCancel(ctx), "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s notification for event %d: %v", n.Kind, n.EventID, err)
	}
	return nil
}
