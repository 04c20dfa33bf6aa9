package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/quickbite/kiosk-api/internal/usecase"
)

const (
	exchangeName      = "kiosk.orders"
	createdRoutingKey = "order.created"
	statusRoutingKey  = "order.status.changed"
)

// RabbitNotifier publishes order lifecycle events for kitchen display
// consumers. It implements usecase.Notifier.
type RabbitNotifier struct {
	ch *amqp.Channel
}

// NewRabbitNotifier declares the exchange once at startup.
func NewRabbitNotifier(ch *amqp.Channel) (*RabbitNotifier, error) {
	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}
	return &RabbitNotifier{ch: ch}, nil
}

var _ usecase.Notifier = (*RabbitNotifier)(nil)

func (n *RabbitNotifier) OrderCreated(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	return n.publish(ctx, createdRoutingKey, msg)
}

func (n *RabbitNotifier) OrderStatusChanged(ctx context.Context, msg usecase.OrderStatusChangedMsg) error {
	return n.publish(ctx, statusRoutingKey, msg)
}

func (n *RabbitNotifier) publish(ctx context.Context, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}

	if err := n.ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}
