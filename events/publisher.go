// Package events publishes order lifecycle events to a RabbitMQ topic
// exchange so out-of-band subscribers can react to status changes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/printhub/reporthub/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys published by the order service.
const (
	RKOrderStatusChanged = "order.status_changed"
	RKOrderDelivered     = "order.delivered"
)

// OrderStatusChangedPayload is the body of every lifecycle event.
type OrderStatusChangedPayload struct {
	OrderID        string    `json:"order_id"`
	ReportID       string    `json:"report_id"`
	UserID         string    `json:"user_id"`
	PreviousStatus string    `json:"previous_status"`
	CurrentStatus  string    `json:"current_status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishStatusChange emits an order.status_changed event, and additionally
// an order.delivered event when the order reaches its final stage.
func (p *Publisher) PublishStatusChange(ctx context.Context, order *models.Order, previous models.DeliveryStatus) error {
	payload := OrderStatusChangedPayload{
		OrderID:        order.ID,
		ReportID:       order.ReportID,
		UserID:         order.UserID,
		PreviousStatus: string(previous),
		CurrentStatus:  string(order.DeliveryStatus),
		OccurredAt:     time.Now().UTC(),
	}

	if err := p.publishJSON(ctx, RKOrderStatusChanged, payload); err != nil {
		return err
	}
	if order.DeliveryStatus == models.DeliveryStatusDelivered {
		return p.publishJSON(ctx, RKOrderDelivered, payload)
	}
	return nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}
