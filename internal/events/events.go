// Package events publishes booking lifecycle events to a message broker.
// Downstream consumers (the confirmation mailer, dispatch) subscribe to the
// fanout exchange; the booking API does not wait for them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
)

// ExchangeBookingConfirmed is the fanout exchange confirmed bookings go to.
const ExchangeBookingConfirmed = "booking_confirmed"

// Publisher emits booking events.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, c domain.Confirmation) error
}

// BookingConfirmed is the message body published for a confirmed booking.
type BookingConfirmed struct {
	EventID      uuid.UUID           `json:"event_id"`
	OccurredAt   time.Time           `json:"occurred_at"`
	Confirmation domain.Confirmation `json:"confirmation"`
}

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes persistent JSON messages to a durable fanout exchange.
type AMQPPublisher struct {
	mu  sync.Mutex
	ch  channel
	now func() time.Time
}

// NewAMQPPublisher declares the exchange on ch and returns a publisher using it.
// Pass the *amqp.Channel opened from the broker connection.
func NewAMQPPublisher(ch channel) (*AMQPPublisher, error) {
	err := ch.ExchangeDeclare(
		ExchangeBookingConfirmed,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("events.NewAMQPPublisher: declare exchange %q: %w", ExchangeBookingConfirmed, err)
	}
	return &AMQPPublisher{ch: ch, now: time.Now}, nil
}

// PublishBookingConfirmed publishes c. The broker call does not take a
// context; ctx is only checked before publishing.
func (p *AMQPPublisher) PublishBookingConfirmed(ctx context.Context, c domain.Confirmation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("events.AMQPPublisher.PublishBookingConfirmed: %w", err)
	}

	msg := BookingConfirmed{EventID: uuid.New(), OccurredAt: p.now().UTC(), Confirmation: c}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("events.AMQPPublisher.PublishBookingConfirmed: encode: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(
		ExchangeBookingConfirmed,
		"",
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         "booking.confirmed",
			MessageId:    msg.EventID.String(),
			Timestamp:    msg.OccurredAt,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("events.AMQPPublisher.PublishBookingConfirmed: %w", err)
	}
	return nil
}

// Close closes the underlying channel.
func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishBookingConfirmed(context.Context, domain.Confirmation) error { return nil }
