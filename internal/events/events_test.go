package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
)

// mockChannel records what the publisher sends to the broker.
type mockChannel struct {
	declareErr error
	publishErr error

	declared  []string
	published []amqp.Publishing
	exchanges []string
	closed    bool
}

var _ channel = (*mockChannel)(nil)

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	m.declared = append(m.declared, name+":"+kind)
	if !durable {
		return errors.New("exchange must be durable")
	}
	return m.declareErr
}

func (m *mockChannel) Publish(exchange, _ string, _, _ bool, msg amqp.Publishing) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.exchanges = append(m.exchanges, exchange)
	m.published = append(m.published, msg)
	return nil
}

func (m *mockChannel) Close() error {
	m.closed = true
	return nil
}

func TestNewAMQPPublisher_DeclaresFanout(t *testing.T) {
	ch := &mockChannel{}

	_, err := NewAMQPPublisher(ch)

	require.NoError(t, err)
	assert.Equal(t, []string{"booking_confirmed:fanout"}, ch.declared)
}

func TestNewAMQPPublisher_DeclareError(t *testing.T) {
	_, err := NewAMQPPublisher(&mockChannel{declareErr: errors.New("channel closed")})

	assert.ErrorContains(t, err, "channel closed")
}

func TestPublishBookingConfirmed(t *testing.T) {
	ch := &mockChannel{}
	p, err := NewAMQPPublisher(ch)
	require.NoError(t, err)
	at := time.Date(2026, 4, 10, 14, 30, 0, 0, time.UTC)
	p.now = func() time.Time { return at }

	err = p.PublishBookingConfirmed(context.Background(), domain.Confirmation{Reference: "ATX-1A2B3C4D", TotalPaid: "77.50"})

	require.NoError(t, err)
	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, ExchangeBookingConfirmed, ch.exchanges[0])
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, at, msg.Timestamp)

	var body BookingConfirmed
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "ATX-1A2B3C4D", body.Confirmation.Reference)
	assert.Equal(t, msg.MessageId, body.EventID.String())
}

func TestPublishBookingConfirmed_BrokerError(t *testing.T) {
	ch := &mockChannel{}
	p, err := NewAMQPPublisher(ch)
	require.NoError(t, err)
	ch.publishErr = amqp.ErrClosed

	err = p.PublishBookingConfirmed(context.Background(), domain.Confirmation{})

	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestPublishBookingConfirmed_CancelledContext(t *testing.T) {
	ch := &mockChannel{}
	p, err := NewAMQPPublisher(ch)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.PublishBookingConfirmed(ctx, domain.Confirmation{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ch.published)
}

func TestClose(t *testing.T) {
	ch := &mockChannel{}
	p, err := NewAMQPPublisher(ch)
	require.NoError(t, err)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}

	assert.NoError(t, p.PublishBookingConfirmed(context.Background(), domain.Confirmation{}))
}
