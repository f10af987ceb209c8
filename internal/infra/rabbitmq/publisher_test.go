package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (c *captureChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func TestPublish_PersistentJSON(t *testing.T) {
	ch := &captureChannel{}
	p := NewRabbitMQPublisher(ch)

	err := p.Publish(context.Background(), "ledger_events", "balance.updated", map[string]any{"user_id": "u1"})
	require.NoError(t, err)

	assert.Equal(t, "ledger_events", ch.exchange)
	assert.Equal(t, "balance.updated", ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.NotEmpty(t, ch.msg.MessageId)

	var body map[string]string
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, "u1", body["user_id"])
}

func TestPublish_Errors(t *testing.T) {
	p := NewRabbitMQPublisher(&captureChannel{err: amqp.ErrClosed})
	assert.ErrorIs(t, p.Publish(context.Background(), "x", "y", 1), amqp.ErrClosed)

	assert.Error(t, p.Publish(context.Background(), "x", "y", make(chan int)))
}
