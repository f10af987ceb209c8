package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// channel é o subconjunto de *amqp.Channel usado pelo publisher.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQPublisher struct {
	channel channel
	appID   string
}

func NewRabbitMQPublisher(ch channel) *RabbitMQPublisher {
	return &RabbitMQPublisher{channel: ch, appID: "apipainel-api"}
}

// DeclareExchange garante o exchange topic durável dos eventos do ledger.
func DeclareExchange(ch *amqp.Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, exchange, routingKey string, body any) error {
	bytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         bytes,
			DeliveryMode: amqp.Persistent, // Garante que a mensagem não suma se o Rabbit reiniciar
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			AppId:        p.appID,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Debug().Str("routing_key", routingKey).Msg("Evento publicado no RabbitMQ")
	return nil
}
