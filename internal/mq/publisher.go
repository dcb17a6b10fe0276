package mq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ContentType — тип содержимого всех сообщений.
const ContentType = "text/plain; charset=utf-8"

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует body в очередь queue через default exchange.
func (p *Publisher) Publish(ctx context.Context, queue string, body []byte) error {
	msgID := uuid.NewString()

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			"",    // default exchange
			queue, // routing key = имя очереди
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType: ContentType,
				MessageId:   msgID,
				Timestamp:   time.Now(),
				Body:        body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s: %w", queue, err)
		}

		p.logger.Debug("published message",
			"queue", queue,
			"message_id", msgID,
			"body", string(body),
		)

		return nil
	})
}
