package mq

import (
	"context"
	"fmt"
	"slices"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DeclareQueues объявляет очереди и запоминает их: после переподключения
// Connection объявит их заново. Объявление идемпотентно.
func DeclareQueues(ctx context.Context, conn *Connection, queues ...string) error {
	conn.mu.Lock()
	for _, q := range queues {
		if !slices.Contains(conn.queues, q) {
			conn.queues = append(conn.queues, q)
		}
	}
	conn.mu.Unlock()

	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		for _, q := range queues {
			if err := declareQueue(ch, q); err != nil {
				return err
			}
		}
		return nil
	})
}

// declareQueue объявляет одну очередь в default exchange.
// Параметры совпадают с объявлением по умолчанию у других клиентов:
// иначе брокер ответит PRECONDITION_FAILED.
func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,  // name
		false, // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}

// TopologyInfo возвращает описание топологии для логирования и CLI.
func TopologyInfo(requestQueue, responseQueue string) string {
	var b strings.Builder
	b.WriteString("colorsort RabbitMQ topology:\n\n")
	b.WriteString("  (default exchange)\n")
	fmt.Fprintf(&b, "  ├── %s [routing: %s]\n", requestQueue, requestQueue)
	b.WriteString("  │       Producer: colorsort-loader   body: <filename>\n")
	b.WriteString("  │       Consumer: colorsort-detector\n")
	fmt.Fprintf(&b, "  └── %s [routing: %s]\n", responseQueue, responseQueue)
	b.WriteString("          Producer: colorsort-detector body: <color>/<filename>\n")
	b.WriteString("          Consumer: colorsort-saver\n")
	return b.String()
}
