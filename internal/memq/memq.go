// Package memq — очередь сообщений в памяти.
//
// Используется для локального прогона (colorsort sort) и в тестах вместо
// RabbitMQ. Семантика совпадает с default exchange: сообщение попадает
// в очередь с именем routing key, порядок FIFO.
package memq

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/shaiso/colorsort/internal/mq"
)

// Broker — набор именованных очередей в памяти.
type Broker struct {
	mu     sync.Mutex
	queues map[string][]message
}

type message struct {
	id   string
	body []byte
}

// New создаёт пустой Broker.
func New() *Broker {
	return &Broker{queues: make(map[string][]message)}
}

// Publish добавляет копию body в конец очереди queue.
func (b *Broker) Publish(ctx context.Context, queue string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.queues[queue] = append(b.queues[queue], message{id: uuid.NewString(), body: slices.Clone(body)})
	return nil
}

// Len возвращает число сообщений в очереди.
func (b *Broker) Len(queue string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queues[queue])
}

// pop забирает первое сообщение очереди.
func (b *Broker) pop(queue string) (message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := b.queues[queue]
	if len(q) == 0 {
		return message{}, false
	}
	msg := q[0]
	b.queues[queue] = q[1:]
	return msg, true
}

// Drain передаёт сообщения очереди в handler, пока очередь не опустеет.
// Сообщения, опубликованные во время Drain в ту же очередь, тоже
// обрабатываются. Возвращает число обработанных сообщений.
//
// Ошибка handler прерывает Drain; сообщение считается потерянным,
// как при auto-ack.
func (b *Broker) Drain(ctx context.Context, queue string, handler mq.Handler) (int, error) {
	handled := 0
	for {
		if err := ctx.Err(); err != nil {
			return handled, err
		}

		msg, ok := b.pop(queue)
		if !ok {
			return handled, nil
		}

		if err := handler(ctx, &mq.Delivery{Body: msg.body}); err != nil {
			return handled, fmt.Errorf("message %s from %s: %w", msg.id, queue, err)
		}
		handled++
	}
}
