package mq

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler — функция обработки сообщения.
//
// Ошибки конкретного сообщения (битый файл, неверный формат) обработчик
// логирует сам и возвращает nil. Ошибка означает сбой транспорта
// (например, не удалось опубликовать ответ).
type Handler func(ctx context.Context, msg *Delivery) error

// Delivery — доставленное сообщение.
type Delivery struct {
	// Body — тело сообщения (UTF-8).
	Body []byte

	// Raw — сырое AMQP сообщение. Пустое для сообщений не из RabbitMQ.
	Raw amqp.Delivery
}

// AckMode — когда подтверждать сообщение брокеру.
type AckMode string

const (
	// AckOnReceipt — подтверждение сразу при получении (auto-ack).
	// At-most-once: падение воркера во время обработки теряет сообщение.
	AckOnReceipt AckMode = "receipt"

	// AckAfterHandle — подтверждение после успешной обработки.
	// Если обработчик вернул ошибку, сообщение возвращается в очередь.
	AckAfterHandle AckMode = "after"
)

// ParseAckMode разбирает режим подтверждения. Пустая строка — AckOnReceipt.
func ParseAckMode(s string) (AckMode, error) {
	switch AckMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AckOnReceipt:
		return AckOnReceipt, nil
	case AckAfterHandle:
		return AckAfterHandle, nil
	default:
		return "", fmt.Errorf("unknown ack mode %q (want %q or %q)", s, AckOnReceipt, AckAfterHandle)
	}
}

// consumerConn — часть Connection, нужная Consumer.
type consumerConn interface {
	Failed() <-chan struct{}
	Err() error
	ReconnectNotify() <-chan struct{}
	IsConnected() bool
	Channel() *amqp.Channel
	reopenChannel() error
	fail(err error)
}

// Consumer потребляет сообщения из очереди RabbitMQ.
// Сообщения обрабатываются последовательно, по одному.
type Consumer struct {
	conn    consumerConn
	logger  *slog.Logger
	queue   string
	handler Handler
	ackMode AckMode
	retry   RetryPolicy

	// subscribe начинает потребление. По умолчанию setupConsume.
	subscribe func() (<-chan amqp.Delivery, error)
}

// ConsumerConfig — конфигурация consumer.
type ConsumerConfig struct {
	// Queue — имя очереди.
	Queue string

	// Handler — обработчик сообщений.
	Handler Handler

	// AckMode — режим подтверждения (default: AckOnReceipt).
	AckMode AckMode
}

// NewConsumer создаёт новый Consumer.
func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	var cc consumerConn
	retry := DefaultRetryPolicy()
	if conn != nil {
		cc = conn
		retry = conn.retry
	}
	return newConsumer(cc, retry, logger, cfg)
}

func newConsumer(conn consumerConn, retry RetryPolicy, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}

	ackMode := cfg.AckMode
	if ackMode == "" {
		ackMode = AckOnReceipt
	}

	c := &Consumer{
		conn:    conn,
		logger:  logger.With("queue", cfg.Queue),
		queue:   cfg.Queue,
		handler: cfg.Handler,
		ackMode: ackMode,
		retry:   retry.withDefaults(),
	}
	c.subscribe = c.setupConsume
	return c
}

// Start запускает потребление сообщений и блокируется до отмены ctx
// или окончательной потери соединения (ErrConnection).
func (c *Consumer) Start(ctx context.Context) error {
	return c.consume(ctx)
}

// consume — основной цикл потребления.
//
// Если канал доставки закрылся, а соединение живо (брокер отменил
// consumer или закрыл канал с ошибкой), канал открывается заново с
// задержкой по retry политике. Если соединение разорвано, цикл ждёт
// переподключения Connection. Исчерпание попыток переводит Connection
// в Failed.
func (c *Consumer) consume(ctx context.Context) error {
	failures := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.conn.Failed():
			return c.conn.Err()
		default:
		}

		if failures > 0 {
			if failures >= c.retry.MaxAttempts {
				c.conn.fail(fmt.Errorf("%w: consume %s: %w after %d attempts",
					ErrConnection, c.queue, ErrRetryExhausted, failures))
				return c.conn.Err()
			}
			if err := sleepCtx(ctx, c.retry.Delay(failures)); err != nil {
				return err
			}
		}

		if !c.conn.IsConnected() {
			// Соединение и канал восстанавливает Connection.
			if err := c.waitReconnect(ctx); err != nil {
				return err
			}
			failures = 0
			continue
		}

		if failures > 0 {
			if err := c.conn.reopenChannel(); err != nil {
				c.logger.Warn("failed to reopen channel", "attempt", failures, "error", err)
				failures++
				continue
			}
		}

		// Получаем канал доставки
		deliveries, err := c.subscribe()
		if err != nil {
			c.logger.Error("failed to setup consume", "attempt", failures+1, "error", err)
			failures++
			continue
		}
		failures = 0

		c.logger.Info("waiting for messages", "ack_mode", c.ackMode)

		// Обрабатываем сообщения
		if err := c.processDeliveries(ctx, deliveries); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("deliveries channel closed, resubscribing", "error", err)
			failures = 1
		}
	}
}

// waitReconnect ждёт переподключения соединения.
func (c *Consumer) waitReconnect(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.conn.Failed():
		return c.conn.Err()
	case <-c.conn.ReconnectNotify():
		c.logger.Info("reconnected, restarting consumer")
		return nil
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// setupConsume объявляет очередь и начинает потребление.
func (c *Consumer) setupConsume() (<-chan amqp.Delivery, error) {
	ch := c.conn.Channel()
	if ch == nil {
		return nil, ErrNoChannel
	}

	if err := declareQueue(ch, c.queue); err != nil {
		return nil, err
	}

	// Prefetch действует только при ручном подтверждении. В режиме
	// auto-ack брокер отправляет сообщения без ограничения, и при падении
	// воркера теряется весь полученный, но не обработанный буфер.
	autoAck := c.ackMode == AckOnReceipt
	if !autoAck {
		// По одному сообщению на воркер: масштабирование — процессами.
		if err := ch.Qos(1, 0, false); err != nil {
			return nil, fmt.Errorf("set qos: %w", err)
		}
	}

	deliveries, err := ch.Consume(
		c.queue, // queue
		"",      // consumer tag (auto-generated)
		autoAck, // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	return deliveries, nil
}

// processDeliveries обрабатывает сообщения из канала.
func (c *Consumer) processDeliveries(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("deliveries channel closed")
			}

			c.handleDelivery(ctx, raw)
		}
	}
}

// handleDelivery обрабатывает одно сообщение.
func (c *Consumer) handleDelivery(ctx context.Context, raw amqp.Delivery) {
	c.logger.Info("received message", "body", string(raw.Body))

	err := c.handler(ctx, &Delivery{Body: raw.Body, Raw: raw})

	if c.ackMode == AckOnReceipt {
		if err != nil {
			// Сообщение уже подтверждено — оно потеряно.
			c.logger.Error("handler failed, message dropped", "body", string(raw.Body), "error", err)
		}
		return
	}

	if err != nil {
		c.logger.Error("handler failed, requeueing", "body", string(raw.Body), "error", err)
		if nackErr := raw.Nack(false, true); nackErr != nil {
			c.logger.Warn("failed to nack message", "error", nackErr)
		}
		return
	}

	if ackErr := raw.Ack(false); ackErr != nil {
		c.logger.Warn("failed to ack message", "error", ackErr)
	}
}
