package mq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy — политика повторов с экспоненциальной задержкой.
type RetryPolicy struct {
	// MaxAttempts — максимальное число попыток (включая первую).
	MaxAttempts int

	// InitialDelay — задержка после первой неудачной попытки.
	InitialDelay time.Duration

	// MaxDelay — верхняя граница задержки.
	MaxDelay time.Duration
}

// DefaultRetryPolicy — 10 попыток, задержка от 1 до 30 секунд.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  10,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = def.InitialDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	return p
}

// newBackOff строит экспоненциальную задержку без случайной составляющей
// и без ограничения по общему времени: бюджет задаёт MaxAttempts.
func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Delay вычисляет задержку после неудачной попытки attempt (с 1).
// delay = initialDelay * 2^(attempt-1), но не больше maxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	b := p.withDefaults().newBackOff()
	for i := 1; i < attempt; i++ {
		b.NextBackOff()
	}
	return b.NextBackOff()
}

// Retry вызывает fn, пока она не вернёт nil или не кончатся попытки.
// Между попытками ждёт Delay(attempt) с учётом ctx.
func Retry(ctx context.Context, p RetryPolicy, logger *slog.Logger, op string, fn func() error) error {
	p = p.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(p.newBackOff(), uint64(p.MaxAttempts-1)),
		ctx,
	)

	attempt := 0
	notify := func(err error, delay time.Duration) {
		logger.Warn("attempt failed, retrying",
			"op", op,
			"attempt", attempt,
			"max_attempts", p.MaxAttempts,
			"delay", delay,
			"error", err,
		)
	}

	err := backoff.RetryNotify(func() error {
		attempt++
		return fn()
	}, b, notify)
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}

	return fmt.Errorf("%s: %w after %d attempts: %w", op, ErrRetryExhausted, attempt, err)
}
