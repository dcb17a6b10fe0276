package mq

import "errors"

// Ошибки транспорта и протокола.
var (
	// ErrConnection — брокер недоступен, попытки подключения исчерпаны.
	ErrConnection = errors.New("rabbitmq connection failed")

	// ErrRetryExhausted — все попытки retry исчерпаны.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrNoChannel — канал AMQP ещё не открыт или уже закрыт.
	ErrNoChannel = errors.New("no channel available")

	// ErrMalformedMessage — тело сообщения не соответствует протоколу.
	ErrMalformedMessage = errors.New("malformed message")
)
