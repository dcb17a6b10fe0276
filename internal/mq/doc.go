// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — соединение с RabbitMQ (ограниченный reconnect, graceful shutdown)
//   - retry.go      — экспоненциальная задержка с ограниченным числом попыток
//   - topology.go   — объявление очередей
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//   - messages.go   — формат сообщений request/response
//
// Очереди (имена задаются конфигурацией):
//   - request  — имя файла изображения, Loader → Detector
//   - response — "<color>/<filename>", Detector → Saver
//
// Все сообщения публикуются в default exchange, routing key = имя очереди.
// Тело — UTF-8 строка без заголовков.
package mq
