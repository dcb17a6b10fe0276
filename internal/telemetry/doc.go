// Package telemetry обеспечивает наблюдаемость воркеров.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//   - server.go  — HTTP сервер с /healthz и /metrics
//
// Все воркеры используют единый формат логирования
// и экспортируют метрики на /metrics endpoint.
package telemetry
