// Package config загружает конфигурацию воркеров.
//
// Источники (в порядке приоритета):
//  1. переменные окружения (IMAGE_FOLDER, RABBITMQ_HOST, ...)
//  2. файл из CONFIG_FILE: YAML, или TOML для расширения .toml.
//     ${VAR} заменяется значением переменной окружения, одиночный $
//     остаётся как есть
//  3. значения по умолчанию
//
// Переменные окружения привязаны к полям File через env теги
// (github.com/caarlos0/env); ошибки разбора возвращаются все сразу.
//
// METRICS_PORT=0 отключает /healthz и /metrics.
//
// Для каждого воркера своя структура: Loader, Detector, Saver.
// Конфигурация читается и проверяется один раз в main и дальше
// передаётся явно; бизнес-логика окружение не читает.
package config
