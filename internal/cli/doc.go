// Package cli реализует инструмент командной строки colorsort.
//
// # Обзор
//
// CLI — утилита оператора. Работает без RabbitMQ: классифицирует
// отдельные файлы, показывает каталог цветов и схему очередей, умеет
// выполнить один локальный проход сортировки через очередь в памяти.
//
// # Ключевые компоненты
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (go-pretty) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: colorsort classify *.png --json | jq .
//
// ## Commands
//
//   - palette: каталог именованных цветов
//   - classify: цвет для каждого файла
//   - topology: очереди и их producer/consumer
//   - sort: локальный прогон Loader → Detector → Saver
//
// Каждая команда создаётся фабричной функцией (NewPaletteCmd и т.д.),
// принимающей outputFn — замыкание для ленивого создания Output после
// парсинга PersistentFlags.
package cli
