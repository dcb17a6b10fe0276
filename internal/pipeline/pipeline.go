// Package pipeline прогоняет Loader, Detector и Saver в одном процессе
// через очередь в памяти. Один проход: сканирование, классификация,
// раскладка.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/colorsort/internal/detector"
	"github.com/shaiso/colorsort/internal/imaging"
	"github.com/shaiso/colorsort/internal/loader"
	"github.com/shaiso/colorsort/internal/memq"
	"github.com/shaiso/colorsort/internal/mq"
	"github.com/shaiso/colorsort/internal/saver"
	"github.com/shaiso/colorsort/internal/telemetry"
)

const (
	defaultRequestQueue  = "request"
	defaultResponseQueue = "response"
)

// Config — параметры локального прогона.
type Config struct {
	ImageFolder    string
	OutputFolder   string
	AllowedFormats imaging.Formats

	// Имена очередей в памяти (default: request, response).
	RequestQueue  string
	ResponseQueue string

	Logger *slog.Logger
}

// Summary — итог прогона.
type Summary struct {
	// Published — имён отправлено на классификацию.
	Published int

	// Skipped — файлов пропущено при сканировании.
	Skipped int

	// Classified — изображений классифицировано.
	Classified int

	// Colors — число изображений по цветам.
	Colors map[string]int
}

// RunLocal выполняет один проход всех трёх стадий.
func RunLocal(ctx context.Context, cfg Config) (Summary, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RequestQueue == "" {
		cfg.RequestQueue = defaultRequestQueue
	}
	if cfg.ResponseQueue == "" {
		cfg.ResponseQueue = defaultResponseQueue
	}

	broker := memq.New()
	summary := Summary{Colors: make(map[string]int)}

	l := loader.New(loader.Config{
		ImageFolder:    cfg.ImageFolder,
		AllowedFormats: cfg.AllowedFormats,
		Queue:          cfg.RequestQueue,
		Publisher:      broker,
		Logger:         telemetry.WithWorker(logger, "loader"),
	})
	scan, err := l.ScanOnce(ctx)
	if err != nil {
		return summary, fmt.Errorf("scan: %w", err)
	}
	summary.Published = scan.Published
	summary.Skipped = scan.Skipped

	d := detector.New(detector.Config{
		ImageFolder:   cfg.ImageFolder,
		RequestQueue:  cfg.RequestQueue,
		ResponseQueue: cfg.ResponseQueue,
		Publisher:     broker,
		Logger:        telemetry.WithWorker(logger, "detector"),
	})
	if _, err := broker.Drain(ctx, cfg.RequestQueue, d.Handle); err != nil {
		return summary, fmt.Errorf("classify: %w", err)
	}

	s := saver.New(saver.Config{
		ImageFolder:   cfg.ImageFolder,
		OutputFolder:  cfg.OutputFolder,
		ResponseQueue: cfg.ResponseQueue,
		Logger:        telemetry.WithWorker(logger, "saver"),
	})
	_, err = broker.Drain(ctx, cfg.ResponseQueue, func(ctx context.Context, msg *mq.Delivery) error {
		if resp, err := mq.ParseResponse(msg.Body); err == nil {
			summary.Classified++
			summary.Colors[resp.Color]++
		}
		return s.Handle(ctx, msg)
	})
	if err != nil {
		return summary, fmt.Errorf("sort: %w", err)
	}

	logger.Info("local run finished",
		"published", summary.Published,
		"skipped", summary.Skipped,
		"classified", summary.Classified,
	)
	return summary, nil
}
