// Colorsort Loader — сканирует папку с изображениями.
//
// Loader:
//   - Каждые WAIT_BETWEEN_SCANS_SEC секунд (или по SCAN_CRON) читает IMAGE_FOLDER
//   - Определяет формат по содержимому файла, а не по расширению
//   - Публикует имена изображений разрешённых форматов в очередь request
//
// Loader не перемещает файлы: пока Saver не разложил изображение,
// каждый проход публикует его имя повторно (см. SCAN_DEDUP).
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/colorsort/internal/config"
	"github.com/shaiso/colorsort/internal/loader"
	"github.com/shaiso/colorsort/internal/mq"
	"github.com/shaiso/colorsort/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting colorsort-loader")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadLoader(os.LookupEnv)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	schedule, err := loader.ParseSchedule(cfg.ScanCron, cfg.WaitBetweenScans)
	if err != nil {
		logger.Error("invalid scan schedule", "error", err)
		os.Exit(1)
	}

	// RabbitMQ
	conn, err := mq.NewConnection(ctx, cfg.RabbitMQ.ConnectionConfig(), logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	logger.Info("RabbitMQ connected")

	if err := mq.DeclareQueues(ctx, conn, cfg.RabbitMQ.RequestQueue); err != nil {
		logger.Error("failed to declare queues", "error", err)
		os.Exit(1)
	}

	l := loader.New(loader.Config{
		ImageFolder:    cfg.ImageFolder,
		AllowedFormats: cfg.AllowedFormats,
		Queue:          cfg.RabbitMQ.RequestQueue,
		Publisher:      mq.NewPublisher(conn, logger),
		Schedule:       schedule,
		Dedup:          cfg.Dedup,
		Limiter:        loader.NewLimiter(cfg.PublishRate),
		Logger:         telemetry.WithWorker(logger, "loader"),
	})

	// HTTP: /healthz + /metrics
	go func() {
		if err := telemetry.Serve(ctx, cfg.MetricsAddr, telemetry.NewMux(conn.IsConnected), logger); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case <-conn.Failed():
		logger.Error("lost connection to RabbitMQ", "error", conn.Err())
		cancel()
		<-done
		os.Exit(1)
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("loader stopped", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("colorsort-loader stopped")
}
