// Colorsort Detector — определяет цвет изображений.
//
// Detector:
//   - Получает имена файлов из очереди request
//   - Считает средний цвет и ищет ближайший именованный цвет
//   - Публикует "<color>/<filename>" в очередь response
//
// Detector масштабируется горизонтально.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/colorsort/internal/config"
	"github.com/shaiso/colorsort/internal/detector"
	"github.com/shaiso/colorsort/internal/mq"
	"github.com/shaiso/colorsort/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting colorsort-detector")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadDetector(os.LookupEnv)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
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

	if err := mq.DeclareQueues(ctx, conn, cfg.RabbitMQ.RequestQueue, cfg.RabbitMQ.ResponseQueue); err != nil {
		logger.Error("failed to declare queues", "error", err)
		os.Exit(1)
	}

	d := detector.New(detector.Config{
		ImageFolder:   cfg.ImageFolder,
		RequestQueue:  cfg.RabbitMQ.RequestQueue,
		ResponseQueue: cfg.RabbitMQ.ResponseQueue,
		Publisher:     mq.NewPublisher(conn, logger),
		Conn:          conn,
		AckMode:       cfg.AckMode,
		Logger:        telemetry.WithWorker(logger, "detector"),
	})

	// HTTP: /healthz + /metrics
	go func() {
		if err := telemetry.Serve(ctx, cfg.MetricsAddr, telemetry.NewMux(conn.IsConnected), logger); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Run возвращает ErrConnection, когда попытки переподключения исчерпаны.
	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("detector stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("colorsort-detector stopped")
}
