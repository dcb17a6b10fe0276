// Colorsort Saver — раскладывает изображения по папкам цветов.
//
// Saver:
//   - Получает "<color>/<filename>" из очереди response
//   - Создаёт OUTPUT_FOLDER/<color> при необходимости
//   - Переносит IMAGE_FOLDER/<filename> в OUTPUT_FOLDER/<color>/<filename>
//
// IMAGE_FOLDER и OUTPUT_FOLDER должны быть на одной файловой системе.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/colorsort/internal/config"
	"github.com/shaiso/colorsort/internal/mq"
	"github.com/shaiso/colorsort/internal/saver"
	"github.com/shaiso/colorsort/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting colorsort-saver")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadSaver(os.LookupEnv)
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

	if err := mq.DeclareQueues(ctx, conn, cfg.RabbitMQ.ResponseQueue); err != nil {
		logger.Error("failed to declare queues", "error", err)
		os.Exit(1)
	}

	s := saver.New(saver.Config{
		ImageFolder:   cfg.ImageFolder,
		OutputFolder:  cfg.OutputFolder,
		ResponseQueue: cfg.RabbitMQ.ResponseQueue,
		Conn:          conn,
		AckMode:       cfg.AckMode,
		Logger:        telemetry.WithWorker(logger, "saver"),
	})

	// HTTP: /healthz + /metrics
	go func() {
		if err := telemetry.Serve(ctx, cfg.MetricsAddr, telemetry.NewMux(conn.IsConnected), logger); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("saver stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("colorsort-saver stopped")
}
