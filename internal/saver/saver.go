package saver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shaiso/colorsort/internal/mq"
	"github.com/shaiso/colorsort/internal/palette"
	"github.com/shaiso/colorsort/internal/telemetry"
)

// Config — конфигурация Saver.
type Config struct {
	// ImageFolder — папка с исходными изображениями.
	ImageFolder string

	// OutputFolder — корень папок по цветам.
	OutputFolder string

	// ResponseQueue — очередь с сообщениями "<color>/<filename>".
	ResponseQueue string

	// Conn — соединение для consumer. Нужно только для Run.
	Conn *mq.Connection

	// AckMode — режим подтверждения (default: mq.AckOnReceipt).
	AckMode mq.AckMode

	Logger *slog.Logger
}

// Saver раскладывает изображения по папкам цветов.
type Saver struct {
	imageFolder   string
	outputFolder  string
	responseQueue string
	conn          *mq.Connection
	ackMode       mq.AckMode
	logger        *slog.Logger
}

// New создаёт новый Saver.
func New(cfg Config) *Saver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Saver{
		imageFolder:   cfg.ImageFolder,
		outputFolder:  cfg.OutputFolder,
		responseQueue: cfg.ResponseQueue,
		conn:          cfg.Conn,
		ackMode:       cfg.AckMode,
		logger:        logger,
	}
}

// Run потребляет очередь response до отмены ctx или потери соединения.
func (s *Saver) Run(ctx context.Context) error {
	consumer := mq.NewConsumer(s.conn, s.logger, mq.ConsumerConfig{
		Queue:   s.responseQueue,
		Handler: s.Handle,
		AckMode: s.ackMode,
	})

	s.logger.Info("waiting for messages", "queue", s.responseQueue)
	return consumer.Start(ctx)
}

// Handle обрабатывает одно сообщение response.
// Все ошибки сообщения логируются, повторная доставка ничего не исправит,
// поэтому Handle всегда возвращает nil.
func (s *Saver) Handle(_ context.Context, msg *mq.Delivery) error {
	resp, err := mq.ParseResponse(msg.Body)
	if err != nil {
		s.logger.Error("skipping response", "body", string(msg.Body), "error", err)
		telemetry.SaverSkipped.WithLabelValues(telemetry.ReasonMalformed).Inc()
		return nil
	}

	logger := telemetry.WithFile(s.logger, resp.Filename).With("color", resp.Color)

	color, ok := palette.Lookup(resp.Color)
	if !ok {
		err := fmt.Errorf("%w: %w: %q", mq.ErrMalformedMessage, palette.ErrUnknownColor, resp.Color)
		logger.Error("skipping response", "error", err)
		telemetry.SaverSkipped.WithLabelValues(telemetry.ReasonUnknownColor).Inc()
		return nil
	}

	result, err := moveImage(resp.Filename, resp.Color, s.imageFolder, s.outputFolder)
	switch {
	case errors.Is(err, ErrSourceMissing):
		logger.Warn("source image is gone, skipping", "error", err)
		telemetry.SaverSkipped.WithLabelValues(telemetry.ReasonMissing).Inc()
		return nil
	case errors.Is(err, mq.ErrMalformedMessage):
		logger.Error("skipping response", "error", err)
		telemetry.SaverSkipped.WithLabelValues(telemetry.ReasonMalformed).Inc()
		return nil
	case err != nil:
		logger.Error("failed to move image", "error", err)
		telemetry.SaverSkipped.WithLabelValues(telemetry.ReasonFilesystem).Inc()
		return nil
	}

	if result.replaced {
		logger.Warn("replaced existing file", "destination", result.destination)
	}
	logger.Info("image moved", "destination", result.destination, "hex", color.Hex())
	telemetry.SaverMoved.WithLabelValues(resp.Color).Inc()
	return nil
}
