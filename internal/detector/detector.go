package detector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shaiso/colorsort/internal/imaging"
	"github.com/shaiso/colorsort/internal/mq"
	"github.com/shaiso/colorsort/internal/telemetry"
)

// Publisher публикует сообщения в очередь.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// Config — конфигурация Detector.
type Config struct {
	// ImageFolder — папка, из которой читаются изображения.
	ImageFolder string

	// RequestQueue — очередь с именами файлов.
	RequestQueue string

	// ResponseQueue — очередь для ответов "<color>/<filename>".
	ResponseQueue string

	// Publisher — куда публиковать ответы.
	Publisher Publisher

	// Conn — соединение для consumer. Нужно только для Run.
	Conn *mq.Connection

	// AckMode — режим подтверждения (default: mq.AckOnReceipt).
	AckMode mq.AckMode

	Logger *slog.Logger
}

// Detector классифицирует изображения по среднему цвету.
type Detector struct {
	folder        string
	requestQueue  string
	responseQueue string
	publisher     Publisher
	conn          *mq.Connection
	ackMode       mq.AckMode
	logger        *slog.Logger
}

// New создаёт новый Detector.
func New(cfg Config) *Detector {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Detector{
		folder:        cfg.ImageFolder,
		requestQueue:  cfg.RequestQueue,
		responseQueue: cfg.ResponseQueue,
		publisher:     cfg.Publisher,
		conn:          cfg.Conn,
		ackMode:       cfg.AckMode,
		logger:        logger,
	}
}

// Run потребляет очередь request до отмены ctx или потери соединения.
func (d *Detector) Run(ctx context.Context) error {
	consumer := mq.NewConsumer(d.conn, d.logger, mq.ConsumerConfig{
		Queue:   d.requestQueue,
		Handler: d.Handle,
		AckMode: d.ackMode,
	})

	d.logger.Info("waiting for messages", "queue", d.requestQueue)
	return consumer.Start(ctx)
}

// Handle обрабатывает одно сообщение request.
// Возвращает ошибку только если не удалось опубликовать ответ.
func (d *Detector) Handle(ctx context.Context, msg *mq.Delivery) error {
	filename, err := mq.DecodeRequest(msg.Body)
	if err != nil {
		d.logger.Error("skipping request", "body", string(msg.Body), "error", err)
		telemetry.DetectorFailures.WithLabelValues(telemetry.ReasonMalformed).Inc()
		return nil
	}

	logger := telemetry.WithFile(d.logger, filename)

	result, err := Classify(filepath.Join(d.folder, filename))
	if err != nil {
		reason := telemetry.ReasonLoad
		if errors.Is(err, imaging.ErrInvalidShape) {
			reason = telemetry.ReasonShape
		}
		logger.Error("failed to classify image", "error", err)
		telemetry.DetectorFailures.WithLabelValues(reason).Inc()
		return nil
	}

	logger.Info("detected color",
		"color", result.Color.Name,
		"average", result.Average,
		"distance", result.Distance,
	)

	if err := d.publisher.Publish(ctx, d.responseQueue, mq.EncodeResponse(result.Color.Name, filename)); err != nil {
		telemetry.DetectorFailures.WithLabelValues(telemetry.ReasonPublish).Inc()
		return fmt.Errorf("publish response for %s: %w", filename, err)
	}

	telemetry.DetectorClassified.WithLabelValues(result.Color.Name).Inc()
	return nil
}
