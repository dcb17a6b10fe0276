package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shaiso/colorsort/internal/imaging"
	"github.com/shaiso/colorsort/internal/mq"
)

// Loader — конфигурация colorsort-loader.
type Loader struct {
	ImageFolder      string
	AllowedFormats   imaging.Formats
	WaitBetweenScans time.Duration
	ScanCron         string
	Dedup            bool
	PublishRate      float64
	MetricsAddr      string
	RabbitMQ         RabbitMQ
}

// Detector — конфигурация colorsort-detector.
type Detector struct {
	ImageFolder string
	AckMode     mq.AckMode
	MetricsAddr string
	RabbitMQ    RabbitMQ
}

// Saver — конфигурация colorsort-saver.
type Saver struct {
	ImageFolder  string
	OutputFolder string
	AckMode      mq.AckMode
	MetricsAddr  string
	RabbitMQ     RabbitMQ
}

// LoadLoader читает и проверяет конфигурацию loader.
func LoadLoader(lookup LookupFunc) (Loader, error) {
	f, err := load(lookup)
	if err != nil {
		return Loader{}, err
	}

	addr, err := metricsAddr(f.Loader.MetricsPort)
	if err != nil {
		return Loader{}, err
	}

	cfg := Loader{
		ImageFolder:      f.ImageFolder,
		AllowedFormats:   imaging.NewFormats(f.AllowedFormats...),
		WaitBetweenScans: seconds(f.Loader.WaitBetweenScansSec),
		ScanCron:         f.Loader.ScanCron,
		Dedup:            f.Loader.Dedup,
		PublishRate:      f.Loader.PublishRate,
		MetricsAddr:      addr,
		RabbitMQ:         f.RabbitMQ,
	}

	return cfg, cfg.Validate()
}

// Validate проверяет конфигурацию loader.
func (c Loader) Validate() error {
	var errs []error

	if err := checkDir("IMAGE_FOLDER", c.ImageFolder); err != nil {
		errs = append(errs, err)
	}
	if err := required("RABBITMQ_REQUEST_QUEUE", c.RabbitMQ.RequestQueue); err != nil {
		errs = append(errs, err)
	}

	if len(c.AllowedFormats) == 0 {
		errs = append(errs, errors.New("ALLOWED_FORMATS must not be empty"))
	}
	supported := imaging.NewFormats(imaging.DefaultFormats...)
	for _, format := range c.AllowedFormats.List() {
		if !supported.Has(format) {
			errs = append(errs, fmt.Errorf("ALLOWED_FORMATS: unsupported format %q", format))
		}
	}

	if c.ScanCron == "" && c.WaitBetweenScans < time.Second {
		errs = append(errs, errors.New("WAIT_BETWEEN_SCANS_SEC must be at least 1"))
	}
	if c.PublishRate < 0 {
		errs = append(errs, errors.New("PUBLISH_RATE must not be negative"))
	}

	return validationError(errs)
}

// LoadDetector читает и проверяет конфигурацию detector.
func LoadDetector(lookup LookupFunc) (Detector, error) {
	f, err := load(lookup)
	if err != nil {
		return Detector{}, err
	}

	ackMode, err := mq.ParseAckMode(f.Detector.AckMode)
	if err != nil {
		return Detector{}, fmt.Errorf("%w: ACK_MODE: %w", ErrInvalid, err)
	}

	addr, err := metricsAddr(f.Detector.MetricsPort)
	if err != nil {
		return Detector{}, err
	}

	cfg := Detector{
		ImageFolder: f.ImageFolder,
		AckMode:     ackMode,
		MetricsAddr: addr,
		RabbitMQ:    f.RabbitMQ,
	}

	return cfg, cfg.Validate()
}

// Validate проверяет конфигурацию detector.
func (c Detector) Validate() error {
	var errs []error

	if err := checkDir("IMAGE_FOLDER", c.ImageFolder); err != nil {
		errs = append(errs, err)
	}
	if err := required("RABBITMQ_REQUEST_QUEUE", c.RabbitMQ.RequestQueue); err != nil {
		errs = append(errs, err)
	}
	if err := required("RABBITMQ_RESPONSE_QUEUE", c.RabbitMQ.ResponseQueue); err != nil {
		errs = append(errs, err)
	}

	return validationError(errs)
}

// LoadSaver читает и проверяет конфигурацию saver.
func LoadSaver(lookup LookupFunc) (Saver, error) {
	f, err := load(lookup)
	if err != nil {
		return Saver{}, err
	}

	ackMode, err := mq.ParseAckMode(f.Saver.AckMode)
	if err != nil {
		return Saver{}, fmt.Errorf("%w: ACK_MODE: %w", ErrInvalid, err)
	}

	addr, err := metricsAddr(f.Saver.MetricsPort)
	if err != nil {
		return Saver{}, err
	}

	cfg := Saver{
		ImageFolder:  f.ImageFolder,
		OutputFolder: f.OutputFolder,
		AckMode:      ackMode,
		MetricsAddr:  addr,
		RabbitMQ:     f.RabbitMQ,
	}

	return cfg, cfg.Validate()
}

// Validate проверяет конфигурацию saver.
// OUTPUT_FOLDER может ещё не существовать: подпапки создаются по требованию.
func (c Saver) Validate() error {
	var errs []error

	if err := checkDir("IMAGE_FOLDER", c.ImageFolder); err != nil {
		errs = append(errs, err)
	}
	if err := required("OUTPUT_FOLDER", c.OutputFolder); err != nil {
		errs = append(errs, err)
	} else if info, err := os.Stat(c.OutputFolder); err == nil && !info.IsDir() {
		errs = append(errs, fmt.Errorf("OUTPUT_FOLDER: %s is not a directory", c.OutputFolder))
	}
	if err := required("RABBITMQ_RESPONSE_QUEUE", c.RabbitMQ.ResponseQueue); err != nil {
		errs = append(errs, err)
	}

	return validationError(errs)
}
