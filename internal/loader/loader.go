package loader

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/shaiso/colorsort/internal/imaging"
	"github.com/shaiso/colorsort/internal/mq"
	"github.com/shaiso/colorsort/internal/telemetry"
)

const defaultInterval = 10 * time.Second

// Publisher публикует сообщения в очередь.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// Config — конфигурация Loader.
type Config struct {
	// ImageFolder — папка с изображениями (плоская, без вложенности).
	ImageFolder string

	// AllowedFormats — разрешённые форматы (default: все поддерживаемые).
	AllowedFormats imaging.Formats

	// Queue — очередь request.
	Queue string

	// Publisher — куда публиковать имена файлов.
	Publisher Publisher

	// Schedule — расписание проходов (default: каждые 10 секунд).
	Schedule cron.Schedule

	// Dedup — не публиковать повторно имена, которые уже в очереди.
	Dedup bool

	// Limiter ограничивает скорость публикации (default: без ограничения).
	Limiter *rate.Limiter

	Logger *slog.Logger
}

// ScanResult — итог одного прохода.
type ScanResult struct {
	Published  int
	Skipped    int
	Duplicates int
}

// Loader сканирует папку и публикует имена изображений.
type Loader struct {
	folder    string
	formats   imaging.Formats
	queue     string
	publisher Publisher
	schedule  cron.Schedule
	dedup     bool
	limiter   *rate.Limiter
	logger    *slog.Logger

	queued queuedSet
}

// New создаёт новый Loader.
func New(cfg Config) *Loader {
	formats := cfg.AllowedFormats
	if len(formats) == 0 {
		formats = imaging.NewFormats(imaging.DefaultFormats...)
	}

	schedule := cfg.Schedule
	if schedule == nil {
		schedule = cron.Every(defaultInterval)
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewLimiter(0)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		folder:    cfg.ImageFolder,
		formats:   formats,
		queue:     cfg.Queue,
		publisher: cfg.Publisher,
		schedule:  schedule,
		dedup:     cfg.Dedup,
		limiter:   limiter,
		logger:    logger,
		queued:    make(queuedSet),
	}
}

// NewLimiter создаёт limiter на perSecond сообщений в секунду.
// perSecond <= 0 — без ограничения.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(math.Max(1, math.Ceil(perSecond)))
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Run сканирует папку по расписанию до отмены ctx.
// Ошибка прохода логируется, следующий проход выполняется как обычно.
func (l *Loader) Run(ctx context.Context) error {
	l.logger.Info("loader started",
		"image_folder", l.folder,
		"allowed_formats", l.formats.String(),
		"queue", l.queue,
		"dedup", l.dedup,
	)

	for {
		l.logger.Info("sending a batch of images")
		if _, err := l.ScanOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Error("scan failed", "error", err)
		}

		now := time.Now()
		next := l.schedule.Next(now)
		wait := next.Sub(now)
		l.logger.Info("waiting for next scan", "wait", wait, "next", next)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// ScanOnce выполняет один проход: перечисляет папку и публикует имя
// каждого изображения разрешённого формата. Прочие файлы пропускаются
// и остаются на месте.
func (l *Loader) ScanOnce(ctx context.Context) (ScanResult, error) {
	var result ScanResult

	telemetry.LoaderScans.Inc()

	entries, err := os.ReadDir(l.folder)
	if err != nil {
		return result, fmt.Errorf("list image folder: %w", err)
	}

	present := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		present[name] = struct{}{}

		if entry.IsDir() {
			l.logger.Warn("found directory in input folder", "file", name)
			telemetry.LoaderSkipped.WithLabelValues(telemetry.ReasonDirectory).Inc()
			result.Skipped++
			continue
		}

		ok, format := imaging.IsImage(filepath.Join(l.folder, name), l.formats)
		if !ok {
			l.logger.Warn("found non-image in input folder", "file", name, "format", format)
			telemetry.LoaderSkipped.WithLabelValues(telemetry.ReasonNotImage).Inc()
			result.Skipped++
			continue
		}

		if l.dedup && l.queued.has(name) {
			l.logger.Debug("already queued, skipping", "file", name)
			telemetry.LoaderSkipped.WithLabelValues(telemetry.ReasonDuplicate).Inc()
			result.Duplicates++
			continue
		}

		if err := l.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("wait for rate limiter: %w", err)
		}

		l.logger.Info("sending", "file", name, "format", format)
		if err := l.publisher.Publish(ctx, l.queue, mq.EncodeRequest(name)); err != nil {
			return result, fmt.Errorf("publish %s: %w", name, err)
		}

		telemetry.LoaderPublished.Inc()
		result.Published++

		if l.dedup {
			l.queued.add(name)
		}
	}

	if l.dedup {
		l.queued.retain(present)
	}

	return result, nil
}
