package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Причины пропуска и ошибок (значения label "reason").
const (
	ReasonNotImage     = "not_image"
	ReasonDirectory    = "directory"
	ReasonDuplicate    = "already_queued"
	ReasonLoad         = "load"
	ReasonShape        = "shape"
	ReasonMalformed    = "malformed"
	ReasonMissing      = "source_missing"
	ReasonFilesystem   = "filesystem"
	ReasonPublish      = "publish"
	ReasonUnknownColor = "unknown_color"
)

var (
	// LoaderScans — количество проходов сканирования папки.
	LoaderScans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colorsort_loader_scans_total",
		Help: "Total directory scan passes performed by colorsort-loader",
	})

	// LoaderPublished — количество опубликованных request сообщений.
	LoaderPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colorsort_loader_published_total",
		Help: "Total image filenames published to the request queue",
	})

	// LoaderSkipped — пропущенные записи папки по причинам.
	LoaderSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colorsort_loader_skipped_total",
		Help: "Directory entries skipped by colorsort-loader",
	}, []string{"reason"})

	// DetectorClassified — классифицированные изображения по цветам.
	DetectorClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colorsort_detector_classified_total",
		Help: "Images classified by colorsort-detector",
	}, []string{"color"})

	// DetectorFailures — неудачные классификации по причинам.
	DetectorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colorsort_detector_failures_total",
		Help: "Request messages colorsort-detector could not classify",
	}, []string{"reason"})

	// SaverMoved — перемещённые изображения по цветам.
	SaverMoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colorsort_saver_moved_total",
		Help: "Images moved into color folders by colorsort-saver",
	}, []string{"color"})

	// SaverSkipped — пропущенные response сообщения по причинам.
	SaverSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colorsort_saver_skipped_total",
		Help: "Response messages skipped by colorsort-saver",
	}, []string{"reason"})
)
