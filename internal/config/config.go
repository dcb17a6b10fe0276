package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/shaiso/colorsort/internal/imaging"
	"github.com/shaiso/colorsort/internal/mq"
)

// LookupFunc ищет переменную окружения. В main это os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Порты /metrics по умолчанию.
const (
	defaultLoaderPort   = 8091
	defaultDetectorPort = 8092
	defaultSaverPort    = 8093
)

// ErrInvalid — конфигурация не прошла проверку.
var ErrInvalid = errors.New("invalid configuration")

// File — структура файла конфигурации (YAML или TOML).
// Один файл может обслуживать все три воркера.
type File struct {
	ImageFolder    string       `yaml:"image_folder" toml:"image_folder" env:"IMAGE_FOLDER"`
	OutputFolder   string       `yaml:"output_folder" toml:"output_folder" env:"OUTPUT_FOLDER"`
	AllowedFormats []string     `yaml:"allowed_formats" toml:"allowed_formats" env:"ALLOWED_FORMATS" envSeparator:","`
	RabbitMQ       RabbitMQ     `yaml:"rabbitmq" toml:"rabbitmq"`
	Loader         LoaderFile   `yaml:"loader" toml:"loader"`
	Detector       DetectorFile `yaml:"detector" toml:"detector"`
	Saver          SaverFile    `yaml:"saver" toml:"saver"`
}

// LoaderFile — секция loader.
type LoaderFile struct {
	WaitBetweenScansSec int     `yaml:"wait_between_scans_sec" toml:"wait_between_scans_sec" env:"WAIT_BETWEEN_SCANS_SEC"`
	ScanCron            string  `yaml:"scan_cron" toml:"scan_cron" env:"SCAN_CRON"`
	Dedup               bool    `yaml:"dedup" toml:"dedup" env:"SCAN_DEDUP"`
	PublishRate         float64 `yaml:"publish_rate" toml:"publish_rate" env:"PUBLISH_RATE"`
	MetricsPort         int     `yaml:"metrics_port" toml:"metrics_port" env:"METRICS_PORT"`
}

// DetectorFile — секция detector.
type DetectorFile struct {
	AckMode     string `yaml:"ack_mode" toml:"ack_mode" env:"ACK_MODE"`
	MetricsPort int    `yaml:"metrics_port" toml:"metrics_port" env:"METRICS_PORT"`
}

// SaverFile — секция saver.
type SaverFile struct {
	AckMode     string `yaml:"ack_mode" toml:"ack_mode" env:"ACK_MODE"`
	MetricsPort int    `yaml:"metrics_port" toml:"metrics_port" env:"METRICS_PORT"`
}

// RabbitMQ — параметры брокера.
type RabbitMQ struct {
	URL                string `yaml:"url" toml:"url" env:"RABBITMQ_URL"`
	Host               string `yaml:"host" toml:"host" env:"RABBITMQ_HOST"`
	RequestQueue       string `yaml:"request_queue" toml:"request_queue" env:"RABBITMQ_REQUEST_QUEUE"`
	ResponseQueue      string `yaml:"response_queue" toml:"response_queue" env:"RABBITMQ_RESPONSE_QUEUE"`
	ConnectMaxAttempts int    `yaml:"connect_max_attempts" toml:"connect_max_attempts" env:"CONNECT_MAX_ATTEMPTS"`
}

// ConnectionConfig возвращает параметры подключения для mq.
// RABBITMQ_URL важнее RABBITMQ_HOST.
func (r RabbitMQ) ConnectionConfig() mq.ConnectionConfig {
	url := r.URL
	if url == "" {
		url = mq.URLFromHost(r.Host)
	}

	retry := mq.DefaultRetryPolicy()
	if r.ConnectMaxAttempts > 0 {
		retry.MaxAttempts = r.ConnectMaxAttempts
	}

	return mq.ConnectionConfig{URL: url, Retry: retry}
}

func defaults() File {
	return File{
		AllowedFormats: append([]string(nil), imaging.DefaultFormats...),
		RabbitMQ: RabbitMQ{
			Host:               "localhost",
			ConnectMaxAttempts: mq.DefaultRetryPolicy().MaxAttempts,
		},
		Loader: LoaderFile{
			WaitBetweenScansSec: 10,
			MetricsPort:         defaultLoaderPort,
		},
		Detector: DetectorFile{
			AckMode:     string(mq.AckOnReceipt),
			MetricsPort: defaultDetectorPort,
		},
		Saver: SaverFile{
			AckMode:     string(mq.AckOnReceipt),
			MetricsPort: defaultSaverPort,
		},
	}
}

// load собирает File из значений по умолчанию, файла и окружения.
func load(lookup LookupFunc) (File, error) {
	f := defaults()

	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		if err := readFile(path, lookup, &f); err != nil {
			return File{}, err
		}
	}

	// METRICS_PORT и ACK_MODE общие: каждый воркер — отдельный процесс
	// и читает только свою секцию.
	vars, err := environment(lookup, &f)
	if err != nil {
		return File{}, err
	}
	if err := env.ParseWithOptions(&f, env.Options{Environment: vars}); err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return f, nil
}

// readFile читает файл поверх текущих значений f.
// Формат определяется по расширению: .toml — TOML, иначе YAML.
func readFile(path string, lookup LookupFunc, f *File) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	expanded := expandVars(raw, lookup)

	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		unmarshal = toml.Unmarshal
	}

	if err := unmarshal(expanded, f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

// environment собирает из lookup значения всех переменных,
// на которые ссылаются env теги f.
func environment(lookup LookupFunc, f *File) (map[string]string, error) {
	params, err := env.GetFieldParams(f)
	if err != nil {
		return nil, fmt.Errorf("read env tags: %w", err)
	}

	vars := make(map[string]string, len(params))
	for _, p := range params {
		if v, ok := lookup(p.Key); ok {
			vars[p.Key] = strings.TrimSpace(v)
		}
	}
	return vars, nil
}

var varRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandVars заменяет ${VAR} значениями из окружения.
// Одиночный $ (например, в пароле внутри rabbitmq.url) остаётся как есть.
func expandVars(raw []byte, lookup LookupFunc) []byte {
	return varRef.ReplaceAllFunc(raw, func(ref []byte) []byte {
		v, _ := lookup(string(ref[2 : len(ref)-1]))
		return []byte(v)
	})
}

// checkDir проверяет, что path — существующая папка.
func checkDir(name, path string) error {
	if path == "" {
		return fmt.Errorf("%s is required", name)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %s is not a directory", name, path)
	}
	return nil
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

// metricsAddr переводит METRICS_PORT в адрес сервера.
// 0 отключает /healthz и /metrics.
func metricsAddr(port int) (string, error) {
	switch {
	case port == 0:
		return "", nil
	case port < 0 || port > 65535:
		return "", fmt.Errorf("%w: METRICS_PORT must be between 0 and 65535, got %d", ErrInvalid, port)
	}
	return ":" + strconv.Itoa(port), nil
}

func validationError(errs []error) error {
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
