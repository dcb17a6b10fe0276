package saver

import "errors"

var (
	// ErrSourceMissing — исходного файла нет в папке изображений.
	ErrSourceMissing = errors.New("source image missing")
)
