package imaging

import "errors"

var (
	// ErrLoad — файл отсутствует, не читается или не декодируется как изображение.
	ErrLoad = errors.New("failed to load image")

	// ErrInvalidShape — буфер не является массивом H x W x 3.
	ErrInvalidShape = errors.New("image array must be of shape M x N x 3")

	// ErrUnknownFormat — содержимое файла не распознано как изображение.
	ErrUnknownFormat = errors.New("unknown image format")
)
