package detector

import (
	"github.com/shaiso/colorsort/internal/imaging"
	"github.com/shaiso/colorsort/internal/palette"
)

// Result — результат классификации одного изображения.
type Result struct {
	// Color — ближайший цвет каталога.
	Color palette.Color

	// Average — средний цвет изображения (R, G, B).
	Average [3]float64

	// Distance — евклидово расстояние от Average до Color.
	Distance float64
}

// Classify загружает изображение и определяет его цвет.
// Ошибки загрузки — imaging.ErrLoad, неверная форма буфера — imaging.ErrInvalidShape.
func Classify(path string) (Result, error) {
	buf, err := imaging.Load(path)
	if err != nil {
		return Result{}, err
	}
	return ClassifyBuffer(buf)
}

// ClassifyBuffer определяет цвет уже загруженного изображения.
func ClassifyBuffer(buf *imaging.Buffer) (Result, error) {
	avg, err := imaging.AverageColor(buf)
	if err != nil {
		return Result{}, err
	}

	color, err := palette.Nearest(avg)
	if err != nil {
		return Result{}, err
	}

	vec := [3]float64{avg[0], avg[1], avg[2]}
	return Result{
		Color:    color,
		Average:  vec,
		Distance: palette.Distance(vec, color),
	}, nil
}

// GuessImageColor возвращает именованный цвет изображения.
func GuessImageColor(path string) (palette.Color, error) {
	result, err := Classify(path)
	if err != nil {
		return palette.Color{}, err
	}
	return result.Color, nil
}
