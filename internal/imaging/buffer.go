package imaging

import (
	"fmt"
	"image"
	"image/color"
	"os"
)

// Buffer — пиксели изображения в виде массива Height x Width x Channels,
// построчно, 8 бит на канал.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewBuffer создаёт буфер RGB заданного размера, заполненный нулями.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: 3,
		Pix:      make([]uint8, width*height*3),
	}
}

// Set записывает RGB пиксель (x, y). Только для буферов с 3 каналами.
func (b *Buffer) Set(x, y int, r, g, bl uint8) {
	i := (y*b.Width + x) * b.Channels
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
}

// validate проверяет, что буфер — корректный массив H x W x 3.
func (b *Buffer) validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidShape)
	}
	if b.Channels != 3 {
		return fmt.Errorf("%w: got %d channels", ErrInvalidShape, b.Channels)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: empty image %dx%d", ErrInvalidShape, b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height*b.Channels {
		return fmt.Errorf("%w: %d bytes for %dx%dx%d",
			ErrInvalidShape, len(b.Pix), b.Height, b.Width, b.Channels)
	}
	return nil
}

// FromImage переводит изображение в RGB буфер.
// Альфа-канал отбрасывается, цвет берётся без премультипликации.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	buf := NewBuffer(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf.Set(x-bounds.Min.X, y-bounds.Min.Y, c.R, c.G, c.B)
		}
	}

	return buf
}

// Load читает и декодирует изображение.
// Любая ошибка (нет файла, нет прав, битые данные) оборачивается в ErrLoad.
func Load(path string) (*Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrLoad, path, err)
	}

	return FromImage(img), nil
}

// AverageColor считает средний цвет: каждый канал усредняется
// независимо по всем пикселям. Возвращает вектор из трёх компонент.
func AverageColor(b *Buffer) ([]float64, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	var sum [3]uint64
	for i := 0; i < len(b.Pix); i += 3 {
		sum[0] += uint64(b.Pix[i])
		sum[1] += uint64(b.Pix[i+1])
		sum[2] += uint64(b.Pix[i+2])
	}

	n := float64(b.Width * b.Height)
	return []float64{
		float64(sum[0]) / n,
		float64(sum[1]) / n,
		float64(sum[2]) / n,
	}, nil
}
