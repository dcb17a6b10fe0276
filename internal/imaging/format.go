package imaging

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultFormats — все форматы, для которых зарегистрирован декодер.
var DefaultFormats = []string{"bmp", "gif", "jpeg", "png", "tiff", "webp"}

// aliases приводит привычные сокращения к именам форматов декодеров.
var aliases = map[string]string{
	"jpg": "jpeg",
	"tif": "tiff",
}

// Formats — набор разрешённых форматов.
type Formats map[string]struct{}

// ParseFormats разбирает список вида "png,jpeg, gif".
// Пустые элементы пропускаются, регистр не важен.
func ParseFormats(s string) Formats {
	return NewFormats(strings.Split(s, ",")...)
}

// NewFormats создаёт набор из перечисленных форматов.
func NewFormats(names ...string) Formats {
	f := make(Formats, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		f[name] = struct{}{}
	}
	return f
}

// Has проверяет, входит ли формат в набор.
func (f Formats) Has(format string) bool {
	_, ok := f[format]
	return ok
}

// List возвращает форматы в отсортированном порядке.
func (f Formats) List() []string {
	out := make([]string, 0, len(f))
	for name := range f {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (f Formats) String() string {
	return strings.Join(f.List(), ",")
}

// Sniff определяет формат изображения по заголовку файла.
// Читается только заголовок, пиксели не декодируются.
func Sniff(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	_, format, err := image.DecodeConfig(bufio.NewReader(file))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnknownFormat, path, err)
	}

	return format, nil
}

// IsImage проверяет, что файл — изображение одного из разрешённых форматов.
// Возвращает определённый формат (может быть пустым) для логирования.
func IsImage(path string, allowed Formats) (bool, string) {
	format, err := Sniff(path)
	if err != nil {
		return false, ""
	}
	return allowed.Has(format), format
}
