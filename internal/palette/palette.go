package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color — эталонный именованный цвет.
type Color struct {
	Name    string
	R, G, B uint8
}

// Vector возвращает цвет как точку в пространстве RGB.
func (c Color) Vector() [3]float64 {
	return [3]float64{float64(c.R), float64(c.G), float64(c.B)}
}

// Hex возвращает цвет в виде "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// html4 — именованные цвета HTML4. Порядок важен: он определяет,
// какой цвет выигрывает при равных расстояниях.
var html4 = []struct {
	name string
	hex  string
}{
	{"aqua", "#00ffff"},
	{"black", "#000000"},
	{"blue", "#0000ff"},
	{"fuchsia", "#ff00ff"},
	{"green", "#008000"},
	{"gray", "#808080"},
	{"lime", "#00ff00"},
	{"maroon", "#800000"},
	{"navy", "#000080"},
	{"olive", "#808000"},
	{"purple", "#800080"},
	{"red", "#ff0000"},
	{"silver", "#c0c0c0"},
	{"teal", "#008080"},
	{"white", "#ffffff"},
	{"yellow", "#ffff00"},
}

var (
	catalog      []Color
	byName       map[string]Color
	defaultIndex *Index
)

func init() {
	catalog = make([]Color, 0, len(html4))
	for _, entry := range html4 {
		c, err := colorful.Hex(entry.hex)
		if err != nil {
			panic(fmt.Sprintf("palette: parse %s %q: %v", entry.name, entry.hex, err))
		}
		r, g, b := c.RGB255()
		catalog = append(catalog, Color{Name: entry.name, R: r, G: g, B: b})
	}

	idx, err := NewIndex(catalog)
	if err != nil {
		panic(fmt.Sprintf("palette: build index: %v", err))
	}
	defaultIndex = idx

	byName = make(map[string]Color, len(catalog))
	for _, c := range catalog {
		byName[c.Name] = c
	}
}

// Colors возвращает копию каталога в каноническом порядке.
func Colors() []Color {
	out := make([]Color, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup ищет цвет каталога по имени.
func Lookup(name string) (Color, bool) {
	c, ok := byName[name]
	return c, ok
}

// Classify возвращает имя ближайшего к vec цвета каталога.
func Classify(vec []float64) (string, error) {
	c, err := Nearest(vec)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

// Nearest возвращает ближайший к vec цвет каталога.
func Nearest(vec []float64) (Color, error) {
	c, _, err := defaultIndex.Nearest(vec)
	return c, err
}

// Distance — евклидово расстояние между vec и цветом c.
func Distance(vec [3]float64, c Color) float64 {
	return math.Sqrt(dist2(vec, c.Vector()))
}
