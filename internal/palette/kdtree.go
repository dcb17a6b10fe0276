package palette

import (
	"fmt"
	"math"
	"sort"
)

// Index — k-d дерево над точками каталога.
// После построения только читается, безопасно для конкурентного доступа.
type Index struct {
	colors []Color
	root   *kdNode
}

type kdNode struct {
	point [3]float64
	pos   int // позиция цвета в каталоге
	axis  int
	left  *kdNode
	right *kdNode
}

// NewIndex строит индекс над colors.
// Имена должны быть уникальными, каталог — непустым.
func NewIndex(colors []Color) (*Index, error) {
	if len(colors) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(colors))
	for _, c := range colors {
		if _, ok := seen[c.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	owned := make([]Color, len(colors))
	copy(owned, colors)

	positions := make([]int, len(owned))
	for i := range positions {
		positions[i] = i
	}

	return &Index{
		colors: owned,
		root:   buildKD(owned, positions, 0),
	}, nil
}

// buildKD рекурсивно делит точки по медиане текущей оси.
func buildKD(colors []Color, positions []int, depth int) *kdNode {
	if len(positions) == 0 {
		return nil
	}

	axis := depth % 3
	sort.SliceStable(positions, func(i, j int) bool {
		a := colors[positions[i]].Vector()[axis]
		b := colors[positions[j]].Vector()[axis]
		if a != b {
			return a < b
		}
		return positions[i] < positions[j]
	})

	mid := len(positions) / 2
	pos := positions[mid]

	// Копии срезов: дочерние вызовы сортируют свои части независимо.
	left := append([]int(nil), positions[:mid]...)
	right := append([]int(nil), positions[mid+1:]...)

	return &kdNode{
		point: colors[pos].Vector(),
		pos:   pos,
		axis:  axis,
		left:  buildKD(colors, left, depth+1),
		right: buildKD(colors, right, depth+1),
	}
}

// Len возвращает количество цветов в индексе.
func (ix *Index) Len() int {
	return len(ix.colors)
}

// Nearest находит ближайший к vec цвет.
// Возвращает сам цвет и евклидово расстояние до него.
func (ix *Index) Nearest(vec []float64) (Color, float64, error) {
	if len(vec) != 3 {
		return Color{}, 0, fmt.Errorf("%w: got %d", ErrInvalidVector, len(vec))
	}

	var target [3]float64
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Color{}, 0, fmt.Errorf("%w: component %d is %v", ErrInvalidVector, i, v)
		}
		target[i] = v
	}

	best := candidate{pos: -1, d2: math.Inf(1)}
	searchKD(ix.root, target, &best)

	return ix.colors[best.pos], math.Sqrt(best.d2), nil
}

type candidate struct {
	pos int
	d2  float64
}

func searchKD(n *kdNode, target [3]float64, best *candidate) {
	if n == nil {
		return
	}

	d2 := dist2(n.point, target)
	if d2 < best.d2 || (d2 == best.d2 && n.pos < best.pos) {
		best.pos = n.pos
		best.d2 = d2
	}

	diff := target[n.axis] - n.point[n.axis]
	near, far := n.left, n.right
	if diff >= 0 {
		near, far = n.right, n.left
	}

	searchKD(near, target, best)

	// Равенство не отсекаем: на той стороне может быть цвет с тем же
	// расстоянием, но раньше в каталоге.
	if diff*diff <= best.d2 {
		searchKD(far, target, best)
	}
}

func dist2(a, b [3]float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
