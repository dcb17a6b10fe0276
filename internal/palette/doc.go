// Package palette содержит каталог эталонных цветов и индекс для поиска
// ближайшего цвета.
//
// Каталог — 16 именованных цветов HTML4. Он строится один раз при
// инициализации пакета и больше не изменяется. Снаружи доступен только
// через функции классификации:
//
//	name, err := palette.Classify([]float64{230, 0, 0}) // "red"
//
// Поиск ближайшего цвета выполняется по евклидову расстоянию в RGB
// через k-d дерево. При равных расстояниях побеждает цвет, который
// раньше встречается в каталоге.
package palette
