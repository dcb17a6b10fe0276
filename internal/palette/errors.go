package palette

import "errors"

// Ошибки палитры.
var (
	// ErrInvalidVector — вектор цвета не из трёх конечных компонент.
	ErrInvalidVector = errors.New("color must have 3 finite components")

	// ErrEmptyCatalog — каталог цветов пуст.
	ErrEmptyCatalog = errors.New("color catalog is empty")

	// ErrDuplicateName — имя цвета встречается в каталоге дважды.
	ErrDuplicateName = errors.New("duplicate color name")

	// ErrUnknownColor — имя не найдено в каталоге.
	ErrUnknownColor = errors.New("unknown color name")
)
