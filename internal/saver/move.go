package saver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shaiso/colorsort/internal/mq"
)

// moveResult — что произошло при переносе.
type moveResult struct {
	destination string
	replaced    bool
}

// MoveImage переносит imageDir/filename в outputDir/color/filename.
// Существующий файл назначения заменяется.
func MoveImage(filename, color, imageDir, outputDir string) error {
	_, err := moveImage(filename, color, imageDir, outputDir)
	return err
}

func moveImage(filename, color, imageDir, outputDir string) (moveResult, error) {
	if err := mq.ValidateFilename(filename); err != nil {
		return moveResult{}, err
	}
	// Цвет тоже становится элементом пути.
	if err := mq.ValidateFilename(color); err != nil {
		return moveResult{}, fmt.Errorf("color: %w", err)
	}

	source := filepath.Join(imageDir, filename)
	if _, err := os.Stat(source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return moveResult{}, fmt.Errorf("%w: %s", ErrSourceMissing, source)
		}
		return moveResult{}, fmt.Errorf("stat %s: %w", source, err)
	}

	colorDir := filepath.Join(outputDir, color)
	if err := os.MkdirAll(colorDir, 0o755); err != nil {
		return moveResult{}, fmt.Errorf("create %s: %w", colorDir, err)
	}

	result := moveResult{destination: filepath.Join(colorDir, filename)}
	if _, err := os.Lstat(result.destination); err == nil {
		result.replaced = true
	}

	if err := os.Rename(source, result.destination); err != nil {
		// Файл мог исчезнуть между Stat и Rename.
		if errors.Is(err, fs.ErrNotExist) {
			return moveResult{}, fmt.Errorf("%w: %s", ErrSourceMissing, source)
		}
		return moveResult{}, fmt.Errorf("move %s: %w", source, err)
	}

	return result, nil
}
