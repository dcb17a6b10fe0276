package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/shaiso/colorsort/internal/detector"
	"github.com/shaiso/colorsort/internal/imaging"
)

type classifyEntry struct {
	File     string  `json:"file"`
	Size     int64   `json:"size,omitempty"`
	Format   string  `json:"format,omitempty"`
	Average  string  `json:"average,omitempty"`
	Color    string  `json:"color,omitempty"`
	Distance float64 `json:"distance,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// NewClassifyCmd создаёт команду классификации файлов без брокера.
func NewClassifyCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "classify FILE...",
		Short: "Detect the named color of image files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			entries := make([]classifyEntry, 0, len(args))
			rows := make([][]string, 0, len(args))
			failed := 0
			for _, path := range args {
				entry := classifyFile(path)
				if entry.Error != "" {
					out.Error(entry.File + ": " + entry.Error)
					failed++
				}
				entries = append(entries, entry)
				rows = append(rows, entry.row())
			}

			out.Print([]string{"FILE", "SIZE", "FORMAT", "AVERAGE", "COLOR", "DISTANCE"}, rows, entries, 1, 5)

			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be classified", failed, len(args))
			}
			return nil
		},
	}
}

func classifyFile(path string) classifyEntry {
	entry := classifyEntry{File: filepath.Base(path)}

	info, err := os.Stat(path)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	entry.Size = info.Size()

	if format, err := imaging.Sniff(path); err == nil {
		entry.Format = format
	}

	result, err := detector.Classify(path)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	entry.Average = averageHex(result.Average)
	entry.Color = result.Color.Name
	entry.Distance = result.Distance
	return entry
}

func (e classifyEntry) row() []string {
	size := ""
	if e.Size > 0 {
		size = humanize.Bytes(uint64(e.Size))
	}
	if e.Error != "" {
		return []string{e.File, size, e.Format, "", "error: " + e.Error, ""}
	}
	return []string{
		e.File, size, e.Format, e.Average, e.Color,
		strconv.FormatFloat(e.Distance, 'f', 2, 64),
	}
}

// averageHex переводит средний цвет (0..255) в #rrggbb.
func averageHex(avg [3]float64) string {
	return colorful.Color{R: avg[0] / 255, G: avg[1] / 255, B: avg[2] / 255}.Clamped().Hex()
}
