package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/shaiso/colorsort/internal/palette"
)

type paletteEntry struct {
	Name string `json:"name"`
	R    uint8  `json:"r"`
	G    uint8  `json:"g"`
	B    uint8  `json:"b"`
	Hex  string `json:"hex"`
}

// NewPaletteCmd создаёт команду вывода каталога цветов.
func NewPaletteCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "List named colors used for classification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			colors := palette.Colors()
			entries := make([]paletteEntry, len(colors))
			rows := make([][]string, len(colors))
			for i, c := range colors {
				entries[i] = paletteEntry{Name: c.Name, R: c.R, G: c.G, B: c.B, Hex: c.Hex()}
				rows[i] = []string{
					c.Name,
					fmt.Sprint(c.R), fmt.Sprint(c.G), fmt.Sprint(c.B),
					c.Hex(),
					swatch(c),
				}
			}

			out.Print([]string{"NAME", "R", "G", "B", "HEX", "SWATCH"}, rows, entries, 1, 2, 3)
			return nil
		},
	}
}

// swatch — образец цвета. Без поддержки цвета в терминале — пробелы.
func swatch(c palette.Color) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("      ")
}
