package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/shaiso/colorsort/internal/imaging"
	"github.com/shaiso/colorsort/internal/pipeline"
	"github.com/shaiso/colorsort/internal/telemetry"
)

type sortResult struct {
	Published  int            `json:"published"`
	Skipped    int            `json:"skipped"`
	Classified int            `json:"classified"`
	Colors     map[string]int `json:"colors"`
}

// NewSortCmd создаёт команду локального прогона всех стадий без брокера.
func NewSortCmd(outputFn func() *Output) *cobra.Command {
	var in, out, formats string

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort a folder of images by color in one local pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := outputFn()

			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("create output folder: %w", err)
			}

			// Логи в stderr, чтобы stdout оставался для данных.
			logger := telemetry.NewLogger(os.Stderr, os.Getenv("LOG_FORMAT"), telemetry.LogLevel())

			summary, err := pipeline.RunLocal(cmd.Context(), pipeline.Config{
				ImageFolder:    in,
				OutputFolder:   out,
				AllowedFormats: imaging.ParseFormats(formats),
				Logger:         logger,
			})
			if err != nil {
				return err
			}

			names := make([]string, 0, len(summary.Colors))
			for name := range summary.Colors {
				names = append(names, name)
			}
			slices.Sort(names)

			rows := make([][]string, len(names))
			for i, name := range names {
				rows[i] = []string{name, strconv.Itoa(summary.Colors[name])}
			}

			o.Print([]string{"COLOR", "IMAGES"}, rows, sortResult{
				Published:  summary.Published,
				Skipped:    summary.Skipped,
				Classified: summary.Classified,
				Colors:     summary.Colors,
			}, 1)
			o.Success(fmt.Sprintf("Sorted %s images (%s skipped)",
				humanize.Comma(int64(summary.Classified)), humanize.Comma(int64(summary.Skipped))))
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Folder with images to sort")
	cmd.Flags().StringVar(&out, "out", "", "Output folder for color subfolders")
	cmd.Flags().StringVar(&formats, "formats", "", "Allowed formats, comma separated (default: all supported)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")

	return cmd
}
