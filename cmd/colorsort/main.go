// Colorsort CLI — утилита оператора для сортировки изображений по цвету.
//
// Использование:
//
//	colorsort [--json] <command> [flags]
//
// Команды:
//
//	palette   Каталог именованных цветов
//	classify  Цвет изображений
//	topology  Очереди RabbitMQ
//	sort      Локальная сортировка папки без брокера
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/colorsort/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "colorsort",
		Short:         "Colorsort CLI — sort images by dominant color",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewPaletteCmd(outputFn),
		cli.NewClassifyCmd(outputFn),
		cli.NewTopologyCmd(outputFn),
		cli.NewSortCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
