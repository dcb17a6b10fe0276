package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Output управляет форматированием вывода CLI.
type Output struct {
	jsonMode bool
	w        io.Writer // stdout для данных
	errW     io.Writer // stderr для сообщений
}

// NewOutput создаёт Output. Если jsonMode=true, данные выводятся в JSON.
func NewOutput(jsonMode bool) *Output {
	return newOutputTo(os.Stdout, os.Stderr, jsonMode)
}

func newOutputTo(w, errW io.Writer, jsonMode bool) *Output {
	return &Output{
		jsonMode: jsonMode,
		w:        w,
		errW:     errW,
	}
}

// Print выводит данные: таблицу или JSON в зависимости от режима.
// rightCols — номера колонок (с нуля) с выравниванием вправо.
func (o *Output) Print(headers []string, rows [][]string, jsonData any, rightCols ...int) {
	if o.jsonMode {
		o.JSON(jsonData)
		return
	}
	o.Table(headers, rows, rightCols...)
}

// Table выводит данные в виде таблицы.
func (o *Output) Table(headers []string, rows [][]string, rightCols ...int) {
	columns := len(headers)
	if columns == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(o.w)
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(rightCols))
	for _, col := range rightCols {
		configs = append(configs, table.ColumnConfig{
			Number:      col + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	tw.Render()
}

// JSON выводит данные в формате JSON с отступами.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// Text выводит произвольный текст в stdout.
func (o *Output) Text(s string) {
	fmt.Fprint(o.w, s)
}

// Describe выводит текст, а в JSON-режиме — jsonData.
func (o *Output) Describe(s string, jsonData any) {
	if o.jsonMode {
		o.JSON(jsonData)
		return
	}
	o.Text(s)
}

// Success выводит сообщение об успехе в stderr.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// Error выводит сообщение об ошибке в stderr.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errW, "Error: "+msg)
}
