// Package render writes command results as terminal tables, JSON, YAML or an
// HTML bar chart.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatHTML  = "html"
)

// ErrUnknownFormat is returned for a format outside table, json, yaml, html.
var ErrUnknownFormat = errors.New("unknown output format")

// floatDecimals is the precision floats are shown with in tables.
const floatDecimals = 4

// Report is one command result in every shape a format may need.
type Report struct {
	// Title heads the table and the chart.
	Title string
	// Header names the table columns.
	Header []string
	// Rows are the table cells; numbers are humanized.
	Rows [][]any
	// Footer is an optional single line below the table.
	Footer string
	// Data is the machine-readable payload for json and yaml.
	Data any
	// Chart feeds the html format. Nil makes html unavailable.
	Chart *Chart
}

// Chart is a single bar series.
type Chart struct {
	SeriesName string
	Labels     []string
	Values     []float64
}

// Options tunes rendering.
type Options struct {
	Format string
	Color  bool
}

// ErrNoChart is returned when html is requested for a report without a chart.
var ErrNoChart = errors.New("report has no chart")

// Write renders rep to w.
func Write(w io.Writer, rep Report, o Options) error {
	switch o.Format {
	case FormatTable, "":
		return writeTable(w, rep, o.Color)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(rep.Data); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()

		if err := enc.Encode(rep.Data); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return nil
	case FormatHTML:
		if rep.Chart == nil {
			return ErrNoChart
		}

		return writeChart(w, rep.Title, rep.Chart)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, o.Format)
	}
}

func writeTable(w io.Writer, rep Report, colorize bool) error {
	if rep.Title != "" {
		heading := color.New(color.FgCyan, color.Bold)
		if !colorize {
			heading.DisableColor()
		}

		if _, err := heading.Fprintln(w, rep.Title); err != nil {
			return fmt.Errorf("write title: %w", err)
		}
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)

	header := make(table.Row, len(rep.Header))
	for i, h := range rep.Header {
		header[i] = h
	}

	tbl.AppendHeader(header)

	for _, row := range rep.Rows {
		cells := make(table.Row, len(row))
		for i, cell := range row {
			cells[i] = Cell(cell)
		}

		tbl.AppendRow(cells)
	}

	if rep.Footer != "" {
		tbl.AppendFooter(table.Row{rep.Footer})
	}

	if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}

// Cell formats a value for a table cell: integers get thousands separators,
// floats are rounded and trimmed, NaN shows as "n/a".
func Cell(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case int:
		return humanize.Comma(int64(val))
	case int64:
		return humanize.Comma(val)
	case float64:
		if math.IsNaN(val) {
			return "n/a"
		}

		return formatFloat(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return humanize.Comma(i)
		}

		if f, err := val.Float64(); err == nil {
			return formatFloat(f)
		}

		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return humanize.Comma(int64(f))
	}

	return humanize.CommafWithDigits(f, floatDecimals)
}
