// Package format renders resource rows, archived comments and live comments
// for the command line.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Output formats accepted by WriteTable.
const (
	Table = "table"
	Plain = "plain"
	JSON  = "json"
)

// Options controls WriteTable.
type Options struct {
	Format   string
	NoHeader bool
	// Width caps the rendered table width; 0 means unlimited.
	Width int
}

// WriteTable writes rows under headers to w. An empty format means Table.
func WriteTable(w io.Writer, headers []string, rows [][]string, opts Options) error {
	includeHeader := !opts.NoHeader
	switch strings.ToLower(opts.Format) {
	case "", Table:
		return writeTable(w, headers, rows, includeHeader, opts.Width)
	case Plain:
		return writePlain(w, headers, rows, includeHeader)
	case JSON:
		return writeJSON(w, headers, rows)
	default:
		return fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// DefaultFormat picks Table for terminals and Plain for pipes and files.
func DefaultFormat(f *os.File) string {
	if f != nil && IsTerminal(f.Fd()) {
		return Table
	}
	return Plain
}

// TerminalWidth returns the width of f, or 0 when f is not a terminal.
func TerminalWidth(f *os.File) int {
	if f == nil || !IsTerminal(f.Fd()) {
		return 0
	}
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return 0
}

func IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func writeTable(w io.Writer, headers []string, rows [][]string, includeHeader bool, width int) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	if width > 0 {
		tw.SetAllowedRowLength(width)
	}
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 60}
	}
	tw.SetColumnConfigs(configs)

	if includeHeader {
		tw.AppendHeader(toRow(headers))
	}
	for _, r := range rows {
		tw.AppendRow(toRow(r))
	}
	if len(rows) == 0 && len(headers) > 0 {
		empty := make([]string, len(headers))
		for i := range empty {
			empty[i] = "-"
		}
		empty[0] = "(no rows)"
		tw.AppendRow(toRow(empty))
	}

	_ = tw.Render()
	return nil
}

func writePlain(w io.Writer, headers []string, rows [][]string, includeHeader bool) error {
	if includeHeader {
		if _, err := fmt.Fprintln(w, strings.Join(headers, "\t")); err != nil {
			return err
		}
	}
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = escapeNewlines(c)
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, headers []string, rows [][]string) error {
	out := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		obj := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(r) {
				obj[h] = r[i]
			}
		}
		out = append(out, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}
