// Package report renders protocol results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table is a titled grid of cells with optional summary lines printed
// underneath.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	Summary []string
}

func NewTable(title string, columns ...string) *Table {
	return &Table{Title: title, Columns: columns}
}

// AddRow formats each cell with fmt.Sprint.
func (t *Table) AddRow(cells ...any) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.Rows = append(t.Rows, row)
}

func (t *Table) AddSummary(format string, args ...any) {
	t.Summary = append(t.Summary, fmt.Sprintf(format, args...))
}

func (t *Table) Render(out io.Writer) error {
	if t.Title != "" {
		if _, err := fmt.Fprintln(out, TitleStyle.Render(t.Title)); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if len(t.Columns) > 0 {
		fmt.Fprintln(w, strings.Join(t.Columns, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, line := range t.Summary {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(out)
	return err
}

// RenderAll writes tables in order, stopping at the first error.
func RenderAll(out io.Writer, tables []*Table) error {
	for _, t := range tables {
		if err := t.Render(out); err != nil {
			return err
		}
	}
	return nil
}
