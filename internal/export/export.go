// Package export serializes analysis result tables. The engine supplies
// stable column and row order, so both formats are deterministic byte-for-
// byte for a given dataset.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"boxoffice/internal/analysis"
	"boxoffice/internal/table"
)

// WriteCSV writes a result as a CSV document with a header row.
func WriteCSV(w io.Writer, r analysis.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	rec := make([]string, len(r.Columns))
	for _, row := range r.Rows {
		for i := range rec {
			rec[i] = table.FormatCell(row[i])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMarkdown writes a result as a pipe-delimited Markdown table with a
// header separator row. Null cells render empty; pipes in cell text are
// escaped so the table structure survives.
func WriteMarkdown(w io.Writer, r analysis.Result) error {
	var b strings.Builder

	b.WriteString("|")
	for _, c := range r.Columns {
		b.WriteString(" ")
		b.WriteString(escapeMarkdown(c))
		b.WriteString(" |")
	}
	b.WriteString("\n|")
	for range r.Columns {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for _, row := range r.Rows {
		b.WriteString("|")
		for i := range r.Columns {
			b.WriteString(" ")
			b.WriteString(escapeMarkdown(table.FormatCell(row[i])))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
