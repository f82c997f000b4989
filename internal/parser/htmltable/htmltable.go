// Package htmltable extracts one raw table from an HTML document. It exists
// for sources that publish box-office tables as web pages rather than CSV
// exports; the extracted table flows through the same loader as a CSV file.
//
// Extraction is resilient: rows that carry no cells are skipped, and cell
// counts are fitted to the header width so downstream consumers can rely on
// stable column indexes.
package htmltable

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"boxoffice/internal/table"
)

// Options select which table to extract.
type Options struct {
	// Selector is a goquery/CSS selector for the table element.
	// Defaults to "table" (the document's first table).
	Selector string
}

// Parse reads an HTML document and extracts the first table matched by the
// selector. The header comes from the table's first row of <th> cells (or
// its first row when no <th> is present); every following <tr> becomes one
// raw row.
func Parse(r io.Reader, opt Options) (table.Raw, error) {
	sel := opt.Selector
	if sel == "" {
		sel = "table"
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return table.Raw{}, fmt.Errorf("parse html: %w", err)
	}

	tbl := doc.Find(sel).First()
	if tbl.Length() == 0 {
		return table.Raw{}, fmt.Errorf("no table matches selector %q", sel)
	}

	var raw table.Raw
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := rowCells(tr)
		if len(cells) == 0 {
			return
		}
		if raw.Header == nil {
			raw.Header = cells
			return
		}
		raw.Rows = append(raw.Rows, fitRowToWidth(cells, len(raw.Header)))
	})

	if raw.Header == nil {
		return table.Raw{}, fmt.Errorf("table matched by %q has no rows", sel)
	}
	return raw, nil
}

// rowCells collects the trimmed text of a row's <th>/<td> cells in DOM order.
func rowCells(tr *goquery.Selection) []string {
	var cells []string
	tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

func fitRowToWidth(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	cp := make([]string, n)
	copy(cp, row)
	return cp
}
