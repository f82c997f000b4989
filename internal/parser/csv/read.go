// Package csv reads one raw table from CSV bytes. Parsing is tolerant by
// design: a malformed cell must surface downstream as a null, never as a
// dropped row, so ragged records are padded or truncated to the header
// width instead of being skipped.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"boxoffice/internal/table"
)

// Options control CSV reading. The zero value means comma-separated with a
// header row and edge-space trimming.
type Options struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune
	// LazyQuotes relaxes quote handling for sloppy exports.
	LazyQuotes bool
	// NoTrim disables trimming of cell edge whitespace.
	NoTrim bool
}

// Read parses an entire CSV document into a raw table. The first record is
// the header (a UTF-8 BOM on the first field is stripped); every following
// record becomes a row fitted to the header width.
func Read(r io.Reader, opt Options) (table.Raw, error) {
	comma := opt.Comma
	if comma == 0 {
		comma = ','
	}

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = -1 // width is enforced manually below

	hdr, err := cr.Read()
	if err == io.EOF {
		return table.Raw{}, fmt.Errorf("read csv header: empty input")
	}
	if err != nil {
		return table.Raw{}, fmt.Errorf("read csv header: %w", err)
	}
	for i := range hdr {
		if i == 0 {
			hdr[i] = strings.TrimPrefix(hdr[i], "\uFEFF")
		}
		hdr[i] = strings.TrimSpace(hdr[i])
	}

	raw := table.Raw{Header: hdr}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return raw, nil
		}
		line++
		if err != nil {
			return raw, fmt.Errorf("csv read line %d: %w", line, err)
		}
		if !opt.NoTrim {
			for i := range rec {
				if hasEdgeSpace(rec[i]) {
					rec[i] = strings.TrimSpace(rec[i])
				}
			}
		}
		raw.Rows = append(raw.Rows, fitRowToWidth(rec, len(hdr)))
	}
}

// fitRowToWidth truncates or pads a record to exactly n fields. Missing
// fields are left empty and coerce to null downstream.
func fitRowToWidth(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	cp := make([]string, n)
	copy(cp, row)
	return cp
}

func hasEdgeSpace(s string) bool {
	if s == "" {
		return false
	}
	return s[0] == ' ' || s[0] == '\t' || s[len(s)-1] == ' ' || s[len(s)-1] == '\t'
}
