package dataset

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"boxoffice/internal/config"
	"boxoffice/internal/metrics"
	"boxoffice/internal/parser/csv"
	"boxoffice/internal/table"
)

// MissingColumnError reports a required canonical column absent from a table
// after header normalization. It is the only hard failure in the load path.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s: required column %q is missing", e.Table, e.Column)
}

// LoadStats summarizes one table load for logging and metrics.
type LoadStats struct {
	Rows int
	// CoerceNulls counts cells per canonical column that held text but
	// failed coercion and degraded to null. Empty cells are not counted.
	CoerceNulls map[string]int
}

func (s LoadStats) TotalCoerceNulls() int {
	var n int
	for _, c := range s.CoerceNulls {
		n += c
	}
	return n
}

// Load turns a raw parsed table into a typed table: headers are normalized
// to canonical names, columns listed in the schema are coerced (malformed
// cells degrade to null and are counted), unlisted columns stay text, and
// derived columns are appended.
//
// Edge cases:
//   - Duplicate canonical names after normalization: the last source column
//     wins (collisions within one header set are undocumented upstream).
//   - Empty cells become null without counting as malformed.
//
// Errors:
//   - *MissingColumnError when a schema-required canonical column is absent.
func Load(raw table.Raw, schema config.Schema) (*table.Table, LoadStats, error) {
	// Canonical column order is first-occurrence; a later duplicate source
	// column overwrites the earlier one's cells.
	columns := make([]string, 0, len(raw.Header))
	srcIx := make(map[string]int, len(raw.Header)) // canonical -> source index
	for i, h := range raw.Header {
		name := table.NormalizeFieldName(h)
		if name == "" {
			continue
		}
		if _, seen := srcIx[name]; !seen {
			columns = append(columns, name)
		}
		srcIx[name] = i
	}

	for _, req := range schema.Required {
		if _, ok := srcIx[req]; !ok {
			return nil, LoadStats{}, &MissingColumnError{Table: schema.Name, Column: req}
		}
	}

	t := table.New(schema.Name, columns)
	stats := LoadStats{CoerceNulls: make(map[string]int)}
	layout := schema.Layout()

	for _, rec := range raw.Rows {
		row := make([]any, len(columns))
		for ci, name := range columns {
			ix := srcIx[name]
			if ix >= len(rec) {
				continue
			}
			cell := strings.TrimSpace(rec[ix])
			if cell == "" {
				continue
			}
			switch schema.TypeOf(name) {
			case config.TypeDecimal:
				if f, ok := table.CoerceDecimal(cell); ok {
					row[ci] = f
				} else {
					stats.CoerceNulls[name]++
				}
			case config.TypeInt:
				if n, ok := table.CoerceInt(cell); ok {
					row[ci] = n
				} else {
					stats.CoerceNulls[name]++
				}
			case config.TypeDate:
				if d, ok := table.CoerceDate(cell, layout); ok {
					row[ci] = d
				} else {
					stats.CoerceNulls[name]++
				}
			default:
				row[ci] = cell
			}
		}
		t.Rows = append(t.Rows, row)
	}
	stats.Rows = t.NumRows()

	cleanText(t)
	deriveDateParts(t, schema)
	deriveOverseas(t)

	metrics.RecordRow("boxoffice", "loaded", int64(stats.Rows))
	metrics.RecordRow("boxoffice", "coerce_nulls", int64(stats.TotalCoerceNulls()))

	return t, stats, nil
}

// LoadCSV is the common path: parse CSV from r, then Load.
func LoadCSV(r io.Reader, opt csv.Options, schema config.Schema) (*table.Table, LoadStats, error) {
	raw, err := csv.Read(r, opt)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("load %s: %w", schema.Name, err)
	}
	return Load(raw, schema)
}

// cleanText applies the known text fixups of the upstream export: verdict
// values carry a stray ":" and ott_platform values arrive in mixed case.
func cleanText(t *table.Table) {
	if ix := t.ColumnIndex(ColVerdict); ix >= 0 {
		for _, row := range t.Rows {
			if s, ok := row[ix].(string); ok {
				s = strings.TrimSpace(strings.ReplaceAll(s, ":", ""))
				if s == "" {
					row[ix] = nil
				} else {
					row[ix] = s
				}
			}
		}
	}
	if ix := t.ColumnIndex(ColOTT); ix >= 0 {
		for _, row := range t.Rows {
			if s, ok := row[ix].(string); ok {
				row[ix] = capitalize(strings.TrimSpace(s))
			}
		}
	}
}

// deriveDateParts appends year and week_days derived from release_date.
// Rows with a null release date get null parts.
func deriveDateParts(t *table.Table, schema config.Schema) {
	if schema.TypeOf(ColReleaseDate) != config.TypeDate || !t.HasColumn(ColReleaseDate) {
		return
	}
	dateIx := t.ColumnIndex(ColReleaseDate)
	yearIx := t.AddColumn(ColYear)
	dayIx := t.AddColumn(ColWeekday)
	for _, row := range t.Rows {
		d, ok := row[dateIx].(time.Time)
		if !ok {
			continue
		}
		row[yearIx] = int64(d.Year())
		row[dayIx] = d.Weekday().String()
	}
}

// deriveOverseas fills overseas_collection_in_crores = worldwide - india
// when the source did not carry the column directly. A null india counts as
// 0; a null worldwide leaves the derived value null. When the direct column
// exists it wins and no derivation happens.
func deriveOverseas(t *table.Table) {
	if t.HasColumn(ColOverseas) || !t.HasColumn(ColWorldwide) {
		return
	}
	wwIx := t.ColumnIndex(ColWorldwide)
	inIx := t.ColumnIndex(ColIndia)
	ovIx := t.AddColumn(ColOverseas)
	for _, row := range t.Rows {
		ww, ok := table.Float(row[wwIx])
		if !ok {
			continue
		}
		var india float64
		if inIx >= 0 {
			if v, ok := table.Float(row[inIx]); ok {
				india = v
			}
		}
		row[ovIx] = ww - india
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
