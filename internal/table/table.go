// Package table provides the in-memory tabular model shared by the loader,
// merger, and analyses: an ordered set of canonical columns with rows of
// typed cells, plus the header normalization and type coercion applied when
// raw tables are loaded.
//
// Cell values are one of: nil (null), string, float64, int64, or time.Time.
// Tables are built once at load time and treated as immutable afterwards.
package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Raw is a parsed-but-untyped table: the header row as it appeared in the
// source and text cells aligned to it. Parsers (CSV, HTML) produce Raw;
// the dataset loader consumes it.
type Raw struct {
	Header []string
	Rows   [][]string
}

// Table is an ordered-column table of typed cells. Rows are aligned to
// Columns; a nil cell is a null.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any

	colIx map[string]int
}

// New returns an empty table with the given canonical column order.
func New(name string, columns []string) *Table {
	t := &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.colIx = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.colIx[c] = i
	}
}

// ColumnIndex returns the position of a canonical column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if ix, ok := t.colIx[name]; ok {
		return ix
	}
	return -1
}

// HasColumn reports whether the table carries a canonical column.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// AddColumn appends a new column and extends every existing row with a nil
// cell. It returns the new column's index. Adding an existing column is a
// programming error and panics.
func (t *Table) AddColumn(name string) int {
	if t.HasColumn(name) {
		panic(fmt.Sprintf("table %s: column %q already exists", t.Name, name))
	}
	t.Columns = append(t.Columns, name)
	ix := len(t.Columns) - 1
	t.colIx[name] = ix
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], nil)
	}
	return ix
}

// Value returns the cell at (row, column name), or nil when the column is
// absent.
func (t *Table) Value(row int, column string) any {
	ix := t.ColumnIndex(column)
	if ix < 0 || row < 0 || row >= len(t.Rows) {
		return nil
	}
	return t.Rows[row][ix]
}

// Float reads a cell as float64. Integer cells widen; anything else
// (including null) reports ok=false.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Int reads a cell as int64.
func Int(v any) (int64, bool) {
	if n, ok := v.(int64); ok {
		return n, true
	}
	return 0, false
}

// Text reads a cell as a non-empty string.
func Text(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// KeyString converts a cell to its canonical text form for join-key
// comparison and group keys. Null maps to "". The comparison is
// case-sensitive; numeric keys compare by their decimal rendering so a
// text-typed "7" in one table matches an int-typed 7 in another.
func KeyString(v any) string {
	switch k := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(k)
	case int64:
		return strconv.FormatInt(k, 10)
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64)
	case time.Time:
		return k.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// FormatCell renders a cell for display and export. Null renders empty;
// floats render with the shortest round-trip form.
func FormatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(c, 10)
	case time.Time:
		return c.Format("2006-01-02")
	default:
		return fmt.Sprint(v)
	}
}
