package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Coercion helpers turn raw text cells into typed values. They never fail:
// empty, whitespace-only, or unparseable input reports ok=false, which the
// loader records as a null cell. A malformed value must degrade to null,
// not discard the row.

// CoerceDecimal parses a decimal number. It accepts an optional sign and
// decimal point and tolerates thousands separators ("1,234.5"). Non-finite
// results ("inf", "nan") are rejected: an aggregate over coerced data must
// never see them.
func CoerceDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// CoerceInt parses a signed base-10 integer.
func CoerceInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ",", "")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CoerceDate parses a date with the single documented layout. A mismatch is
// a null, not an error.
func CoerceDate(s, layout string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
