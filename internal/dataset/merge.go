package dataset

import (
	"boxoffice/internal/metrics"
	"boxoffice/internal/table"
)

// JoinKeys names the canonical key columns of each left join. The fact and
// dimension sides differ for the director join because the upstream exports
// spell them differently ("DirectorID" vs "Director_ID").
type JoinKeys struct {
	DirectorFact string
	DirectorDim  string
	GenreFact    string
	GenreDim     string
	LanguageFact string
	LanguageDim  string
}

// DefaultJoinKeys returns the join keys of the upstream exports.
func DefaultJoinKeys() JoinKeys {
	return JoinKeys{
		DirectorFact: "directorid",
		DirectorDim:  "director_id",
		GenreFact:    "genreid",
		GenreDim:     "genreid",
		LanguageFact: "languageid",
		LanguageDim:  "languageid",
	}
}

// Merge left-joins the fact table with the director, genre, and language
// dimensions, in that order, into the unified dataset.
//
// Invariants:
//   - Every fact row appears exactly once in the result, joins never add or
//     drop rows.
//   - Duplicate dimension keys resolve to the first occurrence in dimension
//     row order.
//   - Unmatched or null fact keys leave the dimension's columns null.
//   - A dimension column whose canonical name already exists in the unified
//     table is skipped (first table wins).
//
// A nil dimension table skips that join.
func Merge(fact, director, genre, language *table.Table, keys JoinKeys) *Dataset {
	u := table.New("unified", fact.Columns)
	u.Rows = make([][]any, len(fact.Rows))
	for i, row := range fact.Rows {
		u.Rows[i] = append([]any(nil), row...)
	}

	leftJoin(u, director, keys.DirectorFact, keys.DirectorDim)
	leftJoin(u, genre, keys.GenreFact, keys.GenreDim)
	leftJoin(u, language, keys.LanguageFact, keys.LanguageDim)

	metrics.RecordRow("boxoffice", "merged", int64(u.NumRows()))
	return &Dataset{Table: u}
}

// leftJoin appends dim's non-key columns to base, matching rows on the
// canonical text form of the key cells. Comparison is case-sensitive.
func leftJoin(base *table.Table, dim *table.Table, baseKey, dimKey string) {
	if dim == nil {
		return
	}
	baseIx := base.ColumnIndex(baseKey)
	dimIx := dim.ColumnIndex(dimKey)
	if baseIx < 0 || dimIx < 0 {
		return
	}

	// First occurrence wins for duplicate dimension keys.
	index := make(map[string]int, dim.NumRows())
	for i, row := range dim.Rows {
		k := table.KeyString(row[dimIx])
		if k == "" {
			continue
		}
		if _, dup := index[k]; !dup {
			index[k] = i
		}
	}

	// Bring over every dimension column that neither is the key nor
	// collides with an existing unified column.
	type colMap struct{ dimIx, baseIx int }
	var cols []colMap
	for i, c := range dim.Columns {
		if i == dimIx || base.HasColumn(c) {
			continue
		}
		cols = append(cols, colMap{dimIx: i, baseIx: base.AddColumn(c)})
	}
	if len(cols) == 0 {
		return
	}

	for _, row := range base.Rows {
		k := table.KeyString(row[baseIx])
		if k == "" {
			continue
		}
		di, ok := index[k]
		if !ok {
			continue
		}
		for _, cm := range cols {
			row[cm.baseIx] = dim.Rows[di][cm.dimIx]
		}
	}
}
