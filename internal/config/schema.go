// Package config defines the immutable schema configuration consumed by the
// dataset loader: which canonical columns get coerced to which type, the
// documented date layout of the upstream export, and which columns must be
// present for a table to be usable at all.
//
// Schemas are plain values passed into the loader rather than module-level
// state, so tests can supply alternate schemas without touching globals.
package config

// Coercion targets understood by the loader.
const (
	TypeDecimal = "decimal"
	TypeInt     = "int"
	TypeDate    = "date"
)

// DefaultDateLayout is the date format used by the upstream CSV export.
// Release dates that do not match the configured layout coerce to null.
const DefaultDateLayout = "2006-01-02"

// Schema describes one raw table: its logical name (used in errors and
// metrics), the coercion rules keyed by canonical column name, the date
// layout for date-typed columns, and the canonical columns that must exist
// after header normalization.
type Schema struct {
	Name       string
	Types      map[string]string
	DateLayout string
	Required   []string
}

// Layout returns the schema's date layout, falling back to DefaultDateLayout.
func (s Schema) Layout() string {
	if s.DateLayout == "" {
		return DefaultDateLayout
	}
	return s.DateLayout
}

// TypeOf returns the coercion target for a canonical column, or "" when the
// column stays text.
func (s Schema) TypeOf(column string) string {
	if s.Types == nil {
		return ""
	}
	return s.Types[column]
}

// FactSchema returns the default schema for Boxoffice_Fact.csv.
func FactSchema() Schema {
	return Schema{
		Name: "boxoffice_fact",
		Types: map[string]string{
			"budget_in_crores":                         TypeDecimal,
			"first_day_collection_worldwide_in_crores": TypeDecimal,
			"worldwide_collection_in_crores":           TypeDecimal,
			"overseas_collection_in_crores":            TypeDecimal,
			"india_gross_collection_in_crores":         TypeDecimal,
			"imdb_rating":                              TypeDecimal,
			"runtime_mins":                             TypeDecimal,
			"release_date":                             TypeDate,
		},
		Required: []string{"title"},
	}
}

// DirectorSchema returns the default schema for Director_dim.csv.
func DirectorSchema() Schema {
	return Schema{
		Name:     "director_dim",
		Required: []string{"director_id"},
	}
}

// GenreSchema returns the default schema for Genere_dim.csv. The table name
// keeps the upstream export's spelling.
func GenreSchema() Schema {
	return Schema{
		Name:     "genere_dim",
		Required: []string{"genreid"},
	}
}

// LanguageSchema returns the default schema for Language_dim.csv.
func LanguageSchema() Schema {
	return Schema{
		Name:     "language_dim",
		Required: []string{"languageid"},
	}
}
