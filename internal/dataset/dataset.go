// Package dataset turns raw parsed tables into the unified film dataset the
// analyses run on. It owns the three load-time responsibilities (header
// normalization, type coercion, derived columns) and the left-join merge of
// the fact table with its dimensions.
package dataset

import "boxoffice/internal/table"

// Canonical column names of the unified dataset, as produced by header
// normalization of the upstream exports.
const (
	ColTitle       = "title"
	ColReleaseDate = "release_date"
	ColYear        = "year"
	ColWeekday     = "week_days"
	ColWorldwide   = "worldwide_collection_in_crores"
	ColIndia       = "india_gross_collection_in_crores"
	ColOverseas    = "overseas_collection_in_crores"
	ColFirstDay    = "first_day_collection_worldwide_in_crores"
	ColBudget      = "budget_in_crores"
	ColIMDB        = "imdb_rating"
	ColRuntime     = "runtime_mins"
	ColIndustry    = "industry"
	ColLanguage    = "language"
	ColDirector    = "director"
	ColGenre       = "genere"
	ColActor       = "lead_actor_actress"
	ColOTT         = "ott_platform"
	ColVerdict     = "verdict"
)

// Dataset is the unified, denormalized film table. It is immutable once
// built by Merge; analyses only read it.
type Dataset struct {
	*table.Table
}
