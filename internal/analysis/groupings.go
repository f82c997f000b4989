package analysis

import (
	"fmt"
	"sort"
	"strings"

	"boxoffice/internal/dataset"
	"boxoffice/internal/table"
)

// group is one aggregation bucket. keyCell keeps the typed group key for
// emission (so years stay integers); key is its canonical text form used for
// bucketing and tie-breaks.
type group struct {
	keyCell any
	key     string
	count   int64
	sum     float64
}

// grouper accumulates buckets in first-seen order; analyses sort afterwards.
type grouper struct {
	order []*group
	byKey map[string]*group
}

func newGrouper() *grouper {
	return &grouper{byKey: make(map[string]*group)}
}

// at returns the bucket for a group key cell, creating it on first sight.
// A null key returns nil: grouping drops records without a key.
func (g *grouper) at(cell any) *group {
	key := table.KeyString(cell)
	if key == "" {
		return nil
	}
	if b, ok := g.byKey[key]; ok {
		return b
	}
	b := &group{keyCell: cell, key: key}
	g.byKey[key] = b
	g.order = append(g.order, b)
	return b
}

func sortDescBySum(groups []*group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].sum != groups[j].sum {
			return groups[i].sum > groups[j].sum
		}
		return groups[i].key < groups[j].key
	})
}

func sortDescByCount(groups []*group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].key < groups[j].key
	})
}

// runCountsBy counts records per release year or per release weekday.
// Records with a null group key are excluded. Years sort ascending
// numerically; weekdays sort in calendar order starting Monday.
func runCountsBy(ds *dataset.Dataset, p Params) ([]Result, error) {
	by := strings.ToLower(p.By)
	if by == "" {
		by = "year"
	}

	var keyCol string
	switch by {
	case "year":
		keyCol = dataset.ColYear
	case "weekday":
		keyCol = dataset.ColWeekday
	default:
		return nil, fmt.Errorf("counts-by: by must be %q or %q, got %q", "year", "weekday", p.By)
	}

	g := newGrouper()
	if ix := ds.ColumnIndex(keyCol); ix >= 0 {
		for _, row := range ds.Rows {
			if b := g.at(row[ix]); b != nil {
				b.count++
			}
		}
	}

	groups := g.order
	if by == "year" {
		sort.SliceStable(groups, func(i, j int) bool {
			yi, _ := table.Int(groups[i].keyCell)
			yj, _ := table.Int(groups[j].keyCell)
			return yi < yj
		})
	} else {
		sort.SliceStable(groups, func(i, j int) bool {
			return weekdayRank(groups[i].key) < weekdayRank(groups[j].key)
		})
	}

	r := Result{Name: by + "_counts", Columns: []string{keyCol, "count"}}
	for _, b := range groups {
		r.Rows = append(r.Rows, []any{b.keyCell, b.count})
	}
	return []Result{r}, nil
}

// weekdayRank orders day names Monday through Sunday; unknown names sort
// last.
func weekdayRank(day string) int {
	switch day {
	case "Monday":
		return 0
	case "Tuesday":
		return 1
	case "Wednesday":
		return 2
	case "Thursday":
		return 3
	case "Friday":
		return 4
	case "Saturday":
		return 5
	case "Sunday":
		return 6
	default:
		return 7
	}
}

// runLanguageMetrics aggregates per language: budget sum, worldwide sum, and
// the count of records with a known director. Each table sorts descending by
// its own value, language ascending on ties.
func runLanguageMetrics(ds *dataset.Dataset, _ Params) ([]Result, error) {
	langIx := ds.ColumnIndex(dataset.ColLanguage)
	budgetIx := ds.ColumnIndex(dataset.ColBudget)
	wwIx := ds.ColumnIndex(dataset.ColWorldwide)
	dirIx := ds.ColumnIndex(dataset.ColDirector)

	budget := newGrouper()
	worldwide := newGrouper()
	directors := newGrouper()
	if langIx >= 0 {
		for _, row := range ds.Rows {
			cell := row[langIx]
			if b := budget.at(cell); b != nil {
				if v, ok := valueAt(row, budgetIx); ok {
					b.sum += v
				}
			}
			if b := worldwide.at(cell); b != nil {
				if v, ok := valueAt(row, wwIx); ok {
					b.sum += v
				}
			}
			if b := directors.at(cell); b != nil {
				if dirIx >= 0 && row[dirIx] != nil {
					b.count++
				}
			}
		}
	}

	sortDescBySum(budget.order)
	sortDescBySum(worldwide.order)
	sortDescByCount(directors.order)

	return []Result{
		sumResult("budget_by_language", dataset.ColLanguage, dataset.ColBudget, budget.order),
		sumResult("worldwide_by_language", dataset.ColLanguage, dataset.ColWorldwide, worldwide.order),
		countResult("directors_by_language", dataset.ColLanguage, "directors", directors.order),
	}, nil
}

// runDirectorMetrics ranks directors by worldwide sum (film count breaking
// ties) and by film count, top N each.
func runDirectorMetrics(ds *dataset.Dataset, p Params) ([]Result, error) {
	dirIx := ds.ColumnIndex(dataset.ColDirector)
	wwIx := ds.ColumnIndex(dataset.ColWorldwide)

	g := newGrouper()
	if dirIx >= 0 {
		for _, row := range ds.Rows {
			b := g.at(row[dirIx])
			if b == nil {
				continue
			}
			b.count++
			if v, ok := valueAt(row, wwIx); ok {
				b.sum += v
			}
		}
	}

	n := p.limit()

	byWorldwide := append([]*group(nil), g.order...)
	sort.SliceStable(byWorldwide, func(i, j int) bool {
		if byWorldwide[i].sum != byWorldwide[j].sum {
			return byWorldwide[i].sum > byWorldwide[j].sum
		}
		if byWorldwide[i].count != byWorldwide[j].count {
			return byWorldwide[i].count > byWorldwide[j].count
		}
		return byWorldwide[i].key < byWorldwide[j].key
	})

	byFilms := append([]*group(nil), g.order...)
	sortDescByCount(byFilms)

	return []Result{
		sumResult("directors_top_worldwide", dataset.ColDirector, dataset.ColWorldwide, head(byWorldwide, n)),
		countResult("directors_top_films", dataset.ColDirector, "films", head(byFilms, n)),
	}, nil
}

// runActorMetrics ranks lead actors by worldwide sum. A cell may name
// several actors delimited by "," or "&"; each named actor receives the
// row's full worldwide value.
func runActorMetrics(ds *dataset.Dataset, p Params) ([]Result, error) {
	actorIx := ds.ColumnIndex(dataset.ColActor)
	if actorIx < 0 {
		return nil, &dataset.MissingColumnError{Table: "unified", Column: dataset.ColActor}
	}
	wwIx := ds.ColumnIndex(dataset.ColWorldwide)

	g := newGrouper()
	for _, row := range ds.Rows {
		cell, ok := table.Text(row[actorIx])
		if !ok {
			continue
		}
		for _, actor := range splitActors(cell) {
			b := g.at(actor)
			if b == nil {
				continue
			}
			b.count++
			if v, ok := valueAt(row, wwIx); ok {
				b.sum += v
			}
		}
	}

	sortDescBySum(g.order)
	return []Result{
		sumResult("actors_top_worldwide", dataset.ColActor, dataset.ColWorldwide, head(g.order, p.limit())),
	}, nil
}

// splitActors splits a delimited multi-actor cell into trimmed names.
func splitActors(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '&' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// runLanguageYear counts records per (language, year) pair, ascending by
// year then language. Records missing either key are excluded.
func runLanguageYear(ds *dataset.Dataset, _ Params) ([]Result, error) {
	langIx := ds.ColumnIndex(dataset.ColLanguage)
	yearIx := ds.ColumnIndex(dataset.ColYear)

	type pair struct {
		lang string
		year int64
		n    int64
	}
	order := make([]*pair, 0)
	byKey := make(map[string]*pair)
	if langIx >= 0 && yearIx >= 0 {
		for _, row := range ds.Rows {
			lang, ok := table.Text(row[langIx])
			if !ok {
				continue
			}
			year, ok := table.Int(row[yearIx])
			if !ok {
				continue
			}
			k := lang + "\x00" + table.KeyString(year)
			p, seen := byKey[k]
			if !seen {
				p = &pair{lang: lang, year: year}
				byKey[k] = p
				order = append(order, p)
			}
			p.n++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].lang < order[j].lang
	})

	r := Result{
		Name:    "language_year_counts",
		Columns: []string{dataset.ColLanguage, dataset.ColYear, "count"},
	}
	for _, p := range order {
		r.Rows = append(r.Rows, []any{p.lang, p.year, p.n})
	}
	return []Result{r}, nil
}

// runOTTMetrics counts records per OTT platform and per (language, OTT
// platform) pair, descending by count. A dataset without the OTT column
// yields empty results rather than an error.
func runOTTMetrics(ds *dataset.Dataset, _ Params) ([]Result, error) {
	byOTT := Result{Name: "by_ott", Columns: []string{dataset.ColOTT, "count"}}
	byLangOTT := Result{Name: "by_language_ott", Columns: []string{dataset.ColLanguage, dataset.ColOTT, "count"}}

	ottIx := ds.ColumnIndex(dataset.ColOTT)
	langIx := ds.ColumnIndex(dataset.ColLanguage)
	if ottIx < 0 {
		return []Result{byOTT, byLangOTT}, nil
	}

	g := newGrouper()
	type pair struct {
		lang, ott string
		n         int64
	}
	pairOrder := make([]*pair, 0)
	pairs := make(map[string]*pair)
	for _, row := range ds.Rows {
		ott, ok := table.Text(row[ottIx])
		if !ok {
			continue
		}
		if b := g.at(ott); b != nil {
			b.count++
		}
		if langIx < 0 {
			continue
		}
		lang, ok := table.Text(row[langIx])
		if !ok {
			continue
		}
		k := lang + "\x00" + ott
		p, seen := pairs[k]
		if !seen {
			p = &pair{lang: lang, ott: ott}
			pairs[k] = p
			pairOrder = append(pairOrder, p)
		}
		p.n++
	}

	sortDescByCount(g.order)
	for _, b := range g.order {
		byOTT.Rows = append(byOTT.Rows, []any{b.keyCell, b.count})
	}

	sort.SliceStable(pairOrder, func(i, j int) bool {
		if pairOrder[i].n != pairOrder[j].n {
			return pairOrder[i].n > pairOrder[j].n
		}
		if pairOrder[i].lang != pairOrder[j].lang {
			return pairOrder[i].lang < pairOrder[j].lang
		}
		return pairOrder[i].ott < pairOrder[j].ott
	})
	for _, p := range pairOrder {
		byLangOTT.Rows = append(byLangOTT.Rows, []any{p.lang, p.ott, p.n})
	}

	return []Result{byOTT, byLangOTT}, nil
}

func valueAt(row []any, ix int) (float64, bool) {
	if ix < 0 || ix >= len(row) {
		return 0, false
	}
	return table.Float(row[ix])
}

func head(groups []*group, n int) []*group {
	if n < len(groups) {
		return groups[:n]
	}
	return groups
}

func sumResult(name, keyCol, sumCol string, groups []*group) Result {
	r := Result{Name: name, Columns: []string{keyCol, sumCol}}
	for _, b := range groups {
		r.Rows = append(r.Rows, []any{b.keyCell, b.sum})
	}
	return r
}

func countResult(name, keyCol, countCol string, groups []*group) Result {
	r := Result{Name: name, Columns: []string{keyCol, countCol}}
	for _, b := range groups {
		r.Rows = append(r.Rows, []any{b.keyCell, b.count})
	}
	return r
}
