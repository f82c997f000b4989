package analysis

import (
	"errors"
	"strings"
	"testing"

	"boxoffice/internal/config"
	"boxoffice/internal/dataset"
	"boxoffice/internal/parser/csv"
	"boxoffice/internal/table"
)

// testDataset builds a small unified dataset exercising nulls, duplicate
// group keys, multi-actor cells, and a missing-date row.
//
// Worldwide values are [100, nil, 50, 75]; the fact table has no overseas
// column, so overseas derives as worldwide - india (A=40, B=nil, C=0, D=50).
func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()

	factCSV := "Title,Release Date,DirectorID,GenreID,LanguageID,Industry,Lead Actor/Actress,Budget (in Crores),Worldwide Collection in Crores,India Gross Collection in Crores,First Day Collection Worldwide in Crores,Runtime (mins),OTT Platform\n" +
		"A,2015-08-14,D1,G1,L1,Tollywood,Prabhas,250,100,60,40,180,netflix\n" +
		"B,2016-12-23,D2,G2,L2,Bollywood,Aamir Khan,70,,,10,160,prime video\n" +
		"C,2015-01-01,,G1,L1,Tollywood,\"Prabhas, Rana Daggubati\",30,50,50,,,\n" +
		"D,N/A,D1,G2,L2,Bollywood,X & Y,50,75,25,5,140,netflix\n"

	load := func(in string, schema config.Schema) *table.Table {
		tbl, _, err := dataset.LoadCSV(strings.NewReader(in), csv.Options{}, schema)
		if err != nil {
			t.Fatalf("LoadCSV(%s): %v", schema.Name, err)
		}
		return tbl
	}

	fact := load(factCSV, config.FactSchema())
	director := load("Director_ID,Director\nD1,Rajamouli\nD2,Tiwari\n", config.DirectorSchema())
	genre := load("GenreID,Genere\nG1,Action\nG2,Drama\n", config.GenreSchema())
	language := load("LanguageID,Language\nL1,Telugu\nL2,Hindi\n", config.LanguageSchema())

	return dataset.Merge(fact, director, genre, language, dataset.DefaultJoinKeys())
}

func runOne(t *testing.T, ds *dataset.Dataset, name string, p Params) Result {
	t.Helper()
	rs, err := Run(ds, name, p)
	if err != nil {
		t.Fatalf("Run(%s): %v", name, err)
	}
	if len(rs) != 1 {
		t.Fatalf("Run(%s) results=%d want 1", name, len(rs))
	}
	return rs[0]
}

func cellFloat(t *testing.T, r Result, row int, col string) float64 {
	t.Helper()
	for ci, c := range r.Columns {
		if c == col {
			v, ok := table.Float(r.Rows[row][ci])
			if !ok {
				t.Fatalf("%s[%d].%s=%v not numeric", r.Name, row, col, r.Rows[row][ci])
			}
			return v
		}
	}
	t.Fatalf("%s has no column %q (have %v)", r.Name, col, r.Columns)
	return 0
}

func cellText(t *testing.T, r Result, row int, col string) string {
	t.Helper()
	for ci, c := range r.Columns {
		if c == col {
			return table.FormatCell(r.Rows[row][ci])
		}
	}
	t.Fatalf("%s has no column %q (have %v)", r.Name, col, r.Columns)
	return ""
}

func TestTotals_NullsCountAsZero(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	r := runOne(t, ds, "totals", Params{})
	if n := cellFloat(t, r, 0, "total_films"); n != 4 {
		t.Fatalf("total_films=%v want 4", n)
	}
	if s := cellFloat(t, r, 0, "total_worldwide_crores"); s != 225 {
		t.Fatalf("total_worldwide=%v want 225", s)
	}
	if s := cellFloat(t, r, 0, "total_budget_crores"); s != 400 {
		t.Fatalf("total_budget=%v want 400", s)
	}
	if s := cellFloat(t, r, 0, "total_overseas_crores"); s != 90 {
		t.Fatalf("total_overseas=%v want 90", s)
	}
	if s := cellFloat(t, r, 0, "total_india_crores"); s != 135 {
		t.Fatalf("total_india=%v want 135", s)
	}
}

func TestTopFilms_DescendingNullsExcluded(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	// The worked example: worldwide [100, nil, 50, 75], N=2 returns the 100
	// and 75 records in that order; the nil record never ranks.
	r := runOne(t, ds, "top-films", Params{Metric: "worldwide", N: 2})
	if len(r.Rows) != 2 {
		t.Fatalf("rows=%d want 2", len(r.Rows))
	}
	if cellText(t, r, 0, dataset.ColTitle) != "A" || cellText(t, r, 1, dataset.ColTitle) != "D" {
		t.Fatalf("order=%v", r.Rows)
	}

	// N beyond the dataset returns every non-null-metric record.
	r = runOne(t, ds, "top-films", Params{Metric: "worldwide", N: 100})
	if len(r.Rows) != 3 {
		t.Fatalf("rows=%d want 3 (null metric excluded)", len(r.Rows))
	}
	if r.Name != "top_worldwide" {
		t.Fatalf("name=%q", r.Name)
	}
}

func TestTopFilms_UnknownMetric(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	_, err := Run(ds, "top-films", Params{Metric: "domestic"})
	var ume *UnknownMetricError
	if !errors.As(err, &ume) {
		t.Fatalf("error=%v want *UnknownMetricError", err)
	}
}

func TestRun_UnknownAnalysis(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	_, err := Run(ds, "nope", Params{})
	var uae *UnknownAnalysisError
	if !errors.As(err, &uae) {
		t.Fatalf("error=%v want *UnknownAnalysisError", err)
	}
}

func TestCountsBy_YearAscending(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	r := runOne(t, ds, "counts-by", Params{By: "year"})
	// Row D has no parseable date, so only 2015 and 2016 group.
	if len(r.Rows) != 2 {
		t.Fatalf("rows=%d want 2", len(r.Rows))
	}
	if cellText(t, r, 0, dataset.ColYear) != "2015" || cellFloat(t, r, 0, "count") != 2 {
		t.Fatalf("row0=%v", r.Rows[0])
	}
	if cellText(t, r, 1, dataset.ColYear) != "2016" || cellFloat(t, r, 1, "count") != 1 {
		t.Fatalf("row1=%v", r.Rows[1])
	}
}

func TestCountsBy_WeekdayCalendarOrder(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	r := runOne(t, ds, "counts-by", Params{By: "weekday"})
	// 2015-01-01 is a Thursday; the two other dated rows are Fridays.
	if len(r.Rows) != 2 {
		t.Fatalf("rows=%d want 2", len(r.Rows))
	}
	if cellText(t, r, 0, dataset.ColWeekday) != "Thursday" || cellFloat(t, r, 0, "count") != 1 {
		t.Fatalf("row0=%v", r.Rows[0])
	}
	if cellText(t, r, 1, dataset.ColWeekday) != "Friday" || cellFloat(t, r, 1, "count") != 2 {
		t.Fatalf("row1=%v", r.Rows[1])
	}

	if _, err := Run(ds, "counts-by", Params{By: "month"}); err == nil {
		t.Fatal("expected error for unsupported grouping")
	}
}

func TestLanguageMetrics_PartitionsWorldwideTotal(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	rs, err := Run(ds, "language-metrics", Params{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rs) != 3 {
		t.Fatalf("results=%d want 3", len(rs))
	}

	var worldwide Result
	for _, r := range rs {
		if r.Name == "worldwide_by_language" {
			worldwide = r
		}
	}
	if worldwide.Name == "" {
		t.Fatalf("missing worldwide_by_language result")
	}

	// Descending by sum: Telugu 150 (A+C), Hindi 75 (D; B's null adds 0).
	if cellText(t, worldwide, 0, dataset.ColLanguage) != "Telugu" || cellFloat(t, worldwide, 0, dataset.ColWorldwide) != 150 {
		t.Fatalf("row0=%v", worldwide.Rows[0])
	}
	if cellText(t, worldwide, 1, dataset.ColLanguage) != "Hindi" || cellFloat(t, worldwide, 1, dataset.ColWorldwide) != 75 {
		t.Fatalf("row1=%v", worldwide.Rows[1])
	}

	// Per-language sums partition the totals sum when every record has a
	// language.
	var sum float64
	for i := range worldwide.Rows {
		sum += cellFloat(t, worldwide, i, dataset.ColWorldwide)
	}
	totals := runOne(t, ds, "totals", Params{})
	if sum != cellFloat(t, totals, 0, "total_worldwide_crores") {
		t.Fatalf("language sums %v do not partition totals", sum)
	}

	// directors_by_language counts only records with a known director.
	var directors Result
	for _, r := range rs {
		if r.Name == "directors_by_language" {
			directors = r
		}
	}
	if cellText(t, directors, 0, dataset.ColLanguage) != "Hindi" || cellFloat(t, directors, 0, "directors") != 2 {
		t.Fatalf("directors row0=%v", directors.Rows[0])
	}
	if cellText(t, directors, 1, dataset.ColLanguage) != "Telugu" || cellFloat(t, directors, 1, "directors") != 1 {
		t.Fatalf("directors row1=%v", directors.Rows[1])
	}
}

func TestDirectorMetrics(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	rs, err := Run(ds, "director-metrics", Params{N: 10})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("results=%d want 2", len(rs))
	}

	byWW := rs[0]
	if byWW.Name != "directors_top_worldwide" {
		t.Fatalf("name=%q", byWW.Name)
	}
	// Rajamouli directed A (100) and D (75); the row with a null director is
	// excluded from grouping entirely.
	if cellText(t, byWW, 0, dataset.ColDirector) != "Rajamouli" || cellFloat(t, byWW, 0, dataset.ColWorldwide) != 175 {
		t.Fatalf("row0=%v", byWW.Rows[0])
	}
	if len(byWW.Rows) != 2 {
		t.Fatalf("rows=%d want 2 (null director dropped)", len(byWW.Rows))
	}

	byFilms := rs[1]
	if byFilms.Name != "directors_top_films" {
		t.Fatalf("name=%q", byFilms.Name)
	}
	if cellText(t, byFilms, 0, dataset.ColDirector) != "Rajamouli" || cellFloat(t, byFilms, 0, "films") != 2 {
		t.Fatalf("films row0=%v", byFilms.Rows[0])
	}
}

func TestActorMetrics_FanOut(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	rs, err := Run(ds, "actor-metrics", Params{N: 10})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r := rs[0]

	// Prabhas appears solo on A (100) and delimited on C (50): 150 total.
	// "X & Y" fans out to two actors, each credited with D's 75.
	if cellText(t, r, 0, dataset.ColActor) != "Prabhas" || cellFloat(t, r, 0, dataset.ColWorldwide) != 150 {
		t.Fatalf("row0=%v", r.Rows[0])
	}
	if cellText(t, r, 1, dataset.ColActor) != "X" || cellFloat(t, r, 1, dataset.ColWorldwide) != 75 {
		t.Fatalf("row1=%v", r.Rows[1])
	}
	if cellText(t, r, 2, dataset.ColActor) != "Y" {
		t.Fatalf("row2=%v", r.Rows[2])
	}
	if len(r.Rows) != 5 {
		t.Fatalf("rows=%d want 5 (Prabhas, X, Y, Rana Daggubati, Aamir Khan)", len(r.Rows))
	}
}

func TestActorMetrics_MissingColumn(t *testing.T) {
	t.Parallel()

	fact, _, err := dataset.LoadCSV(strings.NewReader("Title\nA\n"), csv.Options{}, config.FactSchema())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	ds := dataset.Merge(fact, nil, nil, nil, dataset.DefaultJoinKeys())

	_, err = Run(ds, "actor-metrics", Params{})
	var mce *dataset.MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("error=%v want *dataset.MissingColumnError", err)
	}
}

func TestRuntime_ExtremesExcludeNulls(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	rs, err := Run(ds, "runtime", Params{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	longest, shortest := rs[0], rs[1]

	// C has no runtime and appears in neither table.
	if len(longest.Rows) != 3 || len(shortest.Rows) != 3 {
		t.Fatalf("rows=%d/%d want 3/3", len(longest.Rows), len(shortest.Rows))
	}
	if cellText(t, longest, 0, dataset.ColTitle) != "A" || cellFloat(t, longest, 0, dataset.ColRuntime) != 180 {
		t.Fatalf("longest[0]=%v", longest.Rows[0])
	}
	if cellText(t, shortest, 0, dataset.ColTitle) != "D" || cellFloat(t, shortest, 0, dataset.ColRuntime) != 140 {
		t.Fatalf("shortest[0]=%v", shortest.Rows[0])
	}
}

func TestIndustryTop_CaseInsensitive(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	r := runOne(t, ds, "industry-top", Params{Industry: "bollywood", Metric: "worldwide", N: 5})
	// B's worldwide is null, so only D ranks.
	if len(r.Rows) != 1 {
		t.Fatalf("rows=%d want 1", len(r.Rows))
	}
	if cellText(t, r, 0, dataset.ColTitle) != "D" {
		t.Fatalf("row0=%v", r.Rows[0])
	}
	if r.Name != "bollywood_top_worldwide" {
		t.Fatalf("name=%q", r.Name)
	}
}

func TestNotOverseas_PartitionAndOrder(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	r := runOne(t, ds, "not-overseas", Params{})
	// B (null overseas) and C (derived overseas 0), in original order.
	if len(r.Rows) != 2 {
		t.Fatalf("rows=%d want 2", len(r.Rows))
	}
	if cellText(t, r, 0, dataset.ColTitle) != "B" || cellText(t, r, 1, dataset.ColTitle) != "C" {
		t.Fatalf("rows=%v", r.Rows)
	}

	// Partition: not-overseas plus strictly-positive-overseas covers the
	// dataset exactly once.
	var positive int
	ovIx := ds.ColumnIndex(dataset.ColOverseas)
	for _, row := range ds.Rows {
		if v, ok := table.Float(row[ovIx]); ok && v > 0 {
			positive++
		}
	}
	if positive+len(r.Rows) != ds.NumRows() {
		t.Fatalf("partition broken: %d + %d != %d", positive, len(r.Rows), ds.NumRows())
	}
}

func TestLanguageYear_AscendingYearThenLanguage(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	r := runOne(t, ds, "language-year", Params{})
	// D's year is null, so its (Hindi, nil) pair is excluded.
	if len(r.Rows) != 2 {
		t.Fatalf("rows=%d want 2", len(r.Rows))
	}
	if cellText(t, r, 0, dataset.ColLanguage) != "Telugu" || cellText(t, r, 0, dataset.ColYear) != "2015" || cellFloat(t, r, 0, "count") != 2 {
		t.Fatalf("row0=%v", r.Rows[0])
	}
	if cellText(t, r, 1, dataset.ColLanguage) != "Hindi" || cellText(t, r, 1, dataset.ColYear) != "2016" {
		t.Fatalf("row1=%v", r.Rows[1])
	}
}

func TestOTTMetrics(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	rs, err := Run(ds, "ott-metrics", Params{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	byOTT, byLangOTT := rs[0], rs[1]

	// Netflix twice (A, D), Prime video once; C has no platform.
	if cellText(t, byOTT, 0, dataset.ColOTT) != "Netflix" || cellFloat(t, byOTT, 0, "count") != 2 {
		t.Fatalf("by_ott row0=%v", byOTT.Rows[0])
	}
	if cellText(t, byOTT, 1, dataset.ColOTT) != "Prime video" || cellFloat(t, byOTT, 1, "count") != 1 {
		t.Fatalf("by_ott row1=%v", byOTT.Rows[1])
	}

	// All pairs count 1; ties order ascending by language then platform.
	if len(byLangOTT.Rows) != 3 {
		t.Fatalf("by_language_ott rows=%d want 3", len(byLangOTT.Rows))
	}
	if cellText(t, byLangOTT, 0, dataset.ColLanguage) != "Hindi" || cellText(t, byLangOTT, 0, dataset.ColOTT) != "Netflix" {
		t.Fatalf("by_language_ott row0=%v", byLangOTT.Rows[0])
	}
	if cellText(t, byLangOTT, 2, dataset.ColLanguage) != "Telugu" {
		t.Fatalf("by_language_ott row2=%v", byLangOTT.Rows[2])
	}
}

func TestOTTMetrics_NoColumn(t *testing.T) {
	t.Parallel()

	fact, _, err := dataset.LoadCSV(strings.NewReader("Title\nA\n"), csv.Options{}, config.FactSchema())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	ds := dataset.Merge(fact, nil, nil, nil, dataset.DefaultJoinKeys())

	rs, err := Run(ds, "ott-metrics", Params{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rs[0].Rows) != 0 || len(rs[1].Rows) != 0 {
		t.Fatalf("expected empty results without an ott_platform column")
	}
}
