// Package analysis implements the fixed menu of aggregate analyses over the
// unified film dataset. Every analysis is a pure function from the dataset
// and its parameters to one or more result tables; nothing here mutates the
// dataset, so analyses are safe to run in any order.
//
// Null handling follows one rule set throughout: sums treat null as 0,
// rankings and min/max exclude null, and grouping drops records with a null
// group key. The one deliberate exception is not-overseas, whose purpose is
// to surface the null/zero records.
package analysis

import (
	"fmt"
	"strings"

	"boxoffice/internal/dataset"
)

// Result is one analysis output table. Columns and row order are stable so
// downstream export is deterministic.
type Result struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Params carries the analysis parameters of the CLI. Zero values select the
// documented defaults.
type Params struct {
	Metric   string // top-films, industry-top: worldwide|india|overseas|firstday
	N        int    // top-N analyses; <= 0 means 10
	By       string // counts-by: year|weekday
	Industry string // industry-top
}

func (p Params) limit() int {
	if p.N <= 0 {
		return 10
	}
	return p.N
}

// UnknownAnalysisError reports an analysis name outside the fixed menu.
type UnknownAnalysisError struct {
	Name string
}

func (e *UnknownAnalysisError) Error() string {
	return fmt.Sprintf("unknown analysis %q", e.Name)
}

// UnknownMetricError reports a ranking metric outside the supported set.
type UnknownMetricError struct {
	Metric string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unsupported metric %q (want worldwide|india|overseas|firstday)", e.Metric)
}

// metricColumn maps a metric parameter to its canonical dataset column.
func metricColumn(metric string) (string, error) {
	switch strings.ToLower(metric) {
	case "", "worldwide":
		return dataset.ColWorldwide, nil
	case "india":
		return dataset.ColIndia, nil
	case "overseas":
		return dataset.ColOverseas, nil
	case "firstday":
		return dataset.ColFirstDay, nil
	default:
		return "", &UnknownMetricError{Metric: metric}
	}
}

type analysisFunc func(*dataset.Dataset, Params) ([]Result, error)

// menu is the fixed analysis dispatch table. The CLI exposes exactly these
// names.
var menu = map[string]analysisFunc{
	"totals":           runTotals,
	"top-films":        runTopFilms,
	"counts-by":        runCountsBy,
	"language-metrics": runLanguageMetrics,
	"director-metrics": runDirectorMetrics,
	"actor-metrics":    runActorMetrics,
	"runtime":          runRuntime,
	"industry-top":     runIndustryTop,
	"not-overseas":     runNotOverseas,
	"language-year":    runLanguageYear,
	"ott-metrics":      runOTTMetrics,
}

// Run dispatches one analysis by name.
//
// Errors:
//   - *UnknownAnalysisError for a name outside the menu.
//   - *UnknownMetricError for a bad ranking metric.
//   - *dataset.MissingColumnError from actor-metrics when the dataset has no
//     lead actor column.
func Run(ds *dataset.Dataset, name string, p Params) ([]Result, error) {
	fn, ok := menu[strings.ToLower(name)]
	if !ok {
		return nil, &UnknownAnalysisError{Name: name}
	}
	return fn(ds, p)
}

// Names returns the analysis menu in no particular order, for usage output.
func Names() []string {
	out := make([]string, 0, len(menu))
	for n := range menu {
		out = append(out, n)
	}
	return out
}
