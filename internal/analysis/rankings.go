package analysis

import (
	"fmt"
	"sort"
	"strings"

	"boxoffice/internal/dataset"
	"boxoffice/internal/table"
)

// runTotals counts records and sums the five collection columns. Nulls count
// as 0 in every sum; the film count is the number of records with a title.
func runTotals(ds *dataset.Dataset, _ Params) ([]Result, error) {
	var films int64
	titleIx := ds.ColumnIndex(dataset.ColTitle)
	for _, row := range ds.Rows {
		if titleIx >= 0 && row[titleIx] != nil {
			films++
		}
	}

	r := Result{
		Name: "totals",
		Columns: []string{
			"total_films",
			"total_budget_crores",
			"total_worldwide_crores",
			"total_firstday_crores",
			"total_overseas_crores",
			"total_india_crores",
		},
		Rows: [][]any{{
			films,
			sumColumn(ds, dataset.ColBudget),
			sumColumn(ds, dataset.ColWorldwide),
			sumColumn(ds, dataset.ColFirstDay),
			sumColumn(ds, dataset.ColOverseas),
			sumColumn(ds, dataset.ColIndia),
		}},
	}
	return []Result{r}, nil
}

// runTopFilms ranks films by one collection metric, descending. Records with
// a null metric are excluded; ties keep original row order.
func runTopFilms(ds *dataset.Dataset, p Params) ([]Result, error) {
	col, err := metricColumn(p.Metric)
	if err != nil {
		return nil, err
	}
	r := topByMetric(ds, ds.Rows, col, p.limit())
	r.Name = topFilmsName(p.Metric)
	return []Result{r}, nil
}

func topFilmsName(metric string) string {
	switch strings.ToLower(metric) {
	case "india":
		return "top_india"
	case "overseas":
		return "top_overseas"
	case "firstday":
		return "top_firstday"
	default:
		return "top_worldwide"
	}
}

// topByMetric builds a title/metric ranking over an explicit row subset.
// Shared by top-films and industry-top.
func topByMetric(ds *dataset.Dataset, rows [][]any, metricCol string, n int) Result {
	titleIx := ds.ColumnIndex(dataset.ColTitle)
	metricIx := ds.ColumnIndex(metricCol)

	type ranked struct {
		title any
		value float64
	}
	var in []ranked
	for _, row := range rows {
		if metricIx < 0 || metricIx >= len(row) {
			continue
		}
		v, ok := table.Float(row[metricIx])
		if !ok {
			continue
		}
		var title any
		if titleIx >= 0 && titleIx < len(row) {
			title = row[titleIx]
		}
		in = append(in, ranked{title: title, value: v})
	}

	sort.SliceStable(in, func(i, j int) bool { return in[i].value > in[j].value })
	if n < len(in) {
		in = in[:n]
	}

	out := Result{Columns: []string{dataset.ColTitle, metricCol}}
	for _, r := range in {
		out.Rows = append(out.Rows, []any{r.title, r.value})
	}
	return out
}

// runIndustryTop filters to one industry (case-insensitive) and ranks the
// remaining films by the metric. An absent industry column yields an empty
// result rather than an error.
func runIndustryTop(ds *dataset.Dataset, p Params) ([]Result, error) {
	col, err := metricColumn(p.Metric)
	if err != nil {
		return nil, err
	}
	industry := p.Industry
	if industry == "" {
		industry = "Bollywood"
	}

	var rows [][]any
	if ix := ds.ColumnIndex(dataset.ColIndustry); ix >= 0 {
		want := strings.ToLower(industry)
		for _, row := range ds.Rows {
			if s, ok := table.Text(row[ix]); ok && strings.ToLower(s) == want {
				rows = append(rows, row)
			}
		}
	}

	r := topByMetric(ds, rows, col, p.limit())
	metric := p.Metric
	if metric == "" {
		metric = "worldwide"
	}
	r.Name = fmt.Sprintf("%s_top_%s", strings.ToLower(industry), strings.ToLower(metric))
	return []Result{r}, nil
}

// runRuntime reports the five longest and five shortest films by runtime.
// Null runtimes are excluded from both tables; the single maximum and
// minimum are the first rows of each.
func runRuntime(ds *dataset.Dataset, _ Params) ([]Result, error) {
	titleIx := ds.ColumnIndex(dataset.ColTitle)
	runtimeIx := ds.ColumnIndex(dataset.ColRuntime)

	type film struct {
		title any
		mins  float64
	}
	var in []film
	if runtimeIx >= 0 {
		for _, row := range ds.Rows {
			v, ok := table.Float(row[runtimeIx])
			if !ok {
				continue
			}
			var title any
			if titleIx >= 0 {
				title = row[titleIx]
			}
			in = append(in, film{title: title, mins: v})
		}
	}

	build := func(name string, films []film) Result {
		r := Result{Name: name, Columns: []string{dataset.ColTitle, dataset.ColRuntime}}
		for i, f := range films {
			if i == 5 {
				break
			}
			r.Rows = append(r.Rows, []any{f.title, f.mins})
		}
		return r
	}

	longest := append([]film(nil), in...)
	sort.SliceStable(longest, func(i, j int) bool { return longest[i].mins > longest[j].mins })
	shortest := append([]film(nil), in...)
	sort.SliceStable(shortest, func(i, j int) bool { return shortest[i].mins < shortest[j].mins })

	return []Result{
		build("runtime_longest", longest),
		build("runtime_shortest", shortest),
	}, nil
}

// runNotOverseas lists films whose overseas collection is zero or null, in
// original dataset order. This analysis deliberately includes null keys.
func runNotOverseas(ds *dataset.Dataset, _ Params) ([]Result, error) {
	titleIx := ds.ColumnIndex(dataset.ColTitle)
	ovIx := ds.ColumnIndex(dataset.ColOverseas)

	r := Result{Name: "not_overseas", Columns: []string{dataset.ColTitle}}
	for _, row := range ds.Rows {
		var overseas float64
		if ovIx >= 0 {
			if v, ok := table.Float(row[ovIx]); ok {
				overseas = v
			}
		}
		if overseas != 0 {
			continue
		}
		var title any
		if titleIx >= 0 {
			title = row[titleIx]
		}
		r.Rows = append(r.Rows, []any{title})
	}
	return []Result{r}, nil
}

// sumColumn sums a numeric column with nulls treated as 0. An absent column
// sums to 0.
func sumColumn(ds *dataset.Dataset, col string) float64 {
	ix := ds.ColumnIndex(col)
	if ix < 0 {
		return 0
	}
	var sum float64
	for _, row := range ds.Rows {
		if v, ok := table.Float(row[ix]); ok {
			sum += v
		}
	}
	return sum
}
