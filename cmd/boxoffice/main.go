// Command boxoffice runs box-office analyses over the four-table film
// export. Usage:
//
//	boxoffice [flags] [command]
//
// Commands: totals | top-films | counts-by | language-metrics |
// director-metrics | actor-metrics | runtime | industry-top | not-overseas |
// language-year | ott-metrics | report (default).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"boxoffice/internal/analysis"
	"boxoffice/internal/config"
	"boxoffice/internal/dataset"
	"boxoffice/internal/export"
	"boxoffice/internal/metrics"
	"boxoffice/internal/metrics/datadog"
	"boxoffice/internal/metrics/prompush"
	"boxoffice/internal/parser/csv"
	"boxoffice/internal/parser/htmltable"
	"boxoffice/internal/report"
	"boxoffice/internal/storage"
	"boxoffice/internal/table"

	// register all storage backends; -db-kind selects one at runtime.
	_ "boxoffice/internal/storage/all"
)

func main() {
	opts := config.Defaults()

	flag.StringVar(&opts.InputDir, "input-dir", opts.InputDir, "directory holding the input tables")
	flag.StringVar(&opts.FactFile, "fact", opts.FactFile, "fact table file name")
	flag.StringVar(&opts.DirectorFile, "director", opts.DirectorFile, "director dimension file name")
	flag.StringVar(&opts.GenreFile, "genre", opts.GenreFile, "genre dimension file name")
	flag.StringVar(&opts.LanguageFile, "language", opts.LanguageFile, "language dimension file name")
	flag.StringVar(&opts.HTMLSelector, "html-selector", "", "CSS selector for the table element in HTML inputs (default: first table)")
	flag.StringVar(&opts.DateLayout, "date-layout", "", "release date layout in Go reference time form (default 2006-01-02)")

	flag.StringVar(&opts.Metric, "metric", opts.Metric, "metric for top-films/industry-top: worldwide|india|overseas|firstday")
	flag.IntVar(&opts.N, "n", opts.N, "top N rows")
	flag.StringVar(&opts.By, "by", opts.By, "counts-by grouping: year|weekday")
	flag.StringVar(&opts.Industry, "industry", opts.Industry, "industry filter for industry-top")

	flag.BoolVar(&opts.Export, "export", false, "export results as .csv and .md under -output-dir")
	flag.StringVar(&opts.OutputDir, "output-dir", opts.OutputDir, "export directory")
	flag.StringVar(&opts.DBKind, "db-kind", "", "export results to a database: sqlite|postgres|mssql")
	flag.StringVar(&opts.DBDSN, "db-dsn", "", "database DSN for -db-kind")

	flag.StringVar(&opts.MetricsBackend, "metrics-backend", opts.MetricsBackend, "metrics backend: pushgateway|datadog|none")
	flag.StringVar(&opts.PushgatewayURL, "pushgateway-url", opts.PushgatewayURL, "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&opts.Verbose, "v", false, "enable verbose logs")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: boxoffice [flags] [command]\n\n")
		names := analysis.Names()
		sort.Strings(names)
		fmt.Fprintf(flag.CommandLine.Output(), "commands: report (default), %s\n\nflags:\n", strings.Join(names, ", "))
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd := strings.ToLower(flag.Arg(0))
	if cmd == "" {
		cmd = "report"
	}

	shutdownMetrics := setupMetrics(opts)
	defer shutdownMetrics()

	ds, err := loadDataset(opts)
	if err != nil {
		var mce *dataset.MissingColumnError
		if errors.As(err, &mce) {
			fatalf("input table %s is unusable: column %q is missing after header normalization", mce.Table, mce.Column)
		}
		fatalf("%v", err)
	}

	ctx := context.Background()
	start := time.Now()

	if cmd == "report" {
		if err := report.Build(ds, opts.OutputDir); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Report generated under: %s\n", opts.OutputDir)
	} else {
		if err := runAnalysis(ctx, ds, cmd, opts); err != nil {
			fatalf("%v", err)
		}
	}

	if opts.Verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// setupMetrics installs the selected metrics backend and returns the
// shutdown func flushing it. Backend selection: flag, then env, then nop.
func setupMetrics(opts config.Options) func() {
	backendName := opts.MetricsBackend
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}

	switch backendName {
	case "pushgateway":
		gwURL := opts.PushgatewayURL
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		b, err := prompush.NewBackend("boxoffice", gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return func() {}
		}
		if opts.Verbose {
			log.Printf("metrics: backend=%s url=%s", backendName, gwURL)
		}
		metrics.SetBackend(b)
		return func() {
			if err := metrics.Flush(); err != nil {
				log.Printf("metrics: flush error: %v", err)
			}
		}

	case "datadog":
		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName: "boxoffice",
			Tags:    datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS")),
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return func() {}
		}
		if opts.Verbose {
			log.Printf("metrics: backend=%s", backendName)
		}
		metrics.SetBackend(b)
		// Close stops the periodic flush loop and performs the final flush.
		return func() {
			if err := b.Close(); err != nil {
				log.Printf("metrics: datadog close/flush error: %v", err)
			}
		}

	case "", "none":
		return func() {}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
		return func() {}
	}
}

// loadDataset loads the four tables and merges them into the unified
// dataset.
func loadDataset(opts config.Options) (*dataset.Dataset, error) {
	factSchema, directorSchema, genreSchema, languageSchema := opts.Schemas()

	start := time.Now()
	tables := make([]*table.Table, 4)
	inputs := []struct {
		file   string
		schema config.Schema
	}{
		{opts.FactFile, factSchema},
		{opts.DirectorFile, directorSchema},
		{opts.GenreFile, genreSchema},
		{opts.LanguageFile, languageSchema},
	}
	for i, in := range inputs {
		tbl, err := loadTable(opts, in.file, in.schema)
		if err != nil {
			metrics.RecordStep("boxoffice", "load", err, time.Since(start))
			return nil, err
		}
		tables[i] = tbl
	}
	metrics.RecordStep("boxoffice", "load", nil, time.Since(start))

	mergeStart := time.Now()
	ds := dataset.Merge(tables[0], tables[1], tables[2], tables[3], dataset.DefaultJoinKeys())
	metrics.RecordStep("boxoffice", "merge", nil, time.Since(mergeStart))
	if opts.Verbose {
		log.Printf("stage=merge rows=%d columns=%d", ds.NumRows(), len(ds.Columns))
	}
	return ds, nil
}

// loadTable reads one input file, choosing the parser by file extension.
func loadTable(opts config.Options, name string, schema config.Schema) (*table.Table, error) {
	path := filepath.Join(opts.InputDir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s table: %w", schema.Name, err)
	}
	defer f.Close()

	var raw table.Raw
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		raw, err = htmltable.Parse(f, htmltable.Options{Selector: opts.HTMLSelector})
	default:
		raw, err = csv.Read(f, csv.Options{})
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	tbl, stats, err := dataset.Load(raw, schema)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		log.Printf("stage=load table=%s rows=%d coerce_nulls=%d", schema.Name, stats.Rows, stats.TotalCoerceNulls())
	}
	return tbl, nil
}

// runAnalysis executes one named analysis and writes its results to stdout
// and the configured export targets.
func runAnalysis(ctx context.Context, ds *dataset.Dataset, cmd string, opts config.Options) error {
	start := time.Now()
	results, err := analysis.Run(ds, cmd, analysis.Params{
		Metric:   opts.Metric,
		N:        opts.N,
		By:       opts.By,
		Industry: opts.Industry,
	})
	metrics.RecordStep("boxoffice", "analyze", err, time.Since(start))
	if err != nil {
		return err
	}

	for _, r := range results {
		if len(results) > 1 {
			fmt.Printf("\n## %s\n\n", r.Name)
		}
		if len(r.Rows) == 0 {
			fmt.Println("(no rows)")
			continue
		}
		if err := export.WriteMarkdown(os.Stdout, r); err != nil {
			return err
		}
	}

	if opts.Export {
		if err := exportResults(opts.OutputDir, results); err != nil {
			return err
		}
	}
	if opts.DBKind != "" {
		if err := exportToDB(ctx, opts, results); err != nil {
			return err
		}
	}
	return nil
}

func exportResults(outdir string, results []analysis.Result) error {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, r := range results {
		csvPath := filepath.Join(outdir, r.Name+".csv")
		if err := writeFile(csvPath, func(f *os.File) error { return export.WriteCSV(f, r) }); err != nil {
			return err
		}
		mdPath := filepath.Join(outdir, r.Name+".md")
		if err := writeFile(mdPath, func(f *os.File) error { return export.WriteMarkdown(f, r) }); err != nil {
			return err
		}
		metrics.RecordRow("boxoffice", "exported", int64(len(r.Rows)))
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// exportToDB appends each result table to the configured database in one
// shot.
func exportToDB(ctx context.Context, opts config.Options, results []analysis.Result) error {
	start := time.Now()
	repo, err := storage.New(ctx, storage.Config{Kind: opts.DBKind, DSN: opts.DBDSN})
	if err != nil {
		metrics.RecordStep("boxoffice", "db_export", err, time.Since(start))
		return err
	}
	defer repo.Close()

	for _, r := range results {
		if err := repo.EnsureTable(ctx, r.Name, r.Columns); err != nil {
			metrics.RecordStep("boxoffice", "db_export", err, time.Since(start))
			return err
		}
		rows := make([][]string, len(r.Rows))
		for i, row := range r.Rows {
			rec := make([]string, len(r.Columns))
			for j := range r.Columns {
				rec[j] = table.FormatCell(row[j])
			}
			rows[i] = rec
		}
		if err := repo.InsertRows(ctx, r.Name, r.Columns, rows); err != nil {
			metrics.RecordStep("boxoffice", "db_export", err, time.Since(start))
			return err
		}
		if opts.Verbose {
			log.Printf("stage=db_export table=%s rows=%d", r.Name, len(rows))
		}
	}
	metrics.RecordStep("boxoffice", "db_export", nil, time.Since(start))
	return nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
