// Package report runs the default analysis set and writes the consolidated
// report directory: one .csv and one .md per table, plus a stitched
// REPORT.md fronting the Markdown sections in a fixed order.
package report

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"boxoffice/internal/analysis"
	"boxoffice/internal/dataset"
	"boxoffice/internal/export"
)

// section pairs a report file basename with the result written under it.
// File names are part of the report contract and sometimes differ from the
// analysis result names.
type section struct {
	file   string
	result analysis.Result
}

// Build runs the default analyses against the dataset, exports each result
// as <name>.csv and <name>.md under outdir, and stitches REPORT.md from the
// Markdown sections.
//
// Edge cases:
//   - actor-metrics is skipped with a log line when the dataset has no lead
//     actor column; every other analysis error aborts the build.
func Build(ds *dataset.Dataset, outdir string) error {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}

	sections, err := collect(ds)
	if err != nil {
		return err
	}

	for _, s := range sections {
		if err := writeSection(outdir, s); err != nil {
			return err
		}
	}
	return stitch(outdir, sections)
}

func collect(ds *dataset.Dataset) ([]section, error) {
	var sections []section

	add := func(file string, name string, p analysis.Params) error {
		results, err := analysis.Run(ds, name, p)
		if err != nil {
			return fmt.Errorf("report: %s: %w", name, err)
		}
		// Single-result analyses map directly onto the file name.
		sections = append(sections, section{file: file, result: results[0]})
		return nil
	}

	if err := add("totals", "totals", analysis.Params{}); err != nil {
		return nil, err
	}
	for _, metric := range []string{"worldwide", "india", "overseas", "firstday"} {
		if err := add("top_"+metric, "top-films", analysis.Params{Metric: metric, N: 10}); err != nil {
			return nil, err
		}
	}
	if err := add("year_counts", "counts-by", analysis.Params{By: "year"}); err != nil {
		return nil, err
	}

	lm, err := analysis.Run(ds, "language-metrics", analysis.Params{})
	if err != nil {
		return nil, fmt.Errorf("report: language-metrics: %w", err)
	}
	for _, r := range lm {
		switch r.Name {
		case "budget_by_language":
			sections = append(sections, section{file: "language_budget", result: r})
		case "worldwide_by_language":
			sections = append(sections, section{file: "language_worldwide", result: r})
		}
	}

	dm, err := analysis.Run(ds, "director-metrics", analysis.Params{N: 10})
	if err != nil {
		return nil, fmt.Errorf("report: director-metrics: %w", err)
	}
	for _, r := range dm {
		sections = append(sections, section{file: r.Name, result: r})
	}

	am, err := analysis.Run(ds, "actor-metrics", analysis.Params{N: 10})
	switch {
	case err == nil:
		sections = append(sections, section{file: "actors_top_worldwide", result: am[0]})
	case isMissingColumn(err):
		log.Printf("stage=report analysis=actor-metrics skipped=%v", err)
	default:
		return nil, fmt.Errorf("report: actor-metrics: %w", err)
	}

	rt, err := analysis.Run(ds, "runtime", analysis.Params{})
	if err != nil {
		return nil, fmt.Errorf("report: runtime: %w", err)
	}
	for _, r := range rt {
		sections = append(sections, section{file: r.Name, result: r})
	}

	return sections, nil
}

func isMissingColumn(err error) bool {
	var mce *dataset.MissingColumnError
	return errors.As(err, &mce)
}

func writeSection(outdir string, s section) error {
	csvPath := filepath.Join(outdir, s.file+".csv")
	cf, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := export.WriteCSV(cf, s.result); err != nil {
		_ = cf.Close()
		return fmt.Errorf("report: write %s: %w", csvPath, err)
	}
	if err := cf.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", csvPath, err)
	}

	mdPath := filepath.Join(outdir, s.file+".md")
	mf, err := os.Create(mdPath)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := export.WriteMarkdown(mf, s.result); err != nil {
		_ = mf.Close()
		return fmt.Errorf("report: write %s: %w", mdPath, err)
	}
	if err := mf.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", mdPath, err)
	}
	return nil
}

func stitch(outdir string, sections []section) error {
	var b strings.Builder
	b.WriteString("# Movie Box Office Analytics - Report\n")

	for _, s := range sections {
		md, err := os.ReadFile(filepath.Join(outdir, s.file+".md"))
		if err != nil {
			return fmt.Errorf("report: stitch: %w", err)
		}
		b.WriteString("\n\n## ")
		b.WriteString(sectionTitle(s.file))
		b.WriteString("\n\n")
		b.Write(md)
	}

	path := filepath.Join(outdir, "REPORT.md")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

// sectionTitle renders a file basename as a heading: underscores become
// spaces and each word is capitalized.
func sectionTitle(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
