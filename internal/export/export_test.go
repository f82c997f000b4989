package export

import (
	"strings"
	"testing"

	"boxoffice/internal/analysis"
)

func sampleResult() analysis.Result {
	return analysis.Result{
		Name:    "top_worldwide",
		Columns: []string{"title", "worldwide_collection_in_crores"},
		Rows: [][]any{
			{"Baahubali 2", float64(1810.6)},
			{"Dangal", float64(2024)},
			{nil, nil},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := WriteCSV(&b, sampleResult()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "title,worldwide_collection_in_crores\n" +
		"Baahubali 2,1810.6\n" +
		"Dangal,2024\n" +
		",\n"
	if b.String() != want {
		t.Fatalf("csv output:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestWriteMarkdown(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := WriteMarkdown(&b, sampleResult()); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("lines=%d want 5:\n%s", len(lines), b.String())
	}
	if lines[0] != "| title | worldwide_collection_in_crores |" {
		t.Fatalf("header=%q", lines[0])
	}
	if lines[1] != "|---|---|" {
		t.Fatalf("separator=%q", lines[1])
	}
	if lines[2] != "| Baahubali 2 | 1810.6 |" {
		t.Fatalf("row=%q", lines[2])
	}
	// Null cells render empty.
	if lines[4] != "|  |  |" {
		t.Fatalf("null row=%q", lines[4])
	}
}

func TestWriteMarkdown_EscapesPipes(t *testing.T) {
	t.Parallel()

	r := analysis.Result{
		Name:    "x",
		Columns: []string{"title"},
		Rows:    [][]any{{"a|b"}},
	}
	var b strings.Builder
	if err := WriteMarkdown(&b, r); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	if !strings.Contains(b.String(), `a\|b`) {
		t.Fatalf("pipe not escaped:\n%s", b.String())
	}
}
