package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"boxoffice/internal/storage"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "export.db")
	repo, err := New(context.Background(), storage.Config{Kind: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo.(*Repo)
}

func TestEnsureTableAndInsertRows(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	cols := []string{"title", "worldwide_collection_in_crores"}
	if err := repo.EnsureTable(ctx, "top_worldwide", cols); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	// Idempotent.
	if err := repo.EnsureTable(ctx, "top_worldwide", cols); err != nil {
		t.Fatalf("EnsureTable (second call): %v", err)
	}

	rows := [][]string{
		{"Baahubali 2", "1810.6"},
		{"Dangal", "2024"},
	}
	if err := repo.InsertRows(ctx, "top_worldwide", cols, rows); err != nil {
		t.Fatalf("InsertRows: %v", err)
	}

	var n int
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM top_worldwide").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count=%d want 2", n)
	}

	var title string
	err := repo.db.QueryRowContext(ctx,
		"SELECT title FROM top_worldwide WHERE worldwide_collection_in_crores = ?", "2024").Scan(&title)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if title != "Dangal" {
		t.Fatalf("title=%q", title)
	}
}

func TestInsertRows_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	if err := repo.InsertRows(context.Background(), "missing_table", []string{"a"}, nil); err != nil {
		t.Fatalf("empty insert should not touch the database: %v", err)
	}
}

func TestIdentifierValidation(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.EnsureTable(ctx, "bad;table", []string{"a"}); err == nil {
		t.Fatal("expected error for invalid table name")
	}
	if err := repo.InsertRows(ctx, "t", []string{"a"}, [][]string{{"1", "2"}}); err == nil {
		t.Fatal("expected error for misaligned row width")
	}
}
