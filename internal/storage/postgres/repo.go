// Package postgres implements the storage.Repository export backend on
// jackc/pgx (pool mode). Columns are created as TEXT; placeholders are
// numbered per the Postgres wire protocol.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"boxoffice/internal/storage"
)

type Repo struct {
	pool *pgxpool.Pool
}

func init() {
	storage.Register("postgres", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Repo{pool: pool}, nil
}

func (r *Repo) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repo) EnsureTable(ctx context.Context, table string, columns []string) error {
	if err := storage.CheckIdents(table, columns); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(table)
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c)
		b.WriteString(" TEXT")
	}
	b.WriteString(")")

	if _, err := r.pool.Exec(ctx, b.String()); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

func (r *Repo) InsertRows(ctx context.Context, table string, columns []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	if err := storage.CheckIdents(table, columns); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	n := 1
	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("insert %s: row %d has %d cells, want %d", table, i, len(row), len(columns))
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j, cell := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
			args = append(args, cell)
		}
		b.WriteString(")")
	}

	if _, err := r.pool.Exec(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}
