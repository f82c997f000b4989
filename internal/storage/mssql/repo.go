// Package mssql implements the storage.Repository export backend on
// SQL Server via the microsoft/go-mssqldb database/sql driver. SQL Server
// has no CREATE TABLE IF NOT EXISTS, so table creation is guarded with an
// OBJECT_ID check; placeholders use the @pN form the driver expects.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"boxoffice/internal/storage"
)

type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("mssql", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) EnsureTable(ctx context.Context, table string, columns []string) error {
	if err := storage.CheckIdents(table, columns); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (", table, table)
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c)
		b.WriteString(" NVARCHAR(MAX)")
	}
	b.WriteString(")")

	if _, err := r.db.ExecContext(ctx, b.String()); err != nil {
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
			fmt.Fprintf(&b, "@p%d", n)
			args = append(args, sql.Named(fmt.Sprintf("p%d", n), cell))
			n++
		}
		b.WriteString(")")
	}

	if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}
