// Package migrations holds the versioned PostgreSQL schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

// FS returns the migration files.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}

// NewProvider returns a goose provider for db using the embedded migrations.
func NewProvider(db *sql.DB, dialect goose.Dialect) (*goose.Provider, error) {
	p, err := goose.NewProvider(dialect, db, FS())
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return p, nil
}

// Up applies every pending migration to a PostgreSQL database.
func Up(ctx context.Context, db *sql.DB) error {
	p, err := NewProvider(db, goose.DialectPostgres)
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "file", r.Source.Path, "duration", r.Duration)
	}
	if len(results) == 0 {
		slog.Info("schema up to date")
	}
	return nil
}
