// Package migrations embeds the goose SQL migrations for the drive schema.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

const dialect = "postgres"

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func setup() error {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}

	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// Status prints the applied/pending state of each migration through goose's logger.
func Status(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}

	return goose.StatusContext(ctx, db, ".")
}
