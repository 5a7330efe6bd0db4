// Package db - Embedded schema migrations.
package db

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"

	shoperrors "shopquote/internal/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate runs all pending embedded migrations
func Migrate(conn *sql.DB) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return shoperrors.Storage("set goose dialect", err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		return shoperrors.Storage("run migrations", err)
	}
	return nil
}
