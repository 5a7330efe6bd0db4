// Package db provides the SQLite-backed capacity day store.
package db

import (
	"database/sql"

	_ "modernc.org/sqlite"

	shoperrors "shopquote/internal/errors"
)

// Open opens a SQLite database and validates connectivity.
// Pragmas ride on the DSN so every pooled connection gets them, not
// just the first one opened.
func Open(dbPath string) (*sql.DB, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, shoperrors.Storage("open sqlite database", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, shoperrors.Storage("ping sqlite database", err)
	}

	return conn, nil
}
