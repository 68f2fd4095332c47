package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// MigrateUp brings the schema up to date. Safe to run on every start:
// the migrations are written IF NOT EXISTS.
func MigrateUp(db *sql.DB) error {
	return runMigrations(db, ".up.sql")
}

// MigrateDown tears the schema back down, dropping users and tasks.
func MigrateDown(db *sql.DB) error {
	return runMigrations(db, ".down.sql")
}

// runMigrations applies every embedded file with the given suffix in
// name order, one transaction per file so a failing migration leaves
// the earlier ones committed and the broken one rolled back.
func runMigrations(db *sql.DB, suffix string) error {
	names, err := fs.Glob(schemaFS, "migrations/*"+suffix)
	if err != nil {
		return fmt.Errorf("storage: list migrations: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		stmts, err := schemaFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("storage: read migration %s: %w", name, err)
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("storage: begin migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(stmts)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("storage: apply migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("storage: commit migration %s: %w", name, err)
		}
	}
	return nil
}
