// Package store provides the shared SQLite connection conventions used
// by the transaction log and the durable queue stores: WAL journaling,
// a busy timeout, and foreign keys on. Both stores are pure relational,
// append/dequeue workloads with no vector-similarity use, so no
// extension loading is needed here.
package store

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/casual-mw/casual/errors"
)

const journalMode = "WAL"

// Open opens a SQLite database at path with the store's standard
// pragmas, creating parent directories as needed.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "store: create directory %s", dir)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "store: open %s", path)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = " + journalMode,
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "store: apply %q to %s", pragma, path)
		}
	}

	return db, nil
}
