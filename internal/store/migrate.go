package store

import (
	"database/sql"
	"io/fs"
	"sort"
	"strings"

	"github.com/casual-mw/casual/errors"
)

// Migrate applies every *.sql file under dir in a migrations FS in
// lexical order, recording each in a schema_migrations table so re-runs
// are idempotent. Takes its embed.FS and directory as parameters so both
// the transaction log and the queue store can supply their own
// migration sets without duplicating the runner.
func Migrate(db *sql.DB, migrations fs.FS, dir string) error {
	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return errors.Wrapf(err, "store: read migrations dir %s", dir)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, filename := range files {
		version := strings.SplitN(filename, "_", 2)[0]

		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", version).Scan(&exists)
		if err != nil && version != "000" {
			return errors.Newf("store: schema_migrations missing but migration is not 000: %s", filename)
		}
		if exists {
			continue
		}

		sqlBytes, err := fs.ReadFile(migrations, dir+"/"+filename)
		if err != nil {
			return errors.Wrapf(err, "store: read %s", filename)
		}

		tx, err := db.Begin()
		if err != nil {
			return errors.Wrapf(err, "store: begin tx for %s", filename)
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "store: execute %s", filename)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "store: record %s", filename)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "store: commit %s", filename)
		}
	}
	return nil
}
