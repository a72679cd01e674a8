package store

import (
	"database/sql"

	"github.com/rotisserie/eris"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return eris.Wrap(err, "store: begin migration")
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return eris.Wrap(err, "store: read user_version")
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS result_sets (
  id TEXT PRIMARY KEY,
  date_key TEXT NOT NULL,
  source TEXT NOT NULL,
  query_label TEXT NOT NULL,
  candidate_count INTEGER NOT NULL DEFAULT 0,
  candidates TEXT NOT NULL DEFAULT '[]',
  created_at TEXT NOT NULL
);
`); err != nil {
		return eris.Wrap(err, "store: create result_sets")
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_result_sets_key
ON result_sets(date_key, source, query_label);
`); err != nil {
		return eris.Wrap(err, "store: create result_sets key")
	}
	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS ix_result_sets_created
ON result_sets(created_at);
`); err != nil {
		return eris.Wrap(err, "store: create result_sets created index")
	}

	// Mark schema v1
	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return eris.Wrap(err, "store: set user_version")
	}

	return tx.Commit()
}
