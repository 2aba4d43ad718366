package store

import (
	"database/sql"
)

const schemaVersion = 1

var schemaV1 = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source_id TEXT NOT NULL,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  location TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL,
  posting_date TEXT NOT NULL DEFAULT '',
  scraped_date TEXT NOT NULL,
  sponsors_h1b INTEGER NULL,
  confidence TEXT NOT NULL DEFAULT 'unknown',
  keywords TEXT NOT NULL DEFAULT '[]',
  h1b_applications TEXT NOT NULL DEFAULT '',
  avg_h1b_salary TEXT NOT NULL DEFAULT ''
);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_source_id ON jobs(source_id);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_scraped_date ON jobs(scraped_date);`,
	`CREATE TABLE IF NOT EXISTS employers (
  company TEXT PRIMARY KEY,
  h1b_count TEXT NOT NULL,
  avg_salary TEXT NOT NULL,
  job_search_url TEXT NOT NULL DEFAULT '',
  fetched_at TEXT NOT NULL
);`,
}

// Migrate brings the schema up to schemaVersion, tracked in PRAGMA
// user_version.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= schemaVersion {
		return tx.Commit()
	}

	for _, stmt := range schemaV1 {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}
