package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"h1bhunt-engine/internal/domain"
)

// UpsertEmployer records the latest visa-filing figures for a company.
func UpsertEmployer(ctx context.Context, db *sql.DB, e domain.Employer, now time.Time) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO employers (company, h1b_count, avg_salary, job_search_url, fetched_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(company) DO UPDATE SET
  h1b_count = excluded.h1b_count,
  avg_salary = excluded.avg_salary,
  job_search_url = excluded.job_search_url,
  fetched_at = excluded.fetched_at;`,
		e.Company, e.H1BCount, e.AvgSalary, e.JobSearchURL, now.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert employer %q: %w", e.Company, err)
	}
	return nil
}

// ListEmployers returns employers by filing count, largest first.
// Unparseable counts sort last.
func ListEmployers(ctx context.Context, db *sql.DB) ([]domain.Employer, error) {
	rows, err := db.QueryContext(ctx, `SELECT company, h1b_count, avg_salary, job_search_url FROM employers;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Employer
	for rows.Next() {
		var e domain.Employer
		if err := rows.Scan(&e.Company, &e.H1BCount, &e.AvgSalary, &e.JobSearchURL); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		ci, oki := out[i].FilingCount()
		cj, okj := out[j].FilingCount()
		if oki != okj {
			return oki
		}
		if ci != cj {
			return ci > cj
		}
		return out[i].Company < out[j].Company
	})
	return out, nil
}
