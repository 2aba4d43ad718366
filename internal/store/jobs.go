package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"h1bhunt-engine/internal/domain"
)

type Job struct {
	ID int64 `json:"id"`
	domain.JobRecord
}

type ListJobsOpts struct {
	Sponsor string // yes | no | unknown | "" (any)
	Window  string // 24h | 7d | all
	Sort    string // date | company | title | confidence
	Limit   int
	Now     time.Time
}

// InsertJobIfNew stores j under sourceID and reports whether a row was
// added. An existing sourceID is left untouched.
func InsertJobIfNew(ctx context.Context, db *sql.DB, sourceID string, j domain.JobRecord) (bool, error) {
	if strings.TrimSpace(sourceID) == "" {
		return false, errors.New("insert job: empty source id")
	}

	scraped := time.Now().UTC()
	if t, err := time.Parse(time.RFC3339, j.ScrapedDate); err == nil {
		scraped = t.UTC()
	}
	kw, _ := json.Marshal(j.KeywordsFound)
	if j.KeywordsFound == nil {
		kw = []byte("[]")
	}
	conf := j.Confidence
	if conf == "" {
		conf = domain.ConfidenceUnknown
	}

	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (source_id, title, company, location, description, url, source,
  posting_date, scraped_date, sponsors_h1b, confidence, keywords, h1b_applications, avg_h1b_salary)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		sourceID, j.Title, j.Company, j.Location, j.Description, j.URL, j.Source,
		j.PostingDate, scraped.Format(time.RFC3339), sponsorValue(j.SponsorsH1B), string(conf),
		string(kw), j.H1BApplications, j.AvgH1BSalary,
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}
	return n > 0, nil
}

func sponsorValue(s domain.Sponsorship) any {
	switch s {
	case domain.SponsorYes:
		return 1
	case domain.SponsorNo:
		return 0
	}
	return nil
}

func ListJobs(ctx context.Context, db *sql.DB, opts ListJobsOpts) ([]Job, error) {
	if opts.Limit <= 0 || opts.Limit > 5000 {
		opts.Limit = 500
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	// whitelist sort columns (prevents SQL injection)
	order := map[string]string{
		"date":       "scraped_date DESC, id DESC",
		"company":    "company COLLATE NOCASE ASC, id DESC",
		"title":      "title COLLATE NOCASE ASC, id DESC",
		"confidence": "CASE confidence WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, scraped_date DESC, id DESC",
	}[opts.Sort]
	if order == "" {
		order = "scraped_date DESC, id DESC"
	}

	var where []string
	var args []any

	switch opts.Window {
	case "24h":
		where = append(where, "scraped_date >= ?")
		args = append(args, opts.Now.UTC().Add(-24*time.Hour).Format(time.RFC3339))
	case "7d":
		where = append(where, "scraped_date >= ?")
		args = append(args, opts.Now.UTC().AddDate(0, 0, -7).Format(time.RFC3339))
	}

	switch strings.ToLower(opts.Sponsor) {
	case "yes":
		where = append(where, "sponsors_h1b = 1")
	case "no":
		where = append(where, "sponsors_h1b = 0")
	case "unknown":
		where = append(where, "sponsors_h1b IS NULL")
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, opts.Limit)

	query := fmt.Sprintf(`
SELECT id, title, company, location, description, url, source, posting_date, scraped_date,
  sponsors_h1b, confidence, keywords, h1b_applications, avg_h1b_salary
FROM jobs
%s
ORDER BY %s
LIMIT ?;`, clause, order)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var j Job
		var sponsor sql.NullInt64
		var conf, kw string
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.URL, &j.Source,
			&j.PostingDate, &j.ScrapedDate, &sponsor, &conf, &kw, &j.H1BApplications, &j.AvgH1BSalary,
		); err != nil {
			return nil, err
		}
		switch {
		case !sponsor.Valid:
			j.SponsorsH1B = domain.SponsorUnknown
		case sponsor.Int64 == 1:
			j.SponsorsH1B = domain.SponsorYes
		default:
			j.SponsorsH1B = domain.SponsorNo
		}
		j.Confidence = domain.Confidence(conf)
		j.KeywordsFound = []string{}
		_ = json.Unmarshal([]byte(kw), &j.KeywordsFound)
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CleanupOldJobs deletes jobs scraped before cutoff.
func CleanupOldJobs(ctx context.Context, db *sql.DB, cutoff time.Time) (deleted int64, err error) {
	res, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE scraped_date < ?;`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("cleanup old jobs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// DeleteJob removes one job by row id and reports whether it existed.
func DeleteJob(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete job %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
