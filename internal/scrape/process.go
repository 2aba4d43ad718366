package scrape

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"h1bhunt-engine/internal/catalog"
	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/filter"
	"h1bhunt-engine/internal/scrape/util"
	"h1bhunt-engine/internal/store"
)

// DedupKey identifies a record within a run and in the store: the canonical
// URL for postings, the title-company-location signature otherwise. Leads
// always use the signature because several share one careers URL.
func DedupKey(j domain.JobRecord) string {
	if !catalog.IsLead(j) {
		if u := util.CanonicalURL(j.URL); u != "" {
			return "url:" + u
		}
	}
	return "sig:" + strings.ToLower(strings.Join([]string{
		strings.TrimSpace(j.Title), strings.TrimSpace(j.Company), strings.TrimSpace(j.Location),
	}, "-"))
}

// Dedup keeps the first record for each DedupKey.
func Dedup(jobs []domain.JobRecord) []domain.JobRecord {
	seen := make(map[string]bool, len(jobs))
	out := make([]domain.JobRecord, 0, len(jobs))
	for _, j := range jobs {
		k := DedupKey(j)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, j)
	}
	return out
}

// Keep applies the configured filters. reason names the filter that
// dropped the record.
func Keep(cfg config.Config, j domain.JobRecord, now time.Time) (keep bool, reason string) {
	if blockedLocation(cfg.Filters.LocationsBlock, j) {
		return false, "location"
	}
	lead := catalog.IsLead(j)
	if cfg.Filters.RecentOnly && !lead && dated(j.PostingDate) && !filter.IsWithin24Hours(j.PostingDate, now) {
		return false, "stale"
	}
	if cfg.Filters.SponsorsOnly && j.SponsorsH1B != domain.SponsorYes {
		return false, "sponsorship"
	}
	return true, ""
}

// dated reports whether a posting date carries an age. Adapters that emit
// "Recent" or "Unknown" already restrict their queries to the last day.
func dated(posted string) bool {
	switch strings.ToLower(strings.TrimSpace(posted)) {
	case "", "recent", "unknown":
		return false
	}
	return true
}

func blockedLocation(block []string, j domain.JobRecord) bool {
	loc := strings.ToLower(j.Location)
	title := strings.ToLower(j.Title)
	for _, b := range block {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		if strings.Contains(loc, b) || strings.Contains(title, b) {
			return true
		}
	}
	return false
}

// Filter dedups jobs and drops the ones Keep rejects, logging each drop.
func Filter(cfg config.Config, jobs []domain.JobRecord, now time.Time) []domain.JobRecord {
	var out []domain.JobRecord
	dropped := map[string]int{}
	for _, j := range Dedup(jobs) {
		ok, why := Keep(cfg, j, now)
		if !ok {
			dropped[why]++
			continue
		}
		out = append(out, j)
	}
	if len(dropped) > 0 {
		log.Printf("[process] kept=%d dropped=%v", len(out), dropped)
	}
	return out
}

// Store inserts jobs that are new to the database and records visa-data
// employers. onNew runs for each inserted job.
func Store(ctx context.Context, db *sql.DB, jobs []domain.JobRecord, now time.Time, onNew func(domain.JobRecord)) (added int) {
	for _, j := range jobs {
		ok, err := store.InsertJobIfNew(ctx, db, DedupKey(j), j)
		if err != nil {
			log.Printf("[process:%s] insert error: %v title=%q url=%q", j.Source, err, j.Title, j.URL)
			continue
		}

		if j.H1BApplications != "" && j.H1BApplications != "N/A" {
			e := domain.Employer{Company: j.Company, H1BCount: j.H1BApplications, AvgSalary: j.AvgH1BSalary, JobSearchURL: j.URL}
			if err := store.UpsertEmployer(ctx, db, e, now); err != nil {
				log.Printf("[process:%s] %v", j.Source, err)
			}
		}

		if !ok {
			continue
		}
		added++
		if onNew != nil {
			onNew(j)
		}
	}
	return added
}
