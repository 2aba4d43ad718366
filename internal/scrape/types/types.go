package types

import (
	"context"

	"h1bhunt-engine/internal/domain"
)

type ScrapeResult struct {
	Source  string
	Jobs    []domain.JobRecord
	Blocked bool // the site answered 403 at least once
}

type ScrapeStatus struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastAdded int    `json:"last_added"`
	LastFound int    `json:"last_found"`
	Running   bool   `json:"running"`
}

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (ScrapeResult, error)
}

// SourceSummary is the per-source outcome of one pipeline run.
type SourceSummary struct {
	Name    string `json:"name"`
	Found   int    `json:"found"`
	Blocked bool   `json:"blocked,omitempty"`
	Error   string `json:"error,omitempty"`
}
