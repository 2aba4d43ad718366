// Package poll runs one pass of the scrape pipeline and the background
// poller built on top of it.
package poll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"h1bhunt-engine/internal/catalog"
	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/scrape"
	"h1bhunt-engine/internal/scrape/types"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSourceTimeout = 10 * time.Minute
	storeTimeout         = 2 * time.Minute
	lockName             = "h1bhunt.lock"
)

// ErrBusy means another process (or the server poller) is mid-run.
var ErrBusy = errors.New("another pipeline run is in progress")

type Summary struct {
	Sources      []types.SourceSummary `json:"sources"`
	Found        int                   `json:"found"`
	Kept         int                   `json:"kept"`
	Added        int                   `json:"added"`
	FallbackUsed bool                  `json:"fallback_used"`
	// Jobs are the records that survived filtering, in source order.
	Jobs []domain.JobRecord `json:"-"`
}

type Options struct {
	// Timeout bounds each source on its own.
	Timeout time.Duration
	Now     time.Time
	// OnNew runs for each record the store had not seen before.
	OnNew func(domain.JobRecord)
}

// RunOnce fetches every source concurrently, filters and dedups the
// results and stores them when db is non-nil. A failing source is recorded
// in the summary and never cancels the others. When every source comes back
// empty the static database leads stand in for live results. If ctx is
// cancelled, whatever was fetched is still stored and ctx.Err is returned.
func RunOnce(ctx context.Context, db *sql.DB, cfg config.Config, fetchers []types.Fetcher, opt Options) (Summary, error) {
	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}

	sums := make([]types.SourceSummary, len(fetchers))
	found := make([][]domain.JobRecord, len(fetchers))

	var g errgroup.Group
	for i, f := range fetchers {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			log.Printf("[%s] Running...", f.Name())
			res, err := f.Fetch(fctx)
			s := types.SourceSummary{Name: f.Name(), Found: len(res.Jobs), Blocked: res.Blocked}
			if err != nil {
				s.Error = err.Error()
				log.Printf("[poll:%s] error: %v", f.Name(), err)
			}
			if res.Blocked {
				log.Printf("[poll:%s] blocked by site", f.Name())
			}
			sums[i], found[i] = s, res.Jobs
			return nil
		})
	}
	_ = g.Wait()
	cerr := ctx.Err()

	sum := Summary{Sources: sums}
	var all []domain.JobRecord
	for _, jobs := range found {
		all = append(all, jobs...)
	}
	sum.Found = len(all)

	// A cancelled run keeps what it fetched but never falls back to leads.
	if sum.Found == 0 && cerr == nil {
		log.Printf("[poll] no live results, using database leads")
		all = append(catalog.DatabaseLeads(now), catalog.ManualSearchGuide(now))
		sum.FallbackUsed = true
	}

	sum.Jobs = scrape.Filter(cfg, all, now)
	sum.Kept = len(sum.Jobs)

	if db != nil && len(sum.Jobs) > 0 {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
		defer cancel()
		sum.Added = scrape.Store(sctx, db, sum.Jobs, now, opt.OnNew)
	}

	log.Printf("[poll] found=%d kept=%d added=%d fallback=%v", sum.Found, sum.Kept, sum.Added, sum.FallbackUsed)
	return sum, cerr
}

// LockPath is the lock file shared by CLI runs and the server poller.
func LockPath(dataDir string) string {
	return filepath.Join(dataDir, lockName)
}

// RunLocked runs fn while holding the file lock at path. It does not wait:
// a held lock returns ErrBusy.
func RunLocked(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("lock dir: %w", err)
	}
	lk := flock.New(path)
	ok, err := lk.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return ErrBusy
	}
	defer func() {
		if err := lk.Unlock(); err != nil {
			log.Printf("[poll] unlock %s: %v", path, err)
		}
	}()
	return fn()
}
