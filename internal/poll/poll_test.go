package poll

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/events"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/store"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	name    string
	jobs    []domain.JobRecord
	err     error
	blocked bool
	hang    bool
	// after runs once the jobs are ready to return.
	after func()
}

func (f fakeFetcher) Name() string { return f.name }

func (f fakeFetcher) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	if f.hang {
		<-ctx.Done()
		return types.ScrapeResult{Source: f.name}, ctx.Err()
	}
	if f.after != nil {
		f.after()
	}
	return types.ScrapeResult{Source: f.name, Jobs: f.jobs, Blocked: f.blocked}, f.err
}

type fakeNotifier struct{ got []domain.JobRecord }

func (n *fakeNotifier) NotifyJobs(_ context.Context, jobs []domain.JobRecord) (int, error) {
	n.got = append(n.got, jobs...)
	return len(jobs), nil
}

func posting(title, url, posted string) domain.JobRecord {
	return domain.JobRecord{
		Title: title, Company: "Acme", Location: "Remote", URL: url, Source: "Indeed",
		PostingDate: posted, ScrapedDate: now.Format(time.RFC3339),
		SponsorsH1B: domain.SponsorYes, Confidence: domain.ConfidenceHigh,
	}
}

func openDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "poll.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunOnceIsolatesSourceFailures(t *testing.T) {
	db := openDB(t)
	fetchers := []types.Fetcher{
		fakeFetcher{name: "indeed", jobs: []domain.JobRecord{
			posting("SRE", "https://x/1", "Just posted"),
			posting("DevOps Engineer", "https://x/2", "2 weeks ago"),
		}},
		fakeFetcher{name: "dice", err: errors.New("boom"), blocked: true},
		fakeFetcher{name: "slow", hang: true},
	}

	sum, err := RunOnce(context.Background(), db.Pool, config.Default(), fetchers, Options{Timeout: 50 * time.Millisecond, Now: now})
	require.NoError(t, err)

	require.Len(t, sum.Sources, 3)
	assert.Equal(t, types.SourceSummary{Name: "indeed", Found: 2}, sum.Sources[0])
	assert.Equal(t, types.SourceSummary{Name: "dice", Blocked: true, Error: "boom"}, sum.Sources[1])
	assert.Contains(t, sum.Sources[2].Error, "deadline")

	assert.Equal(t, 2, sum.Found)
	assert.Equal(t, 1, sum.Kept, "stale posting dropped")
	assert.Equal(t, 1, sum.Added)
	assert.False(t, sum.FallbackUsed)
	assert.Equal(t, "SRE", sum.Jobs[0].Title)
}

func TestRunOnceFallsBackToDatabaseLeads(t *testing.T) {
	sum, err := RunOnce(context.Background(), nil, config.Default(),
		[]types.Fetcher{fakeFetcher{name: "indeed"}, fakeFetcher{name: "dice", err: errors.New("down")}},
		Options{Now: now})
	require.NoError(t, err)

	assert.True(t, sum.FallbackUsed)
	assert.Zero(t, sum.Found)
	assert.Equal(t, 6, sum.Kept, "five database leads and the search guide")
	assert.Zero(t, sum.Added, "nothing stored without a db")
}

func TestRunOnceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunOnce(ctx, nil, config.Default(), []types.Fetcher{fakeFetcher{name: "slow", hang: true}}, Options{Now: now})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunOnceCancelledStoresFetched(t *testing.T) {
	db := openDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fetchers := []types.Fetcher{
		fakeFetcher{name: "indeed", jobs: []domain.JobRecord{posting("SRE", "https://x/1", "Just posted")}, after: cancel},
		fakeFetcher{name: "slow", hang: true},
	}

	sum, err := RunOnce(ctx, db.Pool, config.Default(), fetchers, Options{Now: now})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, sum.FallbackUsed)
	assert.Equal(t, 1, sum.Added)

	jobs, err := store.ListJobs(context.Background(), db.Pool, store.ListJobsOpts{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "SRE", jobs[0].Title)
}

func TestRunLocked(t *testing.T) {
	path := LockPath(t.TempDir())

	held := flock.New(path)
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)

	err = RunLocked(path, func() error {
		t.Fatal("ran while lock was held")
		return nil
	})
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, held.Unlock())

	ran := false
	require.NoError(t, RunLocked(path, func() error { ran = true; return nil }))
	assert.True(t, ran)
}

func TestPollerRun(t *testing.T) {
	db := openDB(t)
	dir := t.TempDir()

	var cfgVal atomic.Value
	cfgVal.Store(config.Default())

	hub := events.NewHub()
	ch := hub.Subscribe()
	n := &fakeNotifier{}

	p := &Poller{
		DB:       db.Pool,
		Cfg:      &cfgVal,
		Hub:      hub,
		Notify:   n,
		LockPath: LockPath(dir),
		Now:      func() time.Time { return now },
		Fetchers: func(config.Config, func() time.Time) []types.Fetcher {
			return []types.Fetcher{fakeFetcher{name: "indeed", jobs: []domain.JobRecord{posting("SRE", "https://x/1", "today")}}}
		},
	}

	sum, err := p.Run(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Added)
	require.Len(t, n.got, 1)

	st := p.Status()
	assert.False(t, st.Running)
	assert.Equal(t, 1, st.LastAdded)
	assert.Equal(t, 1, st.LastFound)
	assert.Empty(t, st.LastError)
	assert.Equal(t, now.Format(time.RFC3339), st.LastOkAt)

	var typesSeen []string
	for len(ch) > 0 {
		var e events.Event
		require.NoError(t, json.Unmarshal([]byte(<-ch), &e))
		assert.Equal(t, "req-1", e.RequestID)
		typesSeen = append(typesSeen, e.Type)
	}
	assert.Equal(t, []string{events.TypeScrapeStarted, events.TypeJobNew, events.TypeScrapeFinished}, typesSeen)

	sum, err = p.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, sum.Added)
	assert.Len(t, n.got, 1, "no notification without new jobs")
}

func TestPollerRejectsOverlap(t *testing.T) {
	p := &Poller{}
	p.running.Store(true)
	_, err := p.Run(context.Background(), "")
	assert.ErrorIs(t, err, ErrBusy)
	assert.True(t, p.Status().Running)
}
