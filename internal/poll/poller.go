package poll

import (
	"context"
	"database/sql"
	"log"
	"sync/atomic"
	"time"

	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/events"
	"h1bhunt-engine/internal/scheduler"
	"h1bhunt-engine/internal/scrape"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/store"
)

// Notifier receives the records a run added. *notify.Telegram satisfies it.
type Notifier interface {
	NotifyJobs(ctx context.Context, jobs []domain.JobRecord) (int, error)
}

type Poller struct {
	DB  *sql.DB
	Cfg *atomic.Value // config.Config
	Hub *events.Hub
	// Notify may be nil.
	Notify   Notifier
	LockPath string
	Now      func() time.Time
	// Fetchers builds the sources for one run. Nil means every enabled
	// source from the config.
	Fetchers func(cfg config.Config, now func() time.Time) []types.Fetcher

	status  atomic.Value // types.ScrapeStatus
	running atomic.Bool
}

func (p *Poller) clock() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Poller) config() config.Config {
	if p.Cfg != nil {
		if c, ok := p.Cfg.Load().(config.Config); ok {
			return c
		}
	}
	return config.Default()
}

func (p *Poller) Status() types.ScrapeStatus {
	st, _ := p.status.Load().(types.ScrapeStatus)
	st.Running = p.running.Load()
	return st
}

func (p *Poller) update(fn func(st *types.ScrapeStatus)) {
	st, _ := p.status.Load().(types.ScrapeStatus)
	fn(&st)
	p.status.Store(st)
}

func (p *Poller) emit(reqID, typ string, data any) {
	if p.Hub != nil {
		p.Hub.Emit(reqID, typ, data)
	}
}

// Running reports whether this poller is mid-run.
func (p *Poller) Running() bool { return p.running.Load() }

// Run performs one locked pipeline pass, then prunes old rows and notifies
// about new sponsor matches. reqID tags the emitted events.
func (p *Poller) Run(ctx context.Context, reqID string) (Summary, error) {
	if !p.running.CompareAndSwap(false, true) {
		return Summary{}, ErrBusy
	}
	defer p.running.Store(false)

	cfg := p.config()
	now := p.clock()
	p.update(func(st *types.ScrapeStatus) { st.LastRunAt = now.Format(time.RFC3339) })
	p.emit(reqID, events.TypeScrapeStarted, nil)

	build := p.Fetchers
	if build == nil {
		build = func(cfg config.Config, now func() time.Time) []types.Fetcher {
			return scrape.Fetchers(cfg, scrape.NewEnv(cfg, now))
		}
	}

	var (
		sum   Summary
		fresh []domain.JobRecord
	)
	run := func() error {
		var err error
		sum, err = RunOnce(ctx, p.DB, cfg, build(cfg, p.clock), Options{
			Timeout: time.Duration(cfg.Polling.SourceTimeoutSeconds) * time.Second,
			Now:     now,
			OnNew: func(j domain.JobRecord) {
				fresh = append(fresh, j)
				p.emit(reqID, events.TypeJobNew, j)
			},
		})
		return err
	}

	var err error
	if p.LockPath != "" {
		err = RunLocked(p.LockPath, run)
	} else {
		err = run()
	}

	if err != nil {
		log.Printf("[poll] error: %v", err)
		p.update(func(st *types.ScrapeStatus) { st.LastError = err.Error() })
		p.emit(reqID, events.TypeScrapeFailed, map[string]string{"error": err.Error()})
		return sum, err
	}

	p.afterRun(ctx, cfg, now, fresh)

	p.update(func(st *types.ScrapeStatus) {
		st.LastError = ""
		st.LastOkAt = p.clock().Format(time.RFC3339)
		st.LastAdded = sum.Added
		st.LastFound = sum.Found
	})
	p.emit(reqID, events.TypeScrapeFinished, sum)
	return sum, nil
}

func (p *Poller) afterRun(ctx context.Context, cfg config.Config, now time.Time, fresh []domain.JobRecord) {
	if p.DB != nil && cfg.Filters.RetentionDays > 0 {
		cutoff := now.AddDate(0, 0, -cfg.Filters.RetentionDays)
		if n, err := store.CleanupOldJobs(ctx, p.DB, cutoff); err != nil {
			log.Printf("[poll] cleanup: %v", err)
		} else if n > 0 {
			log.Printf("[poll] cleanup removed=%d before=%s", n, cutoff.Format(time.DateOnly))
		}
	}
	if p.Notify != nil && len(fresh) > 0 {
		if n, err := p.Notify.NotifyJobs(ctx, fresh); err != nil {
			log.Printf("[notify] sent=%d err=%v", n, err)
		}
	}
}

// Start runs the pipeline on the configured interval until ctx ends.
func (p *Poller) Start(ctx context.Context) {
	interval := time.Duration(p.config().Polling.ScrapeMinutes) * time.Minute
	go scheduler.Every(ctx, interval, "poll", func(ctx context.Context) error {
		_, err := p.Run(ctx, "")
		return err
	})
}
