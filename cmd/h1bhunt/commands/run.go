package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/export"
	"h1bhunt-engine/internal/notify"
	"h1bhunt-engine/internal/poll"
	"h1bhunt-engine/internal/report"
	"h1bhunt-engine/internal/scrape"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/store"

	"github.com/spf13/cobra"
)

var runFlags struct {
	sources      []string
	noStore      bool
	sponsorsOnly bool
}

func init() {
	f := runCmd.Flags()
	f.StringSliceVar(&runFlags.sources, "source", nil, "only run these sources (e.g. indeed,dice,careers)")
	f.BoolVar(&runFlags.noStore, "no-store", false, "skip the database; exports only")
	f.BoolVar(&runFlags.sponsorsOnly, "sponsors-only", false, "keep only postings classified as sponsoring")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--source name,...] [--no-store] [--sponsors-only]",
	Short: "Scrape every enabled source once, export the results and print a report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if runFlags.sponsorsOnly {
			cfg.Filters.SponsorsOnly = true
		}

		fetchers, err := selectSources(scrape.Fetchers(cfg, scrape.NewEnv(cfg, time.Now)), runFlags.sources)
		if err != nil {
			return err
		}

		var pool *sql.DB
		if !runFlags.noStore {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			pool = db.Pool
		}

		now := time.Now()
		var (
			sum   poll.Summary
			fresh []domain.JobRecord
		)
		err = poll.RunLocked(poll.LockPath(global.dataDir), func() error {
			var err error
			sum, err = poll.RunOnce(cmd.Context(), pool, cfg, fetchers, poll.Options{
				Timeout: time.Duration(cfg.Polling.SourceTimeoutSeconds) * time.Second,
				Now:     now,
				OnNew:   func(j domain.JobRecord) { fresh = append(fresh, j) },
			})
			return err
		})
		if errors.Is(err, poll.ErrBusy) {
			return fmt.Errorf("%w; is `h1bhunt serve` mid-scrape?", err)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		report.Sources(out, sum.Sources, sum.FallbackUsed)

		dir := outputDir(cfg)
		if err := saveJobs(out, dir, export.BaseJobs, sum.Jobs, now); err != nil {
			return err
		}
		if err := saveJobs(out, dir, export.BaseSponsorsOnly, sponsorsOnly(sum.Jobs), now); err != nil {
			return err
		}
		report.Jobs(out, "H1B job report", sum.Jobs)

		if pool != nil {
			fmt.Fprintf(out, "\n%d new since the last run.\n", sum.Added)
			pruneOld(cmd.Context(), pool, cfg, now)
		}
		notifyNew(cmd.Context(), cfg, fresh)
		return nil
	},
}

// selectSources keeps the fetchers named in only, in their original order.
func selectSources(all []types.Fetcher, only []string) ([]types.Fetcher, error) {
	if len(only) == 0 {
		return all, nil
	}
	want := map[string]bool{}
	for _, n := range only {
		want[strings.ToLower(strings.TrimSpace(n))] = true
	}
	var out []types.Fetcher
	var names []string
	for _, f := range all {
		names = append(names, f.Name())
		if want[f.Name()] {
			out = append(out, f)
			delete(want, f.Name())
		}
	}
	if len(want) > 0 {
		var missing []string
		for n := range want {
			missing = append(missing, n)
		}
		return nil, fmt.Errorf("unknown or disabled source(s) %s; enabled: %s",
			strings.Join(missing, ","), strings.Join(names, ","))
	}
	return out, nil
}

func pruneOld(ctx context.Context, db *sql.DB, cfg config.Config, now time.Time) {
	if cfg.Filters.RetentionDays <= 0 {
		return
	}
	n, err := store.CleanupOldJobs(ctx, db, now.AddDate(0, 0, -cfg.Filters.RetentionDays))
	if err != nil {
		log.Printf("[store] cleanup: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[store] cleanup removed=%d", n)
	}
}

func notifyNew(ctx context.Context, cfg config.Config, jobs []domain.JobRecord) {
	if !cfg.Telegram.Enabled || len(jobs) == 0 {
		return
	}
	tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MinConfidence)
	if err != nil {
		log.Printf("[notify] %v", err)
		return
	}
	if _, err := tg.NotifyJobs(ctx, jobs); err != nil {
		log.Printf("[notify] %v", err)
	}
}
