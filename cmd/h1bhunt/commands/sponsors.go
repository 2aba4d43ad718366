package commands

import (
	"fmt"
	"time"

	"h1bhunt-engine/internal/export"
	"h1bhunt-engine/internal/report"
	"h1bhunt-engine/internal/scrape"
	"h1bhunt-engine/internal/scrape/myvisajobs"

	"github.com/spf13/cobra"
)

var sponsorsFlags struct {
	titles    []string
	minSalary int
	noStore   bool
}

func init() {
	f := sponsorsCmd.Flags()
	f.StringSliceVar(&sponsorsFlags.titles, "title", nil, "job titles to look up (default sources.myvisajobs.job_titles)")
	f.IntVar(&sponsorsFlags.minSalary, "min-salary", 0, "minimum average H1B salary (default sources.myvisajobs.min_salary)")
	f.BoolVar(&sponsorsFlags.noStore, "no-store", false, "do not record employers in the database")
	rootCmd.AddCommand(sponsorsCmd)
}

var sponsorsCmd = &cobra.Command{
	Use:   "sponsors [--title T,...] [--min-salary N]",
	Short: "Look up top H1B employers on MyVisaJobs and write a search link per employer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		mc := myvisajobs.DefaultConfig()
		if cfg.Sources.MyVisaJobs.MinSalary > 0 {
			mc.MinSalary = cfg.Sources.MyVisaJobs.MinSalary
		}
		if len(cfg.Sources.MyVisaJobs.JobTitles) > 0 {
			mc.JobTitles = cfg.Sources.MyVisaJobs.JobTitles
		}
		mc.MaxTitles = cfg.Sources.MyVisaJobs.MaxTitles
		if sponsorsFlags.minSalary > 0 {
			mc.MinSalary = sponsorsFlags.minSalary
		}
		if len(sponsorsFlags.titles) > 0 {
			mc.JobTitles = sponsorsFlags.titles
			mc.MaxTitles = 0
		}

		now := time.Now()
		env := scrape.NewEnv(cfg, func() time.Time { return now })
		res, err := myvisajobs.New(mc, env).Fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("myvisajobs: %w", err)
		}
		jobs := scrape.Dedup(res.Jobs)

		out := cmd.OutOrStdout()
		if err := saveJobs(out, outputDir(cfg), export.BaseMyVisaJobs, jobs, now); err != nil {
			return err
		}

		if !sponsorsFlags.noStore {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			added := scrape.Store(cmd.Context(), db.Pool, jobs, now, nil)
			fmt.Fprintf(out, "%d new employer entries recorded.\n", added)
		}

		report.Employers(out, jobs)
		return nil
	},
}

