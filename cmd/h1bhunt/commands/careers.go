package commands

import (
	"fmt"
	"time"

	"h1bhunt-engine/internal/export"
	"h1bhunt-engine/internal/report"
	"h1bhunt-engine/internal/scrape"
	"h1bhunt-engine/internal/scrape/careers"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(careersCmd)
}

var careersCmd = &cobra.Command{
	Use:   "careers",
	Short: "Search company career pages directly, with a manual-verification lead where a page cannot be read.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		cc := careers.DefaultConfig()
		if pages := cfg.Sources.Careers.Companies; len(pages) > 0 {
			cc.Companies = scrape.MapCareerPages(pages)
		}

		now := time.Now()
		env := scrape.NewEnv(cfg, func() time.Time { return now })
		res, err := careers.New(cc, env).Fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("careers: %w", err)
		}
		jobs := scrape.Dedup(res.Jobs)

		out := cmd.OutOrStdout()
		if res.Blocked {
			fmt.Fprintln(out, "Some career sites refused the request; see the manual verification leads.")
		}
		if err := saveJobs(out, outputDir(cfg), export.BaseSimple, jobs, now); err != nil {
			return err
		}
		report.Jobs(out, "Career page results", jobs)
		return nil
	},
}
