package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/export"
	"h1bhunt-engine/internal/scrape"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import FILE.csv|FILE.json...",
	Short: "Load earlier CSV or JSON exports into the database.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		out := cmd.OutOrStdout()
		now := time.Now()
		total := 0
		for _, path := range args {
			jobs, err := readExport(path)
			if err != nil {
				return err
			}
			added := scrape.Store(cmd.Context(), db.Pool, scrape.Dedup(jobs), now, nil)
			fmt.Fprintf(out, "%s: %d records, %d new\n", path, len(jobs), added)
			total += added
		}
		fmt.Fprintf(out, "Imported %d new records.\n", total)
		return nil
	},
}

func readExport(path string) ([]domain.JobRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return export.ReadJobsCSV(path)
	case ".json":
		return export.ReadJobsJSON(path)
	}
	return nil, fmt.Errorf("%s: expected a .csv or .json export", path)
}
