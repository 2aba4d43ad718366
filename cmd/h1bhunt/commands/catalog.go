package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"h1bhunt-engine/internal/catalog"
	"h1bhunt-engine/internal/export"
	"h1bhunt-engine/internal/report"

	"github.com/spf13/cobra"
)

var catalogFlags struct {
	match    string
	category string
}

func init() {
	f := catalogCmd.Flags()
	f.StringVar(&catalogFlags.match, "match", "", "print the catalog entry closest to this company name and exit")
	f.StringVar(&catalogFlags.category, "category", "", "only export sponsors in this category")
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog [--match NAME] [--category C]",
	Short: "Export the verified H1B sponsor catalog with search resources and a verification guide.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if catalogFlags.match != "" {
			c, ok := catalog.Match(catalogFlags.match)
			if !ok {
				return fmt.Errorf("no catalog sponsor matches %q", catalogFlags.match)
			}
			r := catalog.RowFor(c)
			fmt.Fprintf(out, "%s (%s)\n  careers: %s\n  history: %s\n  roles:   %s\n",
				r.CompanyName, r.Category, r.CareerWebsite, r.H1BSponsorshipHistory, r.TypicalEngineeringRoles)
			return nil
		}

		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		now := time.Now()
		bundle := catalog.NewBundle(now.Format(time.RFC3339))
		if catalogFlags.category != "" {
			var rows []catalog.SponsorRow
			for _, r := range bundle.H1BSponsors {
				if r.Category == catalogFlags.category {
					rows = append(rows, r)
				}
			}
			if len(rows) == 0 {
				return fmt.Errorf("unknown category %q; known: %v", catalogFlags.category, catalog.Categories())
			}
			bundle.H1BSponsors = rows
		}

		dir := outputDir(cfg)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		base := filepath.Join(dir, export.BaseHonest+"_"+export.Stamp(now))
		if err := export.WriteCSV(base+".csv", bundle.H1BSponsors); err != nil {
			return err
		}
		if err := export.WriteJSON(base+".json", bundle); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %d sponsors to %s.csv and %s.json\n", len(bundle.H1BSponsors), base, base)

		report.Catalog(out, bundle.H1BSponsors)
		return nil
	},
}
