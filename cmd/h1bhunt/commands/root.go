package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "h1bhunt",
	Short:        "h1bhunt finds DevOps/SRE postings and flags the ones likely to come with H1B sponsorship.",
	SilenceUsage: true,
}

var global struct {
	dataDir   string
	outputDir string
}

func init() {
	def := os.Getenv("H1BHUNT_DATA_DIR")
	if def == "" {
		def = "data"
	}
	rootCmd.PersistentFlags().StringVar(&global.dataDir, "data-dir", def, "directory holding config.yml, the database and the run lock")
	rootCmd.PersistentFlags().StringVar(&global.outputDir, "output", "", "directory for CSV/JSON exports (default app.output_dir)")
}

// ExecuteContext runs the CLI and returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
