package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/filter"
	"h1bhunt-engine/internal/scrape"

	"github.com/spf13/cobra"
)

var classifyFlags struct {
	file   string
	title  string
	posted string
	json   bool
}

func init() {
	f := classifyCmd.Flags()
	f.StringVarP(&classifyFlags.file, "file", "f", "", "read the description from a file (- for stdin)")
	f.StringVar(&classifyFlags.title, "title", "", "job title, used for the target-role check")
	f.StringVar(&classifyFlags.posted, "posted", "", `posting date text such as "3 hours ago"`)
	f.BoolVar(&classifyFlags.json, "json", false, "print the verdict as JSON")
	rootCmd.AddCommand(classifyCmd)
}

type verdict struct {
	Sponsors   domain.Sponsorship `json:"sponsors_h1b"`
	Confidence domain.Confidence  `json:"confidence"`
	Keywords   []string           `json:"keywords_found"`
	TargetRole bool               `json:"target_role"`
	Recent     *bool              `json:"recent,omitempty"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify [description text...]",
	Short: "Classify a job description for H1B sponsorship.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := classifyInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		res := scrape.Classifier(cfg).Check(text)
		v := verdict{
			Sponsors:   res.Sponsors,
			Confidence: res.Confidence,
			Keywords:   res.Keywords,
			TargetRole: filter.NewRoles(cfg.Search.TargetRoles).Match(classifyFlags.title, text),
		}
		if v.Keywords == nil {
			v.Keywords = []string{}
		}
		if classifyFlags.posted != "" {
			recent := filter.IsWithin24Hours(classifyFlags.posted, time.Now())
			v.Recent = &recent
		}

		out := cmd.OutOrStdout()
		if classifyFlags.json {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}
		fmt.Fprintf(out, "sponsors_h1b: %s\nconfidence:   %s\n", v.Sponsors.Label(), v.Confidence)
		if len(v.Keywords) > 0 {
			fmt.Fprintf(out, "keywords:     %s\n", strings.Join(v.Keywords, ", "))
		}
		fmt.Fprintf(out, "target_role:  %t\n", v.TargetRole)
		if v.Recent != nil {
			fmt.Fprintf(out, "recent:       %t\n", *v.Recent)
		}
		return nil
	},
}

func classifyInput(stdin io.Reader, args []string) (string, error) {
	var (
		b   []byte
		err error
	)
	switch {
	case classifyFlags.file == "-":
		b, err = io.ReadAll(stdin)
	case classifyFlags.file != "":
		b, err = os.ReadFile(classifyFlags.file)
	default:
		b = []byte(strings.Join(args, " "))
	}
	if err != nil {
		return "", fmt.Errorf("read description: %w", err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" && classifyFlags.title == "" {
		return "", errors.New("nothing to classify: pass text, --file or --title")
	}
	return text, nil
}
