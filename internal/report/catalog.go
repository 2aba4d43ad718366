package report

import (
	"fmt"
	"io"

	"h1bhunt-engine/internal/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
)

// CategoryCounts counts rows per category in first-seen order.
func CategoryCounts(rows []catalog.SponsorRow) []Count {
	var out []Count
	idx := map[string]int{}
	for _, r := range rows {
		i, ok := idx[r.Category]
		if !ok {
			i = len(out)
			idx[r.Category] = i
			out = append(out, Count{Key: r.Category})
		}
		out[i].Count++
	}
	return out
}

// Catalog prints the transparency report for the static sponsor catalog.
func Catalog(w io.Writer, rows []catalog.SponsorRow) {
	bullets(w, "What this tool does", []string{
		"Shows companies that have sponsored H1B visas (historical data)",
		"Provides direct links to company career pages",
		"Gives you resources to search for current jobs",
	})
	bullets(w, "What it does not do", []string{
		"It does not show current job openings",
		"It does not know whether these companies are hiring now",
	})

	t := newTable(w, "H1B sponsor companies by size")
	t.AppendHeader(table.Row{"Category", "Companies"})
	total := 0
	for _, c := range CategoryCounts(rows) {
		t.AppendRow(table.Row{c.Key, c.Count})
		total += c.Count
	}
	t.AppendFooter(table.Row{"Total", total})
	t.Render()

	steps(w, "Action plan", []string{
		"Review the CSV file with H1B sponsor companies",
		"Visit each company's career page manually",
		"Search for DevOps/SRE/Infrastructure roles",
		"Check if they mention visa sponsorship",
		"Apply within 24 hours of job posting",
	})

	var sites []string
	for _, r := range catalog.SearchResources() {
		sites = append(sites, fmt.Sprintf("%s: %s", r.Name, r.URL))
	}
	bullets(w, "Verification sites", sites)

	fmt.Fprintln(w, "\nThis is historical sponsorship data only. Verify current openings manually.")
}
