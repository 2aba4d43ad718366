// Package report prints the console summaries shown after a run.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"h1bhunt-engine/internal/catalog"
	"h1bhunt-engine/internal/domain"

	"github.com/jedib0t/go-pretty/v6/table"
)

const topN = 10

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

// Count is one bucket of a breakdown table.
type Count struct {
	Key   string
	Count int
}

type counter map[string]int

// sorted orders by count desc, then key, so output is stable.
func (c counter) sorted() []Count {
	out := make([]Count, 0, len(c))
	for k, n := range c {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func top(xs []Count, n int) []Count {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

// JobStats is everything the jobs report prints.
type JobStats struct {
	Total              int
	Sponsors           int
	NoSponsorship      int
	Unknown            int
	ManualVerification int
	// KnownSponsors counts records whose company is in the sponsor catalog.
	KnownSponsors int

	PostingDates     []Count
	TopCompanies     []Count
	Sources          []Count
	Confidence       []Count
	CatalogCompanies []Count
}

func Summarize(jobs []domain.JobRecord) JobStats {
	st := JobStats{Total: len(jobs)}
	dates, companies, sources, conf, known := counter{}, counter{}, counter{}, counter{}, counter{}

	for _, j := range jobs {
		switch j.SponsorsH1B {
		case domain.SponsorYes:
			st.Sponsors++
			companies[orUnknown(j.Company)]++
		case domain.SponsorNo:
			st.NoSponsorship++
		default:
			st.Unknown++
		}
		if catalog.IsManualVerification(j) {
			st.ManualVerification++
		}
		if c, ok := catalog.Match(j.Company); ok {
			st.KnownSponsors++
			known[c.Name]++
		}
		dates[orUnknown(j.PostingDate)]++
		sources[orUnknown(j.Source)]++
		conf[orUnknown(string(j.Confidence))]++
	}

	st.PostingDates = dates.sorted()
	st.TopCompanies = top(companies.sorted(), topN)
	st.Sources = sources.sorted()
	st.Confidence = conf.sorted()
	st.CatalogCompanies = top(known.sorted(), topN)
	return st
}

// Jobs prints the run summary for scraped postings and leads.
func Jobs(w io.Writer, title string, jobs []domain.JobRecord) {
	st := Summarize(jobs)

	t := newTable(w, title)
	t.AppendRows([]table.Row{
		{"Total jobs", st.Total},
		{"Likely H1B sponsors", st.Sponsors},
		{"No sponsorship", st.NoSponsorship},
		{"Unknown/Unclear", st.Unknown},
		{"Require manual verification", st.ManualVerification},
		{"At known sponsors", st.KnownSponsors},
	})
	t.Render()

	renderCounts(w, "Posting time distribution", "Posted", st.PostingDates)
	renderCounts(w, "Top companies sponsoring H1B", "Company", st.TopCompanies)
	renderCounts(w, "Known sponsors in results", "Company", st.CatalogCompanies)
	renderCounts(w, "Jobs by source", "Source", st.Sources)
	renderCounts(w, "Confidence", "Level", st.Confidence)

	steps(w, "Next steps", []string{
		"Check the generated CSV file for detailed company info",
		"Visit company career pages and confirm the posting is live",
		"Use H1B database sites to verify sponsors",
		"Apply directly on company websites",
		"Apply within 24 hours of job posting",
	})
}

func renderCounts(w io.Writer, title, label string, xs []Count) {
	if len(xs) == 0 {
		return
	}
	t := newTable(w, title)
	t.AppendHeader(table.Row{label, "Count"})
	for _, c := range xs {
		t.AppendRow(table.Row{c.Key, c.Count})
	}
	t.Render()
}

func steps(w io.Writer, title string, lines []string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	for i, l := range lines {
		fmt.Fprintf(w, "  %d. %s\n", i+1, l)
	}
}

func bullets(w io.Writer, title string, lines []string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, l := range lines {
		fmt.Fprintf(w, "  - %s\n", l)
	}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
