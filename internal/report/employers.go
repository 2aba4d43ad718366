package report

import (
	"io"

	"h1bhunt-engine/internal/domain"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Size buckets by yearly H1B filings.
const (
	SizeLarge  = "large"
	SizeMedium = "medium"
	SizeSmall  = "small"
)

// SizeBucket puts >1000 filings in large and >100 in medium. Counts that do
// not parse default to medium.
func SizeBucket(h1bCount string) string {
	n, ok := domain.Employer{H1BCount: h1bCount}.FilingCount()
	switch {
	case !ok:
		return SizeMedium
	case n > 1000:
		return SizeLarge
	case n > 100:
		return SizeMedium
	}
	return SizeSmall
}

// Buckets splits visa-data records by size, keeping input order.
func Buckets(jobs []domain.JobRecord) map[string][]domain.JobRecord {
	out := map[string][]domain.JobRecord{}
	for _, j := range jobs {
		b := SizeBucket(j.H1BApplications)
		out[b] = append(out[b], j)
	}
	return out
}

// Employers prints the sponsor-size report for records built from visa data.
func Employers(w io.Writer, jobs []domain.JobRecord) {
	b := Buckets(jobs)

	t := newTable(w, "H1B sponsor report: all company sizes")
	t.AppendRows([]table.Row{
		{"Total H1B sponsors found", len(jobs)},
		{"Large companies (1000+ H1Bs)", len(b[SizeLarge])},
		{"Medium companies (100-1000 H1Bs)", len(b[SizeMedium])},
		{"Small companies (<100 H1Bs)", len(b[SizeSmall])},
	})
	t.Render()

	bullets(w, "Why small and medium companies", []string{
		"Less competition than the largest sponsors",
		"Faster interview process",
		"More willing to wait for the H1B lottery",
		"Direct hire is more common than contract-to-hire",
	})

	renderEmployers(w, "Top small company gems (<100 H1Bs/year)", b[SizeSmall])
	renderEmployers(w, "Best medium companies (100-1000 H1Bs/year)", b[SizeMedium])

	steps(w, "Strategy", []string{
		"Start with small companies",
		"Target medium companies",
		"Apply to large companies as backup",
		"Focus on companies paying above $100K",
		"Apply within 24 hours of job posting",
	})
}

func renderEmployers(w io.Writer, title string, jobs []domain.JobRecord) {
	if len(jobs) == 0 {
		return
	}
	t := newTable(w, title)
	t.AppendHeader(table.Row{"Company", "H1Bs", "Avg salary"})
	for _, j := range jobs[:min(len(jobs), topN)] {
		t.AppendRow(table.Row{orUnknown(j.Company), orNA(j.H1BApplications), orNA(j.AvgH1BSalary)})
	}
	t.Render()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
