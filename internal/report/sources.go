package report

import (
	"fmt"
	"io"

	"h1bhunt-engine/internal/scrape/types"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Sources prints the per-source outcome of a run. fallback notes that the
// static leads replaced live results.
func Sources(w io.Writer, sums []types.SourceSummary, fallback bool) {
	t := newTable(w, "Sources")
	t.AppendHeader(table.Row{"Source", "Found", "Status"})
	total := 0
	for _, s := range sums {
		status := "ok"
		switch {
		case s.Error != "":
			status = s.Error
		case s.Blocked:
			status = "blocked"
		case s.Found == 0:
			status = "empty"
		}
		t.AppendRow(table.Row{s.Name, s.Found, status})
		total += s.Found
	}
	t.AppendFooter(table.Row{"Total", total, ""})
	t.Render()
	if fallback {
		fmt.Fprintln(w, "\nNo live results; showing known sponsors from H1B data instead.")
	}
}
