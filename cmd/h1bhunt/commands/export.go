package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/export"
)

func saveJobs(w io.Writer, dir, base string, jobs []domain.JobRecord, now time.Time) error {
	csvPath, jsonPath, err := export.SaveJobs(dir, base, jobs, now)
	if errors.Is(err, export.ErrNoRecords) {
		fmt.Fprintf(w, "No %s records to save.\n", base)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Saved %d records to %s and %s\n", len(jobs), csvPath, jsonPath)
	return nil
}

func sponsorsOnly(jobs []domain.JobRecord) []domain.JobRecord {
	var out []domain.JobRecord
	for _, j := range jobs {
		if j.SponsorsH1B == domain.SponsorYes {
			out = append(out, j)
		}
	}
	return out
}
