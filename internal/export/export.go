// Package export writes timestamped CSV and JSON files and reads job exports
// back.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"h1bhunt-engine/internal/domain"
)

// ErrNoRecords is returned when there is nothing to write. No file is
// created in that case.
var ErrNoRecords = errors.New("no records to write")

// Export file bases. SaveJobs appends _YYYYMMDD_HHMMSS.
const (
	BaseJobs         = "h1b_jobs"
	BaseSponsorsOnly = "h1b_sponsors_only"
	BaseMyVisaJobs   = "myvisajobs_h1b_sponsors"
	BaseSimple       = "simple_h1b_jobs"
	BaseHonest       = "honest_h1b_sponsors"
)

// Row is anything that flattens to ordered CSV columns.
type Row interface {
	CSVFields() []domain.Field
}

func Stamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// WriteCSV uses the first row's field names as the header. Later rows are
// written in header order; columns they lack are left empty and columns the
// header lacks are dropped.
func WriteCSV[T Row](path string, rows []T) error {
	if len(rows) == 0 {
		return ErrNoRecords
	}

	first := rows[0].CSVFields()
	header := make([]string, len(first))
	for i, f := range first {
		header[i] = f.Name
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		byName := map[string]string{}
		for _, f := range r.CSVFields() {
			byName[f.Name] = f.Value
		}
		rec := make([]string, len(header))
		for i, h := range header {
			rec[i] = byName[h]
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

// WriteJSON writes v with 2-space indentation and without HTML escaping.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// SaveRows writes <dir>/<base>_<stamp>.csv and .json for rows.
func SaveRows[T Row](dir, base string, rows []T, now time.Time) (csvPath, jsonPath string, err error) {
	if len(rows) == 0 {
		return "", "", ErrNoRecords
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}
	name := base + "_" + Stamp(now)
	csvPath = filepath.Join(dir, name+".csv")
	jsonPath = filepath.Join(dir, name+".json")

	if err := WriteCSV(csvPath, rows); err != nil {
		return "", "", err
	}
	if err := WriteJSON(jsonPath, rows); err != nil {
		return csvPath, "", err
	}
	return csvPath, jsonPath, nil
}

func SaveJobs(dir, base string, jobs []domain.JobRecord, now time.Time) (csvPath, jsonPath string, err error) {
	return SaveRows(dir, base, jobs, now)
}

func writeFile(path string, b []byte) error {
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
