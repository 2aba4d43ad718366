package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"h1bhunt-engine/internal/domain"

	"github.com/kaptinlin/jsonrepair"
)

// ReadJobsCSV reads a file written by WriteCSV for job records.
func ReadJobsCSV(path string) ([]domain.JobRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, nil
	}

	header := recs[0]
	out := make([]domain.JobRecord, 0, len(recs)-1)
	for n, rec := range recs[1:] {
		var j domain.JobRecord
		for i, name := range header {
			if i >= len(rec) {
				break
			}
			if err := j.SetCSVField(name, rec[i]); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", path, n+2, err)
			}
		}
		out = append(out, j)
	}
	return out, nil
}

// ReadJobsJSON reads a JSON export. Truncated or hand-edited files are run
// through jsonrepair before giving up.
func ReadJobsJSON(path string) ([]domain.JobRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var out []domain.JobRecord
	err = json.Unmarshal(b, &out)
	if err == nil {
		return out, nil
	}

	fixed, rerr := jsonrepair.JSONRepair(string(b))
	if rerr != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	out = nil
	if err := json.Unmarshal([]byte(fixed), &out); err != nil {
		return nil, fmt.Errorf("read %s after repair: %w", path, err)
	}
	return out, nil
}
