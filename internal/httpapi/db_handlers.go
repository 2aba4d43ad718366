package httpapi

import (
	"database/sql"
	"net/http"
	"sync/atomic"
	"time"

	"h1bhunt-engine/internal/store"
)

type DBHandler struct {
	DB     *sql.DB
	CfgVal *atomic.Value
	Now    func() time.Time
}

// Cleanup serves POST /db/cleanup?days=N. days defaults to
// filters.retention_days.
func (h DBHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", loadCfg(h.CfgVal).Filters.RetentionDays)
	if days <= 0 {
		WriteError(w, r, http.StatusBadRequest, "bad_days", "days must be positive")
		return
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	cutoff := now.AddDate(0, 0, -days)
	n, err := store.CleanupOldJobs(r.Context(), h.DB, cutoff)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"deleted": n, "before": cutoff.UTC().Format(time.RFC3339)})
}
