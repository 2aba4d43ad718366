package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"h1bhunt-engine/internal/events"
	"h1bhunt-engine/internal/store"
)

type JobsHandler struct {
	DB  *sql.DB
	Hub *events.Hub
	Now func() time.Time
}

var (
	validSponsor = map[string]bool{"": true, "yes": true, "no": true, "unknown": true}
	validWindow  = map[string]bool{"": true, "24h": true, "7d": true, "all": true}
)

// List serves GET /jobs?sponsor=yes|no|unknown&window=24h|7d|all&sort=date|company|title|confidence&limit=N.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sponsor := strings.ToLower(q.Get("sponsor"))
	window := strings.ToLower(q.Get("window"))
	if !validSponsor[sponsor] {
		WriteError(w, r, http.StatusBadRequest, "bad_sponsor", "sponsor must be yes, no or unknown")
		return
	}
	if !validWindow[window] {
		WriteError(w, r, http.StatusBadRequest, "bad_window", "window must be 24h, 7d or all")
		return
	}

	opts := store.ListJobsOpts{
		Sponsor: sponsor,
		Window:  window,
		Sort:    q.Get("sort"),
		Limit:   queryInt(r, "limit", 500),
	}
	if h.Now != nil {
		opts.Now = h.Now()
	}
	jobs, err := store.ListJobs(r.Context(), h.DB, opts)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if jobs == nil {
		jobs = []store.Job{}
	}
	writeJSON(w, jobs)
}

// DeleteByPath serves DELETE /jobs/{id}.
func (h JobsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/jobs/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "invalid id")
		return
	}

	ok, err := store.DeleteJob(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such job")
		return
	}

	if h.Hub != nil {
		h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeJobDeleted, map[string]any{"id": id})
	}
	writeJSON(w, map[string]any{"ok": true, "id": id})
}
