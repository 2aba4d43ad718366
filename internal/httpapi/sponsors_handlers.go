package httpapi

import (
	"database/sql"
	"net/http"
	"strings"

	"h1bhunt-engine/internal/catalog"
	"h1bhunt-engine/internal/store"
)

const defaultSearchTitle = "DevOps Engineer"

type SponsorsHandler struct {
	DB *sql.DB
}

type sponsorMatch struct {
	Query string             `json:"query"`
	Match catalog.SponsorRow `json:"match"`
}

// List serves GET /sponsors. With ?q= it resolves one company name against
// the catalog; with ?category= it narrows the list.
func (h SponsorsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if name := strings.TrimSpace(q.Get("q")); name != "" {
		rec, ok := catalog.Match(name)
		if !ok {
			WriteError(w, r, http.StatusNotFound, "not_found", "no catalog sponsor matches "+name)
			return
		}
		writeJSON(w, sponsorMatch{Query: name, Match: catalog.RowFor(rec)})
		return
	}

	cat := strings.TrimSpace(q.Get("category"))
	rows := []catalog.SponsorRow{}
	for _, row := range catalog.SponsorRows() {
		if cat == "" || strings.EqualFold(row.Category, cat) {
			rows = append(rows, row)
		}
	}
	writeJSON(w, rows)
}

// Employers serves GET /employers: visa-data rows collected by past runs,
// or the built-in list when none have been stored yet.
func (h SponsorsHandler) Employers(w http.ResponseWriter, r *http.Request) {
	emps, err := store.ListEmployers(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	source := "store"
	if len(emps) == 0 {
		emps = catalog.FallbackEmployers(defaultSearchTitle, queryInt(r, "min_salary", 0))
		source = "fallback"
	}
	writeJSON(w, map[string]any{"source": source, "employers": emps})
}
