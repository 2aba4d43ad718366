package httpapi

import (
	"net/http"
	"time"

	"h1bhunt-engine/internal/events"
	"h1bhunt-engine/internal/poll"
)

type HealthHandler struct {
	Hub    *events.Hub
	Poller *poll.Poller
	Now    func() time.Time
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"ok": true}
	if h.Now != nil {
		out["time"] = h.Now().Format(time.RFC3339)
	}
	if h.Hub != nil {
		out["subscribers"] = h.Hub.Subscribers()
	}
	if h.Poller != nil {
		out["scrape_running"] = h.Poller.Running()
	}
	writeJSON(w, out)
}
