package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"

	"h1bhunt-engine/internal/poll"
)

type ScrapeHandler struct {
	Poller *poll.Poller
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Poller.Status())
}

// Run starts a pipeline pass in the background and answers 202 right away.
// Progress arrives on /events tagged with this request's id.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.Poller.Running() {
		WriteError(w, r, http.StatusConflict, "busy", "a scrape is already running")
		return
	}

	reqID := RequestIDFrom(r.Context())
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := h.Poller.Run(ctx, reqID); err != nil && !errors.Is(err, poll.ErrBusy) {
			log.Printf("[scrape] request_id=%s err=%v", reqID, err)
		}
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "request_id": reqID})
}
