// Package events carries pipeline notifications to SSE subscribers.
package events

import (
	"encoding/json"
	"time"
)

const (
	TypeScrapeStarted  = "scrape.started"
	TypeScrapeFinished = "scrape.finished"
	TypeScrapeFailed   = "scrape.failed"
	TypeJobNew         = "job.new"
	TypeJobDeleted     = "job.deleted"
)

// Version is bumped when an event payload changes shape.
const Version = 1

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Encode renders one event as the JSON line sent to subscribers. Payloads
// that fail to marshal are sent without data.
func Encode(at time.Time, reqID, typ string, data any) string {
	e := Event{Type: typ, Version: Version, At: at.UTC(), RequestID: reqID}
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			e.Data = b
		}
	}
	b, _ := json.Marshal(e)
	return string(b)
}
