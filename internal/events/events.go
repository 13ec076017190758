package events

import (
	"encoding/json"
	"time"
)

const (
	TypePing             = "ping"
	TypeRunStarted       = "run_started"
	TypeRunFinished      = "run_finished"
	TypeListingsNotified = "listings_notified"
)

type Event struct {
	Type    string          `json:"type"`
	Version int             `json:"v"`
	At      time.Time       `json:"at"`
	RunID   string          `json:"run_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Make encodes one event envelope for the SSE stream.
func Make(runID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	b, _ := json.Marshal(Event{
		Type:    typ,
		Version: 1,
		At:      time.Now().UTC(),
		RunID:   runID,
		Data:    raw,
	})
	return string(b)
}
