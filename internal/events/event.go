package events

import (
	"encoding/json"
	"time"
)

// Event types published on the hub.
const (
	TypePing        = "ping"
	TypeRunStarted  = "run_started"
	TypeRunFinished = "run_finished"
	TypeSourceDone  = "source_finished"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// RunStarted is the payload of run_started.
type RunStarted struct {
	RunID     string   `json:"run_id"`
	Requester string   `json:"requester,omitempty"`
	Label     string   `json:"query"`
	Sources   []string `json:"sources"`
}

// SourceFinished is the payload of source_finished.
type SourceFinished struct {
	RunID       string `json:"run_id"`
	Requester   string `json:"requester,omitempty"`
	Source      string `json:"source"`
	Termination string `json:"termination"`
	Pages       int    `json:"pages"`
	Candidates  int    `json:"candidates"`
	Failures    int    `json:"failures"`
}

// RunFinished is the payload of run_finished.
type RunFinished struct {
	RunID      string `json:"run_id"`
	Requester  string `json:"requester,omitempty"`
	DateKey    string `json:"date"`
	Candidates int    `json:"candidates"`
	Error      string `json:"error,omitempty"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
