package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumehunt-engine/internal/events"
)

type EventsHandler struct {
	Hub *events.Hub
}

// runFilter narrows the stream to one run or one requester. The zero
// value passes everything.
type runFilter struct {
	runID     string
	requester string
}

func filterFrom(r *http.Request) runFilter {
	q := r.URL.Query()
	return runFilter{
		runID:     strings.TrimSpace(q.Get("run_id")),
		requester: strings.TrimSpace(q.Get("requester")),
	}
}

func (f runFilter) pass(msg string) bool {
	if f.runID == "" && f.requester == "" {
		return true
	}
	var evt events.Event
	if err := json.Unmarshal([]byte(msg), &evt); err != nil {
		return false
	}
	if evt.Type == events.TypePing {
		return true
	}
	var run struct {
		RunID     string `json:"run_id"`
		Requester string `json:"requester"`
	}
	if len(evt.Data) == 0 || json.Unmarshal(evt.Data, &run) != nil {
		return false
	}
	if f.runID != "" && run.RunID != f.runID {
		return false
	}
	return f.requester == "" || run.Requester == f.requester
}

// ServeSSE streams run events. ?run_id= or ?requester= limits the stream
// to one run or to one requester's runs.
func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, codeNoStream, "streaming unsupported")
		return
	}
	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")

	filter := filterFrom(r)
	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	send := func(msg string) {
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
		flusher.Flush()
	}
	send(events.MakeEvent(RequestIDFrom(r.Context()), events.TypePing, 1, nil))

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if filter.pass(msg) {
				send(msg)
			}
		}
	}
}
