package httpapi

import (
	"net/http"
)

type HealthHandler struct {
	Status StatusSource
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"ok": true}
	if h.Status != nil {
		out["running"] = h.Status.Snapshot().Running
	}
	writeJSON(w, out)
}
