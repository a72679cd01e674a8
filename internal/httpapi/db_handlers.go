package httpapi

import (
	"net"
	"net/http"
)

type DBHandler struct {
	DB Checkpointer
}

// Checkpoint flushes the WAL. Only local callers may ask for it.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "127.0.0.1" && host != "::1" && host != "localhost" {
		writeError(w, r, http.StatusForbidden, codeForbidden, "checkpoint is only allowed from localhost")
		return
	}

	if err := h.DB.Checkpoint(r.Context()); err != nil {
		writeError(w, r, http.StatusInternalServerError, codeCheckpoint, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
