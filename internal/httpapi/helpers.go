package httpapi

import (
	"encoding/json"
	"net/http"
)

// Error codes carried in apiError.
const (
	codeBadJSON        = "invalid_json"
	codeBadDate        = "invalid_date"
	codeNotFound       = "not_found"
	codeForbidden      = "forbidden"
	codeMethod         = "method_not_allowed"
	codeInternal       = "internal_error"
	codeAlreadyRunning = "already_running"
	codeStartFailed    = "start_failed"
	codeHistory        = "history_failed"
	codeCheckpoint     = "checkpoint_failed"
	codeSave           = "save_failed"
	codeReload         = "reload_failed"
	codeNoStream       = "stream_unsupported"
)

type apiError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RunID     string `json:"run_id,omitempty"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, v any) {
	writeStatus(w, http.StatusOK, v)
}

func writeStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeRunError(w, r, status, code, message, "")
}

// writeRunError is writeError for failures tied to a run.
func writeRunError(w http.ResponseWriter, r *http.Request, status int, code, message, runID string) {
	var e apiError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RunID = runID
	e.Error.RequestID = RequestIDFrom(r.Context())
	writeStatus(w, status, e)
}

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		writeError(w, r, http.StatusMethodNotAllowed, codeMethod, "method not allowed")
	}
}
