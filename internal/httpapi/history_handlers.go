package httpapi

import (
	"net/http"
	"strings"
)

type HistoryHandler struct {
	History History
}

func (h HistoryHandler) Dates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.History.ListDates(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, codeHistory, err.Error())
		return
	}
	if dates == nil {
		dates = []string{}
	}
	writeJSON(w, map[string]any{"dates": dates})
}

// ByDate expects /history/{date}. ?candidates=0 leaves out the records.
func (h HistoryHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/history/"))
	if date == "" || strings.Contains(date, "/") {
		writeError(w, r, http.StatusBadRequest, codeBadDate, "expected /history/dd.mm.yyyy")
		return
	}
	withCandidates := r.URL.Query().Get("candidates") != "0"

	entries, err := h.History.Entries(r.Context(), date, withCandidates)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, codeHistory, err.Error())
		return
	}
	if len(entries) == 0 {
		writeError(w, r, http.StatusNotFound, codeNotFound, "no data for "+date)
		return
	}
	writeJSON(w, map[string]any{"date": date, "result_sets": entries})
}
