package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{Status: d.Status}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Runs
	rh := RunsHandler{Runner: d.Runner, Status: d.Status, CfgVal: d.CfgVal, BaseCtx: d.BaseCtx, Runs: d.Runs}
	mux.HandleFunc("/runs", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Run,
	}))
	mux.HandleFunc("/runs/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.StatusGet,
	}))

	// History
	hist := HistoryHandler{History: d.History}
	mux.HandleFunc("/history", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hist.Dates,
	}))
	mux.HandleFunc("/history/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hist.ByDate, // expects /history/{date}
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	if d.DB != nil {
		dh := DBHandler{DB: d.DB}
		mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
			http.MethodPost: dh.Checkpoint,
		}))
	}

	return mux
}
