package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"resumehunt-engine/internal/config"
	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/scrape"
)

type RunsHandler struct {
	Runner  Runner
	Status  StatusSource
	CfgVal  *atomic.Value // config.Config
	BaseCtx context.Context
	Runs    *RunGroup
}

// RunGroup tracks background work (runs and housekeeping) so shutdown can
// wait for it before the store and browser are closed.
type RunGroup struct {
	wg sync.WaitGroup
}

func (g *RunGroup) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Wait blocks until every run has returned or timeout passes. It reports
// whether all runs returned.
func (g *RunGroup) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-done:
		return true
	case <-t.C:
		return false
	}
}

// runRequest is the search criteria plus who asked for it.
type runRequest struct {
	Requester string `json:"requester"`
	domain.SearchCriteria
}

// Run starts a search in the background and answers with its id.
func (h RunsHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadJSON, "invalid JSON: "+err.Error())
		return
	}
	requester := strings.TrimSpace(req.Requester)
	crit := domain.NewSearchCriteria(req.SearchCriteria)

	runID, err := h.Runner.Start(requester)
	if errors.Is(err, scrape.ErrAlreadyRunning) {
		var active string
		if h.Status != nil {
			active, _ = h.Status.ActiveRun(requester)
		}
		writeRunError(w, r, http.StatusConflict, codeAlreadyRunning, "a run is already active for this requester", active)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, codeStartFailed, err.Error())
		return
	}

	base := h.BaseCtx
	if base == nil {
		base = context.Background()
	}
	timeout := time.Duration(config.Default().Scrape.RunTimeoutMins) * time.Minute
	if h.CfgVal != nil {
		if cfg, ok := h.CfgVal.Load().(config.Config); ok && cfg.Scrape.RunTimeoutMins > 0 {
			timeout = time.Duration(cfg.Scrape.RunTimeoutMins) * time.Minute
		}
	}

	runs := h.Runs
	if runs == nil {
		runs = &RunGroup{}
	}
	runs.Go(func() {
		ctx, cancel := context.WithTimeout(base, timeout)
		defer cancel()
		if _, err := h.Runner.Execute(ctx, runID, requester, crit); err != nil {
			zap.L().Warn("background run finished with error", zap.String("run_id", runID), zap.Error(err))
		}
	})

	writeStatus(w, http.StatusAccepted, map[string]any{
		"ok":     true,
		"run_id": runID,
		"query":  crit.Label(),
	})
}

func (h RunsHandler) StatusGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Status.Snapshot())
}
