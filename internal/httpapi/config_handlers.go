package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"

	"resumehunt-engine/internal/config"
)

type ConfigHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cur := h.CfgVal.Load().(config.Config)
	writeJSON(w, cur)
}

func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var incoming config.Config
	if err := dec.Decode(&incoming); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadJSON, "invalid JSON: "+err.Error())
		return
	}
	if dec.More() {
		writeError(w, r, http.StatusBadRequest, codeBadJSON, "invalid JSON: trailing data")
		return
	}

	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		writeStatus(w, http.StatusBadRequest, vr)
		return
	}

	if err := config.SaveAtomic(h.UserCfgPath, normalized); err != nil {
		writeError(w, r, http.StatusInternalServerError, codeSave, err.Error())
		return
	}

	saved, err := h.LoadCfg()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, codeReload, "saved but reload failed: "+err.Error())
		return
	}
	h.CfgVal.Store(saved)
	zap.L().Info("config updated", zap.String("path", h.UserCfgPath))
	writeJSON(w, saved)
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.UserCfgPath)
	writeJSON(w, map[string]any{"path": abs})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	cur := h.CfgVal.Load().(config.Config)
	_, vr := config.NormalizeAndValidate(cur)

	writeJSON(w, vr)
}
