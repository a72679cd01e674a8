package scrape

import (
	"resumehunt-engine/internal/config"
	"resumehunt-engine/internal/scrape/robotaua"
	"resumehunt-engine/internal/scrape/types"
	"resumehunt-engine/internal/scrape/workua"
)

// Registry holds the known adapters in run order.
type Registry struct {
	byName map[string]types.Adapter
	order  []types.Adapter
}

func NewRegistry(adapters ...types.Adapter) *Registry {
	r := &Registry{byName: make(map[string]types.Adapter, len(adapters))}
	for _, a := range adapters {
		if _, dup := r.byName[a.Name()]; dup {
			continue
		}
		r.byName[a.Name()] = a
		r.order = append(r.order, a)
	}
	return r
}

// RegistryFromConfig registers every enabled source.
func RegistryFromConfig(cfg config.ScrapeConfig) *Registry {
	var adapters []types.Adapter
	if cfg.Sources.WorkUA.Enabled {
		adapters = append(adapters, workua.New(cfg.Sources.WorkUA.BaseURL))
	}
	if cfg.Sources.RobotaUA.Enabled {
		adapters = append(adapters, robotaua.New(cfg.Sources.RobotaUA.BaseURL))
	}
	return NewRegistry(adapters...)
}

func (r *Registry) Lookup(name string) (types.Adapter, bool) {
	a, ok := r.byName[name]
	return a, ok
}

func (r *Registry) All() []types.Adapter {
	return append([]types.Adapter(nil), r.order...)
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.order))
	for _, a := range r.order {
		out = append(out, a.Name())
	}
	return out
}
