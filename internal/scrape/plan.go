package scrape

import (
	"errors"

	"go.uber.org/zap"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/scrape/types"
)

// Planned is one adapter with its query, or the reason it was skipped.
type Planned struct {
	Adapter types.Adapter
	Query   types.Query
	Err     error
}

// Plan builds a query for every requested adapter: all of them in registry
// order when c names no sources, otherwise the named ones in the order
// given. Unknown names are logged and dropped. Adapters whose query comes
// out empty are returned with Err set.
func Plan(reg *Registry, c domain.SearchCriteria) []Planned {
	adapters := reg.All()
	if len(c.Sources) > 0 {
		adapters = adapters[:0]
		for _, name := range c.Sources {
			a, ok := reg.Lookup(name)
			if !ok {
				zap.L().Warn("unknown or disabled source", zap.String("source", name), zap.Strings("known", reg.Names()))
				continue
			}
			adapters = append(adapters, a)
		}
	}

	var out []Planned
	for _, a := range adapters {
		q, err := a.BuildQuery(c)
		if err != nil {
			if errors.Is(err, types.ErrNormalizationEmpty) {
				zap.L().Warn("no usable criteria for source, skipping", zap.String("source", a.Name()))
			}
			out = append(out, Planned{Adapter: a, Err: err})
			continue
		}
		out = append(out, Planned{Adapter: a, Query: q})
	}
	return out
}
