package scrape

import (
	"context"

	"resumehunt-engine/internal/config"
	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/fetch"
	"resumehunt-engine/internal/rank"
)

// Builder assembles a Service from one config snapshot. The fetchers,
// sink, publisher and status tracker are shared by every Service it builds.
type Builder struct {
	Fetchers fetch.Set
	Sink     Sink
	Events   Publisher
	Status   *StatusTracker

	// Registry picks the adapters; RegistryFromConfig when nil.
	Registry func(config.ScrapeConfig) *Registry
}

func (b Builder) Build(c config.Config) *Service {
	reg := RegistryFromConfig
	if b.Registry != nil {
		reg = b.Registry
	}
	retry := RetryPolicyFrom(c.Scrape.Retry)
	return &Service{
		Registry: reg(c.Scrape),
		Pipeline: &Pipeline{
			Fetchers:    b.Fetchers,
			Coordinator: Coordinator{Workers: c.Scrape.Workers, Retry: retry},
			Retry:       retry,
			MaxPages:    c.Scrape.MaxPages,
		},
		Scorer: rank.New(c.Scoring),
		Sink:   b.Sink,
		Events: b.Events,
		Status: b.Status,
	}
}

// LiveRunner builds a fresh Service from Config for every run, so a saved
// config applies to the next run without a restart. Fetcher timeouts and
// rate limits are fixed when the fetchers are built.
type LiveRunner struct {
	Builder
	Config func() config.Config
}

func (l *LiveRunner) Start(requester string) (string, error) {
	return l.Build(l.Config()).Start(requester)
}

func (l *LiveRunner) Execute(ctx context.Context, runID, requester string, c domain.SearchCriteria) (RunReport, error) {
	return l.Build(l.Config()).Execute(ctx, runID, requester, c)
}
