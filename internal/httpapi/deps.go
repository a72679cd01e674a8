package httpapi

import (
	"context"
	"sync/atomic"

	"resumehunt-engine/internal/config"
	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/events"
	"resumehunt-engine/internal/scrape"
	"resumehunt-engine/internal/store"
)

// Runner starts and executes searches. *scrape.Service satisfies it.
type Runner interface {
	Start(requester string) (string, error)
	Execute(ctx context.Context, runID, requester string, c domain.SearchCriteria) (scrape.RunReport, error)
}

// StatusSource reports run activity. *scrape.StatusTracker satisfies it.
type StatusSource interface {
	Snapshot() scrape.ScrapeStatus
	ActiveRun(requester string) (string, bool)
}

// History reads stored result sets. *store.DB satisfies it.
type History interface {
	ListDates(ctx context.Context) ([]string, error)
	Entries(ctx context.Context, dateKey string, withCandidates bool) ([]store.Entry, error)
}

type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

type Deps struct {
	Hub *events.Hub

	// Atomic store of config.Config
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Runner  Runner
	Status  StatusSource
	History History
	DB      Checkpointer

	// BaseCtx bounds background runs; cancelling it stops them.
	BaseCtx context.Context
	// Runs tracks background runs for shutdown. Optional.
	Runs *RunGroup
}
