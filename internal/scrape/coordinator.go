package scrape

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/fetch"
	"resumehunt-engine/internal/scrape/types"
)

// Coordinator fetches and extracts the candidates of one listing page with
// a bounded number of workers.
type Coordinator struct {
	Workers int
	Retry   RetryPolicy
}

// accumulator keeps results in link order regardless of finish order.
type accumulator struct {
	mu       sync.Mutex
	slots    []*domain.CandidateRecord
	failures int
}

func (a *accumulator) put(i int, rec domain.CandidateRecord) {
	a.mu.Lock()
	a.slots[i] = &rec
	a.mu.Unlock()
}

func (a *accumulator) fail() {
	a.mu.Lock()
	a.failures++
	a.mu.Unlock()
}

func (a *accumulator) records() []domain.CandidateRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.CandidateRecord, 0, len(a.slots))
	for _, r := range a.slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// Collect returns one record per link that could be fetched and parsed,
// in link order, plus the number of links that failed. A failed link never
// stops the others.
func (c Coordinator) Collect(ctx context.Context, f fetch.Fetcher, a types.Adapter, links []string) ([]domain.CandidateRecord, int) {
	acc := &accumulator{slots: make([]*domain.CandidateRecord, len(links))}

	var g errgroup.Group
	g.SetLimit(max(c.Workers, 1))

	for i, link := range links {
		g.Go(func() error {
			markup, err := fetchWithRetry(ctx, c.Retry, f, link, fetch.Options{WaitSelector: a.DetailSelector()})
			if err != nil {
				zap.L().Warn("candidate fetch failed",
					zap.String("source", a.Name()),
					zap.String("url", link),
					zap.Error(err),
				)
				acc.fail()
				return nil // best-effort: don't cancel siblings
			}
			rec, err := a.ExtractCandidate(markup, link)
			if err != nil {
				zap.L().Warn("candidate extraction failed",
					zap.String("source", a.Name()),
					zap.String("url", link),
					zap.Error(err),
				)
				acc.fail()
				return nil
			}
			acc.put(i, rec)
			return nil
		})
	}

	_ = g.Wait()
	return acc.records(), acc.failures
}
