package scrape

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/fetch"
	"resumehunt-engine/internal/scrape/types"
)

// DefaultMaxPages bounds pagination when the site never runs dry.
const DefaultMaxPages = 1000

type state int

const (
	stateInit state = iota
	stateFetchingPage
	stateExtractingLinks
	stateFetchingCandidates
	stateAccumulating
	stateDone
	stateAborted
)

func (s state) String() string {
	return [...]string{"init", "fetching_page", "extracting_links", "fetching_candidates", "accumulating", "done", "aborted"}[s]
}

// Pipeline walks one adapter's listing pages in order and gathers every
// candidate it can.
type Pipeline struct {
	Fetchers    fetch.Set
	Coordinator Coordinator
	Retry       RetryPolicy
	MaxPages    int
}

// run is the mutable state of a single Pipeline.Run.
type run struct {
	page      int
	pageCount int
	markup    string
	links     []string
	batch     []domain.CandidateRecord
	res       types.ScrapeResult
}

// Run never fails outright: listing fetch errors end the run as aborted
// with whatever was gathered so far.
func (p *Pipeline) Run(ctx context.Context, a types.Adapter, q types.Query) types.ScrapeResult {
	log := zap.L().With(zap.String("source", a.Name()), zap.String("query", q.Label))
	r := &run{res: types.ScrapeResult{Source: a.Name(), Label: q.Label}}

	maxPages := p.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	f, err := p.Fetchers.For(a.Mode())
	if err != nil {
		r.res.Termination = types.TerminationSkipped
		r.res.Err = err
		return r.res
	}

	st := stateInit
	for st != stateDone && st != stateAborted {
		prev := st
		switch st {
		case stateInit:
			r.page = 1
			st = stateFetchingPage

		case stateFetchingPage:
			if r.page > maxPages {
				log.Warn("page ceiling reached", zap.Int("max_pages", maxPages))
				r.res.Termination = types.TerminationCeiling
				st = stateDone
				break
			}
			if r.pageCount > 0 && r.page > r.pageCount {
				r.res.Termination = types.TerminationExhausted
				st = stateDone
				break
			}
			url := a.BuildSearchURL(q, r.page)
			markup, err := fetchWithRetry(ctx, p.Retry, f, url, fetch.Options{WaitSelector: a.ListSelector()})
			if err != nil {
				log.Error("listing page fetch failed", zap.Int("page", r.page), zap.String("url", url), zap.Error(err))
				r.res.Termination = types.TerminationAborted
				r.res.Err = err
				st = stateAborted
				break
			}
			r.markup = markup
			r.res.Pages++
			if r.page == 1 {
				if n, ok := a.PageCount(markup); ok {
					r.pageCount = n
					log.Info("listing page count", zap.Int("pages", n))
				}
			}
			st = stateExtractingLinks

		case stateExtractingLinks:
			links, err := a.ExtractResultLinks(r.markup)
			r.markup = ""
			switch {
			case errors.Is(err, types.ErrEndOfResults):
				r.res.Termination = types.TerminationExhausted
				st = stateDone
			case errors.Is(err, types.ErrNoResultsContainer):
				log.Warn("results container missing, stopping", zap.Int("page", r.page))
				r.res.Termination = types.TerminationExhausted
				st = stateDone
			case err != nil:
				log.Error("listing page unreadable", zap.Int("page", r.page), zap.Error(err))
				r.res.Termination = types.TerminationAborted
				r.res.Err = err
				st = stateAborted
			default:
				r.links = links
				r.res.Links += len(links)
				st = stateFetchingCandidates
			}

		case stateFetchingCandidates:
			recs, failures := p.Coordinator.Collect(ctx, f, a, r.links)
			r.batch = recs
			r.res.Failures += failures
			st = stateAccumulating

		case stateAccumulating:
			r.res.Candidates = append(r.res.Candidates, r.batch...)
			log.Info("page done",
				zap.Int("page", r.page),
				zap.Int("links", len(r.links)),
				zap.Int("candidates", len(r.batch)),
				zap.Int("total", len(r.res.Candidates)),
			)
			r.links, r.batch = nil, nil
			r.page++
			st = stateFetchingPage
		}
		if st != prev {
			log.Debug("pipeline transition", zap.Stringer("from", prev), zap.Stringer("to", st), zap.Int("page", r.page))
		}
	}

	log.Info("source finished",
		zap.String("termination", string(r.res.Termination)),
		zap.Int("pages", r.res.Pages),
		zap.Int("candidates", len(r.res.Candidates)),
		zap.Int("failures", r.res.Failures),
	)
	return r.res
}
