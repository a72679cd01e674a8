package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/events"
	"resumehunt-engine/internal/rank"
	"resumehunt-engine/internal/scrape/types"
	"resumehunt-engine/internal/store"
)

// ErrAlreadyRunning is returned when a requester starts a second run.
var ErrAlreadyRunning = eris.New("a run is already active for this requester")

// ErrNothingGathered means no source produced a result set.
var ErrNothingGathered = eris.New("no source produced results")

// Sink receives every scored result set.
type Sink interface {
	Append(ctx context.Context, dateKey, source, label string, rs domain.ResultSet) (string, error)
}

// Publisher receives run events.
type Publisher interface {
	PublishEvent(reqID, typ string, data any)
}

// Service runs a search end to end: plan, scrape, score, store.
type Service struct {
	Registry *Registry
	Pipeline *Pipeline
	Scorer   *rank.Scorer
	Sink     Sink
	Events   Publisher
	Status   *StatusTracker
	Now      func() time.Time
}

// SourceReport summarises one adapter's part of a run.
type SourceReport struct {
	Source      string            `json:"source"`
	StoreName   string            `json:"store_name"`
	Termination types.Termination `json:"termination"`
	Pages       int               `json:"pages"`
	Links       int               `json:"links"`
	Candidates  int               `json:"candidates"`
	Failures    int               `json:"failures"`
	ResultSetID string            `json:"result_set_id,omitempty"`
	Error       string            `json:"error,omitempty"`
	Results     domain.ResultSet  `json:"-"`
}

type RunReport struct {
	RunID     string         `json:"run_id"`
	Requester string         `json:"requester,omitempty"`
	DateKey   string         `json:"date"`
	Label     string         `json:"query"`
	Sources   []SourceReport `json:"sources"`
	Added     int            `json:"added"`
}

// Start reserves a run for requester and returns its id. Callers that
// start with Start must finish with Execute.
func (s *Service) Start(requester string) (string, error) {
	id := uuid.NewString()
	if s.Status != nil && !s.Status.Begin(requester, id) {
		return "", ErrAlreadyRunning
	}
	return id, nil
}

// Run is Start followed by Execute.
func (s *Service) Run(ctx context.Context, requester string, c domain.SearchCriteria) (RunReport, error) {
	id, err := s.Start(requester)
	if err != nil {
		return RunReport{}, err
	}
	return s.Execute(ctx, id, requester, c)
}

// Execute runs every planned adapter in turn. Partial failures are logged
// and reported; the error is set only when nothing at all was gathered or
// a result set could not be stored.
func (s *Service) Execute(ctx context.Context, runID, requester string, c domain.SearchCriteria) (rep RunReport, err error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	rep = RunReport{
		RunID:     runID,
		Requester: requester,
		DateKey:   now().Format(store.DateKeyLayout),
		Label:     c.Label(),
	}
	log := zap.L().With(zap.String("run_id", runID), zap.String("query", rep.Label))

	plan := Plan(s.Registry, c)
	names := make([]string, 0, len(plan))
	for _, p := range plan {
		names = append(names, p.Adapter.Name())
	}
	s.publish(events.TypeRunStarted, events.RunStarted{RunID: runID, Requester: requester, Label: rep.Label, Sources: names})
	log.Info("run started", zap.Strings("sources", names))

	defer func() {
		if s.Status != nil {
			s.Status.End(requester, rep.Added, err)
		}
		fin := events.RunFinished{RunID: runID, Requester: requester, DateKey: rep.DateKey, Candidates: rep.Added}
		if err != nil {
			fin.Error = err.Error()
		}
		s.publish(events.TypeRunFinished, fin)
		log.Info("run finished", zap.Int("added", rep.Added), zap.Error(err))
	}()

	gathered := false
	var errs []error
	for _, p := range plan {
		sr := SourceReport{Source: p.Adapter.Name(), StoreName: p.Adapter.StoreName()}
		if p.Err != nil {
			sr.Termination = types.TerminationSkipped
			sr.Error = p.Err.Error()
			rep.Sources = append(rep.Sources, sr)
			continue
		}
		if ctx.Err() != nil {
			sr.Termination = types.TerminationAborted
			sr.Error = ctx.Err().Error()
			rep.Sources = append(rep.Sources, sr)
			continue
		}

		res := s.Pipeline.Run(ctx, p.Adapter, p.Query)
		sr.Termination = res.Termination
		sr.Pages, sr.Links, sr.Failures = res.Pages, res.Links, res.Failures
		if res.Err != nil {
			sr.Error = res.Err.Error()
		}

		ranked := s.Scorer.Rank(p.Adapter.Name(), res.Candidates)
		sr.Candidates = len(ranked)
		sr.Results = ranked

		if res.Termination != types.TerminationSkipped && (len(ranked) > 0 || res.Termination != types.TerminationAborted) {
			gathered = true
			if s.Sink != nil {
				id, serr := s.Sink.Append(ctx, rep.DateKey, p.Adapter.StoreName(), p.Query.Label, ranked)
				if serr != nil {
					log.Error("store result set failed", zap.String("source", sr.Source), zap.Error(serr))
					errs = append(errs, serr)
					sr.Error = serr.Error()
				} else {
					sr.ResultSetID = id
					rep.Added += len(ranked)
				}
			} else {
				rep.Added += len(ranked)
			}
		}

		s.publish(events.TypeSourceDone, events.SourceFinished{
			RunID:       runID,
			Requester:   requester,
			Source:      sr.Source,
			Termination: string(sr.Termination),
			Pages:       sr.Pages,
			Candidates:  sr.Candidates,
			Failures:    sr.Failures,
		})
		rep.Sources = append(rep.Sources, sr)
	}

	if len(errs) > 0 {
		return rep, eris.Wrap(errors.Join(errs...), "run: store results")
	}
	if !gathered {
		return rep, ErrNothingGathered
	}
	return rep, nil
}

func (s *Service) publish(typ string, data any) {
	if s.Events != nil {
		s.Events.PublishEvent("", typ, data)
	}
}
