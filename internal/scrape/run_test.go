package scrape

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumehunt-engine/internal/config"
	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/events"
	"resumehunt-engine/internal/fetch"
	"resumehunt-engine/internal/rank"
	"resumehunt-engine/internal/scrape/types"
)

type appended struct {
	dateKey, source, label string
	rs                     domain.ResultSet
}

type memSink struct {
	mu   sync.Mutex
	sets []appended
	err  error
}

func (s *memSink) Append(_ context.Context, dateKey, source, label string, rs domain.ResultSet) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.sets = append(s.sets, appended{dateKey, source, label, rs})
	return "id-" + source, nil
}

type recorder struct {
	mu    sync.Mutex
	types []string
}

func (r *recorder) PublishEvent(_, typ string, _ any) {
	r.mu.Lock()
	r.types = append(r.types, typ)
	r.mu.Unlock()
}

func newService(reg *Registry, f *fakeFetcher, sink Sink, pub Publisher) *Service {
	return &Service{
		Registry: reg,
		Pipeline: newPipeline(f, 0),
		Scorer:   rank.New(config.Default().Scoring),
		Sink:     sink,
		Events:   pub,
		Status:   NewStatusTracker(),
		Now:      func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) },
	}
}

func TestServiceRun(t *testing.T) {
	reg := NewRegistry(
		&fakeAdapter{name: "one", pages: map[int][]string{1: links("a", 3)}},
		&fakeAdapter{name: "two", emptyErr: true},
	)
	sink := &memSink{}
	pub := &recorder{}
	svc := newService(reg, newFakeFetcher(), sink, pub)

	crit := domain.NewSearchCriteria(domain.SearchCriteria{Keywords: []string{"Go", "dev"}})
	rep, err := svc.Run(context.Background(), "alice", crit)
	require.NoError(t, err)

	assert.Equal(t, "05.03.2024", rep.DateKey)
	assert.Equal(t, "Go dev", rep.Label)
	assert.Equal(t, 3, rep.Added)
	require.Len(t, rep.Sources, 2)
	assert.Equal(t, types.TerminationExhausted, rep.Sources[0].Termination)
	assert.Equal(t, "id-ONE", rep.Sources[0].ResultSetID)
	assert.Equal(t, types.TerminationSkipped, rep.Sources[1].Termination)

	require.Len(t, sink.sets, 1)
	assert.Equal(t, appended{"05.03.2024", "ONE", "Go dev", sink.sets[0].rs}, sink.sets[0])
	assert.Len(t, sink.sets[0].rs, 3)

	assert.Equal(t, []string{events.TypeRunStarted, events.TypeSourceDone, events.TypeRunFinished}, pub.types)

	st := svc.Status.Snapshot()
	assert.False(t, st.Running)
	assert.Equal(t, 3, st.LastAdded)
	assert.NotEmpty(t, st.LastOkAt)
}

func TestServiceStoresEmptyExhaustedRun(t *testing.T) {
	reg := NewRegistry(&fakeAdapter{name: "one"})
	sink := &memSink{}
	svc := newService(reg, newFakeFetcher(), sink, nil)

	rep, err := svc.Run(context.Background(), "", domain.SearchCriteria{})
	require.NoError(t, err)
	assert.Zero(t, rep.Added)
	require.Len(t, sink.sets, 1)
	assert.Equal(t, "ALL", sink.sets[0].label)
}

func TestServiceNothingGathered(t *testing.T) {
	reg := NewRegistry(&fakeAdapter{name: "one"})
	f := newFakeFetcher()
	f.failures["list:1"] = -1
	sink := &memSink{}
	svc := newService(reg, f, sink, nil)

	rep, err := svc.Run(context.Background(), "bob", domain.SearchCriteria{})
	assert.True(t, errors.Is(err, ErrNothingGathered))
	assert.Empty(t, sink.sets)
	assert.Equal(t, types.TerminationAborted, rep.Sources[0].Termination)
	assert.NotEmpty(t, svc.Status.Snapshot().LastError)
}

func TestServiceSinkError(t *testing.T) {
	reg := NewRegistry(&fakeAdapter{name: "one", pages: map[int][]string{1: links("a", 1)}})
	svc := newService(reg, newFakeFetcher(), &memSink{err: eris.New("disk full")}, nil)

	rep, err := svc.Run(context.Background(), "", domain.SearchCriteria{})
	assert.Error(t, err)
	assert.Zero(t, rep.Added)
	assert.Equal(t, 1, rep.Sources[0].Candidates)
}

func TestServiceRejectsSecondRunForRequester(t *testing.T) {
	svc := newService(NewRegistry(), newFakeFetcher(), nil, nil)

	id, err := svc.Start("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = svc.Start("alice")
	assert.True(t, errors.Is(err, ErrAlreadyRunning))

	_, err = svc.Start("bob")
	assert.NoError(t, err)

	_, _ = svc.Execute(context.Background(), id, "alice", domain.SearchCriteria{})
	_, err = svc.Start("alice")
	assert.NoError(t, err)
}

func TestStatusTracker(t *testing.T) {
	tr := NewStatusTracker()
	assert.True(t, tr.Begin("b", "r1"))
	assert.True(t, tr.Begin("a", "r2"))
	assert.False(t, tr.Begin("a", "r3"))

	id, ok := tr.ActiveRun("a")
	assert.True(t, ok)
	assert.Equal(t, "r2", id)

	st := tr.Snapshot()
	assert.True(t, st.Running)
	assert.Equal(t, 2, st.Active)
	assert.Equal(t, []string{"a", "b"}, st.Requesters)

	tr.End("a", 7, nil)
	tr.End("b", 0, eris.New("boom"))
	st = tr.Snapshot()
	assert.False(t, st.Running)
	assert.Equal(t, "boom", st.LastError)
	assert.NotEmpty(t, st.LastOkAt)
}

func TestLiveRunnerAppliesConfigChangesToNextRun(t *testing.T) {
	sink := &memSink{}
	cfg := config.Default()
	cfg.Scrape.Retry = config.RetryConfig{Attempts: 1}

	live := &LiveRunner{
		Builder: Builder{
			Fetchers: fetch.Set{Plain: newFakeFetcher()},
			Sink:     sink,
			Status:   NewStatusTracker(),
			Registry: func(config.ScrapeConfig) *Registry {
				return NewRegistry(&fakeAdapter{name: domain.SourceWorkUA, pages: map[int][]string{1: links("a", 1)}})
			},
		},
		Config: func() config.Config { return cfg },
	}

	run := func() {
		id, err := live.Start("alice")
		require.NoError(t, err)
		_, err = live.Execute(context.Background(), id, "alice", domain.SearchCriteria{})
		require.NoError(t, err)
	}

	run()
	cfg.Scoring.WorkUA = config.Weights{Skills: 5}
	run()

	require.Len(t, sink.sets, 2)
	assert.InDelta(t, 0.1, sink.sets[0].rs[0].Mark, 1e-9)
	assert.InDelta(t, 5.0, sink.sets[1].rs[0].Mark, 1e-9)
}
