package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumehunt-engine/internal/config"
	"resumehunt-engine/internal/domain"
)

func TestMark(t *testing.T) {
	rec := domain.CandidateRecord{
		Education:  []domain.EducationEntry{{Title: "KPI"}, {Title: "LNU"}},
		JobHistory: []domain.JobHistoryEntry{{Title: "Dev"}},
		Languages:  []string{"English"},
	}
	assert.InDelta(t, 1.2, Mark(config.DefaultWeights(), rec), 1e-9)
}

func TestMark_BlankSkillsIgnored(t *testing.T) {
	rec := domain.CandidateRecord{Skills: []string{"Go", "", "  ", "SQL"}}
	assert.InDelta(t, 0.2, Mark(config.DefaultWeights(), rec), 1e-9)
}

func TestMark_Empty(t *testing.T) {
	assert.Zero(t, Mark(config.DefaultWeights(), domain.CandidateRecord{}))
}

func TestRank_StableDescending(t *testing.T) {
	s := New(config.ScoringConfig{WorkUA: config.DefaultWeights(), RobotaUA: config.DefaultWeights()})

	// marks 0.4, 1.2, 1.2, 0.0
	recs := []domain.CandidateRecord{
		{Name: "a", JobHistory: make([]domain.JobHistoryEntry, 1)},
		{Name: "b", Education: make([]domain.EducationEntry, 4)},
		{Name: "c", Education: make([]domain.EducationEntry, 4)},
		{Name: "d"},
	}
	rs := s.Rank(domain.SourceWorkUA, recs)
	require.Len(t, rs, 4)

	var names []string
	for _, c := range rs {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, names)
	assert.InDelta(t, 1.2, rs[0].Mark, 1e-9)
	assert.InDelta(t, 1.2, rs[1].Mark, 1e-9)
}

func TestRank_PerSourceTables(t *testing.T) {
	s := New(config.ScoringConfig{
		WorkUA:   config.Weights{Skills: 1},
		RobotaUA: config.Weights{Skills: 2},
	})
	recs := []domain.CandidateRecord{{Skills: []string{"Go"}}}

	assert.InDelta(t, 1.0, s.Rank(domain.SourceWorkUA, recs)[0].Mark, 1e-9)
	assert.InDelta(t, 2.0, s.Rank(domain.SourceRobotaUA, recs)[0].Mark, 1e-9)
	assert.Equal(t, config.DefaultWeights(), s.Weights("unknown"))
}

func TestRank_EqualSumsKeepInputOrder(t *testing.T) {
	s := New(config.ScoringConfig{WorkUA: config.DefaultWeights(), RobotaUA: config.DefaultWeights()})
	recs := []domain.CandidateRecord{
		{
			Name:       "two-edu",
			Education:  make([]domain.EducationEntry, 2),
			JobHistory: make([]domain.JobHistoryEntry, 1),
			Languages:  []string{"English"},
		},
		{Name: "three-jobs", JobHistory: make([]domain.JobHistoryEntry, 3)},
	}
	rs := s.Rank(domain.SourceWorkUA, recs)
	require.Len(t, rs, 2)
	assert.Equal(t, "two-edu", rs[0].Name)
	assert.Equal(t, "three-jobs", rs[1].Name)
	assert.Equal(t, rs[0].Mark, rs[1].Mark)

	rs = s.Rank(domain.SourceWorkUA, []domain.CandidateRecord{recs[1], recs[0]})
	assert.Equal(t, "three-jobs", rs[0].Name)
}
