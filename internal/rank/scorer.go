// Package rank scores candidate records by how much of their profile was
// found, and orders them best first.
package rank

import (
	"math"
	"slices"
	"strings"

	"resumehunt-engine/internal/config"
	"resumehunt-engine/internal/domain"
)

// Scorer holds one weight table per source.
type Scorer struct {
	tables   map[string]config.Weights
	fallback config.Weights
}

// New builds a scorer from the scoring section of the config.
func New(cfg config.ScoringConfig) *Scorer {
	return &Scorer{
		tables: map[string]config.Weights{
			domain.SourceWorkUA:   cfg.WorkUA,
			domain.SourceRobotaUA: cfg.RobotaUA,
		},
		fallback: config.DefaultWeights(),
	}
}

// Weights returns the table used for source.
func (s *Scorer) Weights(source string) config.Weights {
	if w, ok := s.tables[source]; ok {
		return w
	}
	return s.fallback
}

// Mark is Σ weight × count over education, experience, skills and
// languages. Blank skills do not count.
func Mark(w config.Weights, rec domain.CandidateRecord) float64 {
	skills := 0
	for _, sk := range rec.Skills {
		if strings.TrimSpace(sk) != "" {
			skills++
		}
	}
	m := w.Education*float64(len(rec.Education)) +
		w.Experience*float64(len(rec.JobHistory)) +
		w.Skills*float64(skills) +
		w.Languages*float64(len(rec.Languages))
	// Equal rubric totals must compare equal in Rank.
	return math.Round(m*markScale) / markScale
}

const markScale = 1e6

// Rank scores recs with the table for source and sorts them by mark,
// highest first. Equal marks keep their input order.
func (s *Scorer) Rank(source string, recs []domain.CandidateRecord) domain.ResultSet {
	w := s.Weights(source)
	out := make(domain.ResultSet, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.ScoredCandidate{CandidateRecord: r, Mark: Mark(w, r)})
	}
	slices.SortStableFunc(out, func(a, b domain.ScoredCandidate) int {
		switch {
		case a.Mark > b.Mark:
			return -1
		case a.Mark < b.Mark:
			return 1
		}
		return 0
	})
	return out
}
