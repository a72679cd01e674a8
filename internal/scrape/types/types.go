package types

import (
	"strings"

	"github.com/rotisserie/eris"

	"resumehunt-engine/internal/domain"
)

var (
	// ErrEndOfResults means the results container is present but empty.
	ErrEndOfResults = eris.New("end of results")
	// ErrNoResultsContainer means the listing page has no results container at all.
	ErrNoResultsContainer = eris.New("results container not found")
	// ErrNormalizationEmpty means no criteria field could be encoded for a source.
	ErrNormalizationEmpty = eris.New("no usable search criteria for source")
)

type FetchMode int

const (
	FetchPlain FetchMode = iota
	FetchBrowser
)

func (m FetchMode) String() string {
	if m == FetchBrowser {
		return "browser"
	}
	return "plain"
}

// Param is one encoded query parameter. Value is already escaped.
type Param struct {
	Key   string
	Value string
}

// Query is the site specific form of a SearchCriteria. Only the adapter
// that built it knows what Path and Params mean.
type Query struct {
	Source string
	Label  string
	Path   string
	Params []Param
}

// Encode joins Params in order. Identical queries encode identically.
func (q Query) Encode() string {
	parts := make([]string, 0, len(q.Params))
	for _, p := range q.Params {
		parts = append(parts, p.Key+"="+p.Value)
	}
	return strings.Join(parts, "&")
}

// Adapter is one job site. Adapters are looked up by Name in a registry.
type Adapter interface {
	Name() string
	// StoreName is the resource name used by the persistence sink.
	StoreName() string
	Mode() FetchMode
	// ListSelector and DetailSelector are waited for by the browser fetcher.
	ListSelector() string
	DetailSelector() string

	BuildQuery(c domain.SearchCriteria) (Query, error)
	BuildSearchURL(q Query, page int) string
	// ExtractResultLinks returns absolute detail URLs in page order, or
	// ErrEndOfResults / ErrNoResultsContainer.
	ExtractResultLinks(markup string) ([]string, error)
	// PageCount reports an explicit page count when the listing shows one.
	PageCount(markup string) (int, bool)
	ExtractCandidate(markup, detailURL string) (domain.CandidateRecord, error)
}

type Termination string

const (
	TerminationExhausted Termination = "exhausted"
	TerminationCeiling   Termination = "ceiling"
	TerminationAborted   Termination = "aborted"
	TerminationSkipped   Termination = "skipped"
)

// ScrapeResult is what one adapter run produced.
type ScrapeResult struct {
	Source      string
	Label       string
	Candidates  []domain.CandidateRecord
	Pages       int
	Links       int
	Failures    int
	Termination Termination
	Err         error
}
