package scrape

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/fetch"
	"resumehunt-engine/internal/scrape/types"
)

// fakeAdapter serves listing pages "list:N" whose links come from pages.
// A page missing from pages is the end of results.
type fakeAdapter struct {
	name      string
	mode      types.FetchMode
	pages     map[int][]string
	pageCount int
	emptyErr  bool // return ErrNormalizationEmpty from BuildQuery
	noBox     map[int]bool
}

func (a *fakeAdapter) Name() string           { return a.name }
func (a *fakeAdapter) StoreName() string      { return strings.ToUpper(a.name) }
func (a *fakeAdapter) Mode() types.FetchMode  { return a.mode }
func (a *fakeAdapter) ListSelector() string   { return "#list" }
func (a *fakeAdapter) DetailSelector() string { return "#detail" }
func (a *fakeAdapter) PageCount(string) (int, bool) {
	return a.pageCount, a.pageCount > 0
}

func (a *fakeAdapter) BuildQuery(c domain.SearchCriteria) (types.Query, error) {
	if a.emptyErr {
		return types.Query{}, types.ErrNormalizationEmpty
	}
	return types.Query{Source: a.name, Label: c.Label()}, nil
}

func (a *fakeAdapter) BuildSearchURL(_ types.Query, page int) string {
	return "list:" + strconv.Itoa(page)
}

func (a *fakeAdapter) ExtractResultLinks(markup string) ([]string, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(markup, "list:"))
	if err != nil {
		return nil, eris.Errorf("bad listing %q", markup)
	}
	if a.noBox[n] {
		return nil, types.ErrNoResultsContainer
	}
	links := a.pages[n]
	if len(links) == 0 {
		return nil, types.ErrEndOfResults
	}
	return links, nil
}

func (a *fakeAdapter) ExtractCandidate(markup, link string) (domain.CandidateRecord, error) {
	if strings.HasPrefix(markup, "garbage") {
		return domain.CandidateRecord{}, eris.New("unparseable")
	}
	return domain.CandidateRecord{
		Source: a.name,
		Link:   link,
		Name:   markup,
		Skills: []string{"go"},
	}, nil
}

// fakeFetcher echoes the url back as markup. failures[url] is how many
// times that url fails before succeeding; a negative value fails forever.
type fakeFetcher struct {
	mu       sync.Mutex
	failures map[string]int
	garbage  map[string]bool
	calls    map[string]int
	err      error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{failures: map[string]int{}, garbage: map[string]bool{}, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, _ fetch.Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if n := f.failures[url]; n != 0 {
		if n > 0 {
			f.failures[url] = n - 1
		}
		if f.err != nil {
			return "", f.err
		}
		return "", eris.Wrapf(fetch.ErrFetchFailed, "GET %s", url)
	}
	if f.garbage[url] {
		return "garbage", nil
	}
	return url, nil
}

func (f *fakeFetcher) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for u, c := range f.calls {
		if strings.HasPrefix(u, prefix) {
			n += c
		}
	}
	return n
}

func links(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}
