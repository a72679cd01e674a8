// Package fetch retrieves page markup, either with a plain HTTP GET or
// through a headless browser for script-rendered sites.
package fetch

import (
	"context"

	"github.com/rotisserie/eris"

	"resumehunt-engine/internal/scrape/types"
)

// ErrFetchFailed covers transport errors, timeouts and non-2xx responses.
var ErrFetchFailed = eris.New("fetch failed")

// Options tune a single fetch.
type Options struct {
	// WaitSelector is waited for after navigation. Plain fetchers ignore it.
	WaitSelector string
}

// Fetcher returns the rendered markup of a URL. Implementations never retry.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts Options) (string, error)
}

// Set picks a fetcher by mode.
type Set struct {
	Plain   Fetcher
	Browser Fetcher
}

// For returns the fetcher for mode, or an error when none is configured.
func (s Set) For(mode types.FetchMode) (Fetcher, error) {
	var f Fetcher
	switch mode {
	case types.FetchBrowser:
		f = s.Browser
	default:
		f = s.Plain
	}
	if f == nil {
		return nil, eris.Errorf("no fetcher configured for mode %s", mode)
	}
	return f, nil
}
