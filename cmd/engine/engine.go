package main

import (
	"path/filepath"
	"time"

	"resumehunt-engine/internal/config"
	"resumehunt-engine/internal/events"
	"resumehunt-engine/internal/fetch"
	"resumehunt-engine/internal/scrape"
	"resumehunt-engine/internal/store"
)

const dbFile = "resumehunt.db"

// engine owns the long-lived pieces runs share: the store and fetchers.
type engine struct {
	db      *store.DB
	browser *fetch.BrowserFetcher
	builder scrape.Builder
}

// service is a Service for c that shares this engine's fetchers and store.
func (e *engine) service(c config.Config) *scrape.Service {
	return e.builder.Build(c)
}

// live builds each run's Service from whatever current returns.
func (e *engine) live(current func() config.Config) *scrape.LiveRunner {
	return &scrape.LiveRunner{Builder: e.builder, Config: current}
}

func newEngine(c config.Config, hub *events.Hub) (*engine, error) {
	db, err := store.Open(filepath.Join(c.App.DataDir, dbFile))
	if err != nil {
		return nil, err
	}

	limiter := fetch.NewHostLimiter(c.Scrape.RatePerSec, c.Scrape.Burst)
	plain := fetch.NewHTTPFetcher(fetch.HTTPOptions{
		Timeout: time.Duration(c.Scrape.PageTimeoutSecs) * time.Second,
		Limiter: limiter,
	})
	browser := fetch.NewBrowserFetcher(fetch.BrowserOptions{
		Headless:   c.Browser.Headless,
		NavTimeout: time.Duration(c.Browser.NavTimeoutMs) * time.Millisecond,
		Limiter:    limiter,
	})

	b := scrape.Builder{
		Fetchers: fetch.Set{Plain: plain, Browser: browser},
		Sink:     db,
		Status:   scrape.NewStatusTracker(),
	}
	if hub != nil {
		b.Events = hub
	}

	return &engine{db: db, browser: browser, builder: b}, nil
}

func (e *engine) Close() {
	_ = e.browser.Close()
	_ = e.db.Close()
}
