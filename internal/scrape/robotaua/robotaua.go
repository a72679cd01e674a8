// Package robotaua scrapes candidate profiles from robota.ua. Pages are
// rendered client side and need the browser fetcher.
package robotaua

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/scrape/types"
	"resumehunt-engine/internal/scrape/util"
)

const DefaultBaseURL = "https://robota.ua"

const (
	listSelector   = "alliance-employer-cvdb-cv-list"
	cardSelector   = "alliance-employer-cvdb-cv-list-card"
	detailSelector = "div.main-content-wrapper"
)

type Adapter struct {
	baseURL string
}

// New returns a robota.ua adapter. An empty baseURL means DefaultBaseURL.
func New(baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Adapter{baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *Adapter) Name() string           { return domain.SourceRobotaUA }
func (a *Adapter) StoreName() string      { return "RABOTA_UA" }
func (a *Adapter) Mode() types.FetchMode  { return types.FetchBrowser }
func (a *Adapter) ListSelector() string   { return listSelector }
func (a *Adapter) DetailSelector() string { return detailSelector }

func (a *Adapter) ExtractResultLinks(markup string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, eris.Wrap(err, "parse listing page")
	}
	list := doc.Find(listSelector).First()
	if list.Length() == 0 {
		return nil, types.ErrNoResultsContainer
	}

	seen := map[string]bool{}
	var links []string
	list.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Find("a[href]").First().Attr("href")
		abs := util.CanonicalizeURL(util.AbsURL(a.baseURL, href))
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})
	if len(links) == 0 {
		return nil, types.ErrEndOfResults
	}
	return links, nil
}

// PageCount is unknown up front; the listing has to be walked until empty.
func (a *Adapter) PageCount(string) (int, bool) { return 0, false }
