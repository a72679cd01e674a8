// Package workua scrapes candidate resumes from work.ua. The site renders
// on the server, so plain HTTP is enough.
package workua

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/scrape/types"
	"resumehunt-engine/internal/scrape/util"
)

const DefaultBaseURL = "https://www.work.ua"

const (
	listSelector   = "div#pjax-resume-list"
	cardSelector   = "div.card.resume-link"
	detailSelector = "div.card"
)

type Adapter struct {
	baseURL string
}

// New returns a work.ua adapter. An empty baseURL means DefaultBaseURL.
func New(baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Adapter{baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *Adapter) Name() string           { return domain.SourceWorkUA }
func (a *Adapter) StoreName() string      { return "WORK_UA" }
func (a *Adapter) Mode() types.FetchMode  { return types.FetchPlain }
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
		link := card.Find("h2 a[href]").First()
		href, _ := link.Attr("href")
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

// PageCount reads the pager. Its last item carries a title like "Стор. 12".
func (a *Adapter) PageCount(markup string) (int, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return 0, false
	}
	pages := 0
	doc.Find(`nav li span[title^="Стор."]`).Each(func(_ int, s *goquery.Selection) {
		title, _ := s.Attr("title")
		f := strings.Fields(title)
		if len(f) == 0 {
			return
		}
		if n, err := strconv.Atoi(f[len(f)-1]); err == nil && n > pages {
			pages = n
		}
	})
	return pages, pages > 0
}
