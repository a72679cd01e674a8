package robotaua

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/scrape/util"
)

// Profile section headings. The site serves both Ukrainian and Russian.
var (
	jobHeadings       = []string{"Прац", "Рабо"}
	educationHeadings = []string{"Навч", "Учил"}
	aboutHeadings     = []string{"Додаткова", "Дополнительная"}
	languageHeadings  = []string{"Володіє", "Владеет"}
	skillHeadings     = []string{"Ключова", "Ключев"}
)

func (a *Adapter) ExtractCandidate(markup, detailURL string) (domain.CandidateRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return domain.CandidateRecord{}, eris.Wrap(err, "parse profile page")
	}
	rec := domain.CandidateRecord{
		Source: a.Name(),
		Link:   detailURL,
		Shape:  domain.ShapeProfile,
	}
	parseMainInfo(doc, &rec)

	article := doc.Find("article").First()
	if article.Length() == 0 {
		zap.L().Debug("profile article missing", zap.String("url", detailURL))
		return rec, nil
	}

	article.Find("h3").Each(func(_ int, h *goquery.Selection) {
		title := util.CleanText(h.Text())
		section := sectionOf(h)
		switch {
		case util.HasAnyPrefix(title, jobHeadings...):
			rec.JobHistory = parseJobs(section)
		case util.HasAnyPrefix(title, educationHeadings...):
			rec.Education = parseEducation(section)
		case util.HasAnyPrefix(title, aboutHeadings...):
			rec.AdditionalInfo = util.BlockText(section.Find("div").First())
		case util.HasAnyPrefix(title, languageHeadings...):
			rec.Languages = util.ItemTexts(section, "h4")
		case util.HasAnyPrefix(title, skillHeadings...):
			rec.Skills = parseSkills(section, title)
		}
	})
	return rec, nil
}

// sectionOf is the section a heading belongs to: its enclosing section,
// or the closest one before it.
func sectionOf(h *goquery.Selection) *goquery.Selection {
	if s := h.Closest("section"); s.Length() > 0 {
		return s
	}
	return h.PrevAllFiltered("section").First()
}

func parseMainInfo(doc *goquery.Document, rec *domain.CandidateRecord) {
	info := doc.Find("div.main-info-wrapper").First()
	if info.Length() == 0 {
		zap.L().Debug("main info block missing", zap.String("url", rec.Link))
		return
	}
	rec.Name = util.Text(info.Find("h1"))
	rec.Employment = util.Text(info.Find("div.santa-mt-20"))
}

// parseJobs reads one entry per h4: the position, then a block holding
// the organisation and a wrapper with period and description.
func parseJobs(section *goquery.Selection) []domain.JobHistoryEntry {
	var out []domain.JobHistoryEntry
	section.Find("h4").Each(func(_ int, h *goquery.Selection) {
		e := domain.JobHistoryEntry{Title: util.Text(h)}
		parts := h.NextAllFiltered("div").First().ChildrenFiltered("div")
		e.Organisation = util.Text(parts.Eq(0))
		details := parts.Eq(1).ChildrenFiltered("div").First().ChildrenFiltered("div")
		e.Period = util.Text(details.Eq(0))
		e.Description = util.BlockText(details.Eq(1))
		out = append(out, e)
	})
	return out
}

func parseEducation(section *goquery.Selection) []domain.EducationEntry {
	var out []domain.EducationEntry
	section.Find("h4").Each(func(_ int, h *goquery.Selection) {
		e := domain.EducationEntry{Title: util.Text(h)}
		parts := h.NextAllFiltered("div").First().ChildrenFiltered("div")
		e.Speciality = util.Text(parts.Eq(0))
		e.Period = util.Text(parts.Eq(1))
		out = append(out, e)
	})
	return out
}

// parseSkills takes <br> separated lines when present, otherwise one skill
// per paragraph. Blank items are dropped.
func parseSkills(section *goquery.Selection, heading string) []string {
	if section.Find("br").Length() > 0 {
		var out []string
		for _, ln := range util.BreakLines(section) {
			if ln != heading {
				out = append(out, ln)
			}
		}
		return out
	}
	return util.ItemTexts(section, "p")
}
