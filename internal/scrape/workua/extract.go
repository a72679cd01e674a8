package workua

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/scrape/util"
)

const fileMarker = "Завантажений файл"

// Section headings that end a walk over h2 siblings.
var sectionStops = []string{"Осв", "Знання", "Додаткова інформація", "Рекомендації"}

// ExtractCandidate parses a resume page. A section that cannot be found is
// left empty; the rest of the record is still filled.
func (a *Adapter) ExtractCandidate(markup, detailURL string) (domain.CandidateRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return domain.CandidateRecord{}, eris.Wrap(err, "parse resume page")
	}
	rec := domain.CandidateRecord{
		Source: a.Name(),
		Link:   detailURL,
	}

	if isFileResume(doc) {
		rec.Shape = domain.ShapeFile
		parseFileResume(doc, &rec)
		return rec, nil
	}

	rec.Shape = domain.ShapeTemplate
	root := doc.Find("div#resume_" + util.LastPathSegment(detailURL)).First()
	if root.Length() == 0 {
		zap.L().Debug("resume container missing, using page body", zap.String("url", detailURL))
		root = doc.Find("body")
	}
	parseBaseInfo(root, &rec)
	rec.JobHistory = parseJobHistory(root)
	rec.Education = parseEducation(root)
	skills := root.Find("h2.mb-sm").First()
	rec.Skills = parseSkills(skills)
	rec.Languages = parseLanguages(skills)
	return rec, nil
}

func isFileResume(doc *goquery.Document) bool {
	found := false
	doc.Find("h2.mb-0").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = util.CleanText(s.Text()) == fileMarker
		return !found
	})
	return found
}

func parseBaseInfo(root *goquery.Selection, rec *domain.CandidateRecord) {
	base := root.Find("div.mt-lg").First()
	if base.Length() == 0 {
		zap.L().Debug("base info block missing", zap.String("url", rec.Link))
		return
	}
	rec.Name = util.Text(base.Find("h1"))
	rec.Occupation, rec.Salary = util.SplitSalary(util.Text(base.Find("h2")), "грн")

	dts, dds := base.Find("dt"), base.Find("dd")
	for i := 0; i < dts.Length() && i < dds.Length(); i++ {
		k := strings.TrimSuffix(util.Text(dts.Eq(i)), ":")
		v := util.Text(dds.Eq(i))
		switch {
		case strings.Contains(k, "Вік"):
			rec.Age = v
		case strings.Contains(k, "Зайнятість"):
			rec.Employment = v
		case strings.Contains(k, "Місто проживання"):
			rec.Location = util.NormalizeLocation(v)
		case strings.Contains(k, "Готовий працювати"):
			rec.Relocation = v
		default:
			rec.Overflow = append(rec.Overflow, domain.KV{Key: k, Value: v})
		}
	}
}

// parseJobHistory walks h2 siblings after the "Досвід" heading. Each
// heading is a position followed by an organisation paragraph and a
// description paragraph.
func parseJobHistory(root *goquery.Selection) []domain.JobHistoryEntry {
	head := util.FindHeadingContaining(root, "h2", "Досвід")
	if head.Length() == 0 {
		return nil
	}
	var out []domain.JobHistoryEntry
	for _, h := range util.SiblingsUntil(head, "h2", sectionStops...) {
		e := domain.JobHistoryEntry{Title: util.Text(h)}
		org := h.NextAllFiltered("p").First()
		if lines := util.BreakLines(org); len(lines) > 0 {
			e.Organisation = lines[0]
			e.Period = strings.Join(lines[1:], " ")
		}
		e.Description = util.NextText(org, "p")
		out = append(out, e)
	}
	return out
}

func parseEducation(root *goquery.Selection) []domain.EducationEntry {
	head := util.FindHeading(root, "h2", "Осв")
	if head.Length() == 0 {
		return nil
	}
	var out []domain.EducationEntry
	for _, h := range util.SiblingsUntil(head, "h2", "Знання", "Додаткова інформація", "Рекомендації") {
		e := domain.EducationEntry{Title: util.Text(h)}
		if lines := util.BreakLines(h.NextAllFiltered("p").First()); len(lines) > 0 {
			e.Speciality = lines[0]
			e.Period = strings.Join(lines[1:], " ")
		}
		out = append(out, e)
	}
	return out
}

func parseSkills(head *goquery.Selection) []string {
	if head.Length() == 0 {
		return nil
	}
	return util.ItemTexts(head.NextAllFiltered("ul").First(), "li span")
}

// parseLanguages reads the list under the heading that follows skills.
func parseLanguages(skills *goquery.Selection) []string {
	if skills.Length() == 0 {
		return nil
	}
	head := skills.NextAllFiltered("h2").First()
	if head.Length() == 0 {
		return nil
	}
	return util.ItemTexts(head.NextAllFiltered("ul").First(), "li")
}
