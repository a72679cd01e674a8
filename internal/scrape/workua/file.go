package workua

import (
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/scrape/util"
)

// parseFileResume handles uploaded resumes. The site shows the file as
// plain text, so sections are found by their labels.
func parseFileResume(doc *goquery.Document, rec *domain.CandidateRecord) {
	content := doc.Find("div#add_info").First()
	if content.Length() == 0 {
		zap.L().Debug("file resume without text", zap.String("url", rec.Link))
		return
	}
	text := util.BlockText(content)
	blocks := util.ExtractLabeledBlocks(text)

	rec.Name = blocks.Name
	if rec.Name == "" {
		// Anonymous uploads carry a heading like "Резюме від 12 березня".
		rec.Name = util.PersonName(util.Text(doc.Find("div.mt-lg h1")))
	}
	if blocks.Education != "" {
		rec.Education = []domain.EducationEntry{{Description: blocks.Education}}
	}
	if blocks.Experience != "" {
		rec.JobHistory = []domain.JobHistoryEntry{{Description: blocks.Experience}}
	}
	if blocks.Skills != "" {
		rec.Skills = []string{blocks.Skills}
	}
	rec.AdditionalInfo = text
}
