package util

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text is the cleaned text of the first node in sel.
func Text(sel *goquery.Selection) string {
	return CleanText(sel.First().Text())
}

// FindHeading returns the first tag element under root whose text starts
// with one of prefixes, or an empty selection.
func FindHeading(root *goquery.Selection, tag string, prefixes ...string) *goquery.Selection {
	return root.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return HasAnyPrefix(CleanText(s.Text()), prefixes...)
	}).First()
}

// FindHeadingContaining is FindHeading matching on a substring.
func FindHeadingContaining(root *goquery.Selection, tag string, needles ...string) *goquery.Selection {
	return root.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return ContainsAny(CleanText(s.Text()), needles...)
	}).First()
}

// SiblingsUntil walks the following tag siblings of start and stops before
// the first one whose text contains any of stops.
func SiblingsUntil(start *goquery.Selection, tag string, stops ...string) []*goquery.Selection {
	var out []*goquery.Selection
	start.NextAllFiltered(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if ContainsAny(CleanText(s.Text()), stops...) {
			return false
		}
		out = append(out, s)
		return true
	})
	return out
}

// NextText is the cleaned text of the first following tag sibling of s.
func NextText(s *goquery.Selection, tag string) string {
	return Text(s.NextAllFiltered(tag))
}

// ItemTexts collects cleaned, non-empty texts of sel.Find(item).
func ItemTexts(sel *goquery.Selection, item string) []string {
	var out []string
	sel.Find(item).Each(func(_ int, s *goquery.Selection) {
		if t := CleanText(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// BlockText returns the text of sel with <br> and block starts turned into
// line breaks, cleaned line by line. Source whitespace never breaks a line.
func BlockText(sel *goquery.Selection) string {
	html, err := sel.First().Html()
	if err != nil {
		return ""
	}
	html = strings.NewReplacer("\r", " ", "\n", " ").Replace(html)
	html = blockBreaks.Replace(html)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + html + "</div>"))
	if err != nil {
		return ""
	}
	return CleanLines(doc.Find("div").First().Text())
}

var blockBreaks = strings.NewReplacer(
	"<br/>", "\n", "<br />", "\n", "<br>", "\n",
	"<p>", "\n<p>", "<p ", "\n<p ", "<li", "\n<li", "<div", "\n<div",
	"<h1", "\n<h1", "<h2", "\n<h2", "<h3", "\n<h3",
)

// BreakLines splits sel into its non-empty text lines.
func BreakLines(sel *goquery.Selection) []string {
	return NonEmpty(strings.Split(BlockText(sel), "\n"))
}
