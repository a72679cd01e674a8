package util

import (
	"regexp"
	"strings"
)

// Section headings used in uploaded resume files. Either language may appear.
var (
	educationBlock  = regexp.MustCompile(`(?is)(?:EDUCATION|Освіта)(.*?)\n(?:\n|$)`)
	skillsBlock     = regexp.MustCompile(`(?is)(?:TECH SKILLS|SKILLS|Навички)(.*?)\n(?:\n|$)`)
	experienceBlock = regexp.MustCompile(`(?is)(?:WORK EXPERIENCE|EXPERIENCE|Досвід роботи)(.*?)\n(?:\n|$)`)

	personName = regexp.MustCompile(`(?m)^[A-ZА-ЯЇІЄҐ][a-zа-яїієґ']+\s[A-ZА-ЯЇІЄҐ][a-zа-яїієґ']+`)
)

// LabeledBlocks is what can be recovered from free text by heading labels.
type LabeledBlocks struct {
	Name       string
	Education  string
	Skills     string
	Experience string
}

// ExtractLabeledBlocks scans s for a leading person name and for the
// education, skills and experience blocks. A block runs from its label to
// the first blank line. Missing blocks are left empty.
func ExtractLabeledBlocks(s string) LabeledBlocks {
	s = strings.ReplaceAll(s, "\r\n", "\n") + "\n"
	var out LabeledBlocks
	out.Name = PersonName(s)
	out.Education = firstGroup(educationBlock, s)
	out.Skills = firstGroup(skillsBlock, s)
	out.Experience = firstGroup(experienceBlock, s)
	return out
}

// PersonName returns the capitalised "First Last" pair that starts the first
// matching line of s, or "" when there is none.
func PersonName(s string) string {
	return CleanText(personName.FindString(s))
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(m[1]), ":"))
}

// SplitSalary pulls a trailing salary out of "Occupation, 25 000 грн".
// The last comma separated part is the salary when it mentions the currency.
func SplitSalary(s, currency string) (occupation, salary string) {
	s = CleanText(s)
	parts := strings.Split(s, ",")
	last := CleanText(parts[len(parts)-1])
	if len(parts) > 1 && strings.Contains(last, currency) {
		return CleanText(strings.Join(parts[:len(parts)-1], ",")), last
	}
	return s, ""
}
