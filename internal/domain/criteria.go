package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Employment types understood by the adapters.
const (
	EmploymentFullTime = "full_time"
	EmploymentPartTime = "part_time"
)

// Experience buckets.
const (
	ExperienceNone        = "no_experience"
	ExperienceUnderYear   = "less_1_year"
	ExperienceOneToThree  = "1_3_years"
	ExperienceThreeToFive = "3_5_years"
	ExperienceFivePlus    = "5_more_years"
)

// Source identifiers.
const (
	SourceWorkUA   = "workua"
	SourceRobotaUA = "robotaua"
)

// SalaryRange holds optional bounds in UAH. Zero means unset.
type SalaryRange struct {
	From int `json:"from,omitempty"`
	To   int `json:"to,omitempty"`
}

func (s SalaryRange) Empty() bool { return s.From <= 0 && s.To <= 0 }

// SearchCriteria is built once per run and never mutated afterwards.
// Use NewSearchCriteria so the set fields are canonical.
type SearchCriteria struct {
	Keywords   []string    `json:"keywords"`
	City       string      `json:"city"`
	Employment []string    `json:"employment"`
	Salary     SalaryRange `json:"salary"`
	Languages  []string    `json:"languages"`
	Experience []string    `json:"experience"`
	Sources    []string    `json:"sources"`
}

// NewSearchCriteria trims and lower-cases set members, drops blanks and
// duplicates, and keeps keyword order.
func NewSearchCriteria(in SearchCriteria) SearchCriteria {
	out := SearchCriteria{
		City:   normalizeWord(in.City),
		Salary: in.Salary,
	}
	if out.Salary.From < 0 {
		out.Salary.From = 0
	}
	if out.Salary.To < 0 {
		out.Salary.To = 0
	}

	for _, kw := range in.Keywords {
		for _, f := range strings.Fields(kw) {
			f = norm.NFC.String(f)
			if f != "" {
				out.Keywords = append(out.Keywords, f)
			}
		}
	}
	out.Employment = normalizeSet(in.Employment)
	out.Languages = normalizeSet(in.Languages)
	out.Experience = normalizeSet(in.Experience)
	out.Sources = normalizeSet(in.Sources)
	return out
}

// Label is the human readable query key used by the persistence sink.
func (c SearchCriteria) Label() string {
	if len(c.Keywords) == 0 {
		return "ALL"
	}
	return strings.Join(c.Keywords, " ")
}

// Casers carry state, so one is built per call.
func normalizeWord(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Lower(language.Ukrainian).String(norm.NFC.String(s))
}

func normalizeSet(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range in {
		v = normalizeWord(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
