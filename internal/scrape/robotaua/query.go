package robotaua

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/scrape/types"
)

type code struct {
	key string
	ids []string
}

// Lookup tables keep the site's own order so encoding is stable.
var (
	languageCodes = []code{
		{"eng", []string{"1"}}, {"ua", []string{"145"}}, {"ru", []string{"133"}},
		{"pol", []string{"130"}}, {"ger", []string{"2"}}, {"slav", []string{"136"}},
		{"fre", []string{"3"}},
	}
	employmentCodes = []code{
		{domain.EmploymentFullTime, []string{"1"}},
		{domain.EmploymentPartTime, []string{"2"}},
	}
	experienceCodes = []code{
		{domain.ExperienceNone, []string{"0"}},
		{domain.ExperienceUnderYear, []string{"1"}},
		{domain.ExperienceOneToThree, []string{"2", "3"}},
		{domain.ExperienceThreeToFive, []string{"3"}},
		{domain.ExperienceFivePlus, []string{"4", "5"}},
	}
)

const (
	allKeywords = "all"
	allCities   = "ukraine"
)

// encodeSet returns a query-escaped JSON array of the ids for wanted, or "".
func encodeSet(table []code, wanted []string) string {
	var ids []string
	seen := map[string]bool{}
	for _, c := range table {
		for _, w := range wanted {
			if w != c.key {
				continue
			}
			for _, id := range c.ids {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
	}
	if len(ids) == 0 {
		return ""
	}
	return url.QueryEscape(`["` + strings.Join(ids, `","`) + `"]`)
}

type salary struct {
	From int `json:"from,omitempty"`
	To   int `json:"to,omitempty"`
}

func encodeSalary(s domain.SalaryRange) string {
	if s.Empty() {
		return ""
	}
	b, _ := json.Marshal(salary{From: max(s.From, 0), To: max(s.To, 0)})
	return url.QueryEscape(string(b))
}

// BuildQuery maps criteria onto robota.ua's path and filters. Salary is
// passed through as raw bounds.
func (a *Adapter) BuildQuery(c domain.SearchCriteria) (types.Query, error) {
	q := types.Query{Source: a.Name(), Label: c.Label()}
	used := 0

	kw := allKeywords
	if len(c.Keywords) > 0 {
		parts := make([]string, 0, len(c.Keywords))
		for _, k := range c.Keywords {
			parts = append(parts, url.PathEscape(k))
		}
		kw = strings.Join(parts, "-")
		used++
	}
	city := allCities
	if c.City != "" {
		city = url.PathEscape(strings.ReplaceAll(c.City, " ", "-"))
		used++
	}
	q.Path = "/ru/candidates/" + kw + "/" + city

	add := func(key, val string) {
		if val != "" {
			q.Params = append(q.Params, types.Param{Key: key, Value: val})
			used++
		}
	}
	add("scheduleIds", encodeSet(employmentCodes, c.Employment))
	add("experienceIds", encodeSet(experienceCodes, c.Experience))
	add("salary", encodeSalary(c.Salary))
	add("languages", encodeSet(languageCodes, c.Languages))

	if used == 0 && hasFilters(c) {
		return types.Query{}, types.ErrNormalizationEmpty
	}
	return q, nil
}

func hasFilters(c domain.SearchCriteria) bool {
	return len(c.Keywords) > 0 || c.City != "" || len(c.Employment) > 0 ||
		len(c.Experience) > 0 || len(c.Languages) > 0 || !c.Salary.Empty()
}

// BuildSearchURL always carries the page number; the site starts at 1.
func (a *Adapter) BuildSearchURL(q types.Query, page int) string {
	if page < 1 {
		page = 1
	}
	u := a.baseURL + q.Path + "?"
	if enc := q.Encode(); enc != "" {
		u += enc + "&"
	}
	return u + "page=" + strconv.Itoa(page)
}
