package workua

import (
	"net/url"
	"strconv"
	"strings"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/scrape/types"
)

type code struct {
	key, id string
}

// Lookup tables keep the site's own order so encoding is stable.
var (
	languageCodes = []code{
		{"eng", "1"}, {"ua", "41"}, {"ru", "32"}, {"pol", "3"},
		{"ger", "2"}, {"slav", "34"}, {"fre", "5"},
	}
	employmentCodes = []code{
		{domain.EmploymentFullTime, "74"},
		{domain.EmploymentPartTime, "75"},
	}
	experienceCodes = []code{
		{domain.ExperienceNone, "0"},
		{domain.ExperienceUnderYear, "1"},
		{domain.ExperienceOneToThree, "164"},
		{domain.ExperienceThreeToFive, "165"},
		{domain.ExperienceFivePlus, "166"},
	}
	// salary bucket in UAH -> site id, ascending
	salaryBuckets = []struct {
		amount int
		id     string
	}{
		{10000, "2"}, {15000, "3"}, {20000, "4"}, {30000, "5"},
		{40000, "6"}, {50000, "7"}, {100000, "8"},
	}
)

const allKeywords = "Всі"

// ClosestSalaryBucket returns the bucket amount nearest to v. Ties go to
// the lower bucket.
func ClosestSalaryBucket(v int) int {
	best := salaryBuckets[0].amount
	for _, b := range salaryBuckets[1:] {
		if abs(b.amount-v) < abs(best-v) {
			best = b.amount
		}
	}
	return best
}

func salaryID(v int) string {
	amount := ClosestSalaryBucket(v)
	for _, b := range salaryBuckets {
		if b.amount == amount {
			return b.id
		}
	}
	return ""
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func encodeSet(table []code, wanted []string) string {
	var ids []string
	for _, c := range table {
		for _, w := range wanted {
			if w == c.key {
				ids = append(ids, c.id)
				break
			}
		}
	}
	return strings.Join(ids, "+")
}

// BuildQuery maps criteria onto work.ua's path and filter ids. Values the
// site has no id for are dropped.
func (a *Adapter) BuildQuery(c domain.SearchCriteria) (types.Query, error) {
	q := types.Query{Source: a.Name(), Label: c.Label()}
	used := 0

	kw := allKeywords
	if len(c.Keywords) > 0 {
		parts := make([]string, 0, len(c.Keywords))
		for _, k := range c.Keywords {
			parts = append(parts, url.PathEscape(k))
		}
		kw = strings.Join(parts, "+")
		used++
	} else {
		kw = url.PathEscape(kw)
	}

	city := ""
	if c.City != "" {
		city = "-" + url.PathEscape(strings.ReplaceAll(c.City, " ", "_"))
		used++
	}
	q.Path = "/resumes" + city + "-" + kw + "/"

	q.Params = []types.Param{{Key: "notitle", Value: "1"}, {Key: "anyword", Value: "1"}}
	add := func(key, val string) {
		if val != "" {
			q.Params = append(q.Params, types.Param{Key: key, Value: val})
			used++
		}
	}
	add("employment", encodeSet(employmentCodes, c.Employment))
	add("experience", encodeSet(experienceCodes, c.Experience))
	if c.Salary.From > 0 {
		add("salaryfrom", salaryID(c.Salary.From))
	}
	if c.Salary.To > 0 {
		add("salaryto", salaryID(c.Salary.To))
	}
	add("language", encodeSet(languageCodes, c.Languages))

	if used == 0 && hasFilters(c) {
		return types.Query{}, types.ErrNormalizationEmpty
	}
	return q, nil
}

// hasFilters reports whether the caller asked for anything at all. An empty
// criteria browses every resume and is not a normalization failure.
func hasFilters(c domain.SearchCriteria) bool {
	return len(c.Keywords) > 0 || c.City != "" || len(c.Employment) > 0 ||
		len(c.Experience) > 0 || len(c.Languages) > 0 || !c.Salary.Empty()
}

func (a *Adapter) BuildSearchURL(q types.Query, page int) string {
	u := a.baseURL + q.Path + "?" + q.Encode()
	if page > 1 {
		u += "&page=" + strconv.Itoa(page)
	}
	return u
}
