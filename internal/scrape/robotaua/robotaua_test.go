package robotaua

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/scrape/types"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

func TestBuildQuery(t *testing.T) {
	a := New("")
	c := domain.NewSearchCriteria(domain.SearchCriteria{
		Keywords:   []string{"python", "developer"},
		City:       "Lviv",
		Employment: []string{"part_time", "full_time"},
		Experience: []string{"3_5_years", "1_3_years"},
		Salary:     domain.SalaryRange{From: 20000, To: 40000},
		Languages:  []string{"ua", "eng"},
	})

	q, err := a.BuildQuery(c)
	require.NoError(t, err)
	assert.Equal(t,
		"https://robota.ua/ru/candidates/python-developer/lviv"+
			"?scheduleIds=%5B%221%22%2C%222%22%5D"+
			"&experienceIds=%5B%222%22%2C%223%22%5D"+
			"&salary=%7B%22from%22%3A20000%2C%22to%22%3A40000%7D"+
			"&languages=%5B%221%22%2C%22145%22%5D"+
			"&page=2",
		a.BuildSearchURL(q, 2))
}

func TestBuildQuery_Defaults(t *testing.T) {
	a := New("")
	q, err := a.BuildQuery(domain.NewSearchCriteria(domain.SearchCriteria{}))
	require.NoError(t, err)
	assert.Equal(t, "https://robota.ua/ru/candidates/all/ukraine?page=1", a.BuildSearchURL(q, 1))
}

func TestBuildQuery_SalaryUpperOnly(t *testing.T) {
	a := New("")
	q, err := a.BuildQuery(domain.NewSearchCriteria(domain.SearchCriteria{
		Salary: domain.SalaryRange{To: 30000},
	}))
	require.NoError(t, err)
	assert.Equal(t, "salary=%7B%22to%22%3A30000%7D", q.Encode())
}

func TestBuildQuery_Deterministic(t *testing.T) {
	a := New("")
	in := domain.SearchCriteria{Keywords: []string{"go"}, Languages: []string{"ger", "eng"}}
	q1, err := a.BuildQuery(domain.NewSearchCriteria(in))
	require.NoError(t, err)
	q2, err := a.BuildQuery(domain.NewSearchCriteria(in))
	require.NoError(t, err)
	assert.Equal(t, q1, q2)
	assert.Equal(t, a.BuildSearchURL(q1, 5), a.BuildSearchURL(q2, 5))
}

func TestBuildQuery_NothingUsable(t *testing.T) {
	a := New("")
	_, err := a.BuildQuery(domain.NewSearchCriteria(domain.SearchCriteria{Languages: []string{"latin"}}))
	assert.ErrorIs(t, err, types.ErrNormalizationEmpty)
}

func TestExtractResultLinks(t *testing.T) {
	a := New("")
	links, err := a.ExtractResultLinks(fixture(t, "listing.html"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://robota.ua/ru/candidates/17001",
		"https://robota.ua/ru/candidates/17002",
	}, links)

	_, err = a.ExtractResultLinks(fixture(t, "empty_listing.html"))
	assert.ErrorIs(t, err, types.ErrEndOfResults)

	_, err = a.ExtractResultLinks("<html><body>loading</body></html>")
	assert.ErrorIs(t, err, types.ErrNoResultsContainer)
}

func TestExtractCandidate(t *testing.T) {
	a := New("")
	rec, err := a.ExtractCandidate(fixture(t, "profile.html"), "https://robota.ua/ru/candidates/17001")
	require.NoError(t, err)

	assert.Equal(t, domain.ShapeProfile, rec.Shape)
	assert.Equal(t, "Марія Іваненко", rec.Name)
	assert.Equal(t, "Повна зайнятість, дистанційна робота", rec.Employment)

	require.Len(t, rec.JobHistory, 2)
	assert.Equal(t, domain.JobHistoryEntry{
		Title:        "Senior QA engineer",
		Organisation: "SoftServe",
		Period:       "03.2019 — 05.2024 (5 років)",
		Description:  "Тестування API\nАвтоматизація",
	}, rec.JobHistory[0])
	assert.Equal(t, "EPAM", rec.JobHistory[1].Organisation)

	require.Len(t, rec.Education, 1)
	assert.Equal(t, domain.EducationEntry{
		Title:      "ХНУРЕ",
		Speciality: "Комп'ютерна інженерія",
		Period:     "Харків, 2012 — 2016",
	}, rec.Education[0])

	assert.Equal(t, []string{"Postman", "Selenium", "SQL"}, rec.Skills)
	assert.Equal(t, []string{"Англійська", "Українська"}, rec.Languages)
	assert.Equal(t, "Готова до відряджень.\nЄ водійське посвідчення.", rec.AdditionalInfo)
}

func TestExtractCandidate_RussianHeadingsMissingEducation(t *testing.T) {
	a := New("")
	rec, err := a.ExtractCandidate(fixture(t, "profile_ru_no_education.html"), "https://robota.ua/ru/candidates/17003")
	require.NoError(t, err)

	assert.Equal(t, "Олег Сидоров", rec.Name)
	assert.Empty(t, rec.Education)
	require.Len(t, rec.JobHistory, 1)
	assert.Equal(t, "Нова пошта", rec.JobHistory[0].Organisation)
	assert.Equal(t, []string{"Категория B", "Категория C"}, rec.Skills)
	assert.Equal(t, []string{"Русский"}, rec.Languages)
}

func TestExtractCandidate_NoArticle(t *testing.T) {
	a := New("")
	rec, err := a.ExtractCandidate(`<div class="main-info-wrapper"><h1>Anna</h1></div>`, "https://robota.ua/ru/candidates/1")
	require.NoError(t, err)
	assert.Equal(t, "Anna", rec.Name)
	assert.Empty(t, rec.JobHistory)
}
