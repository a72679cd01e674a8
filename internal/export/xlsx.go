// Package export writes stored result sets to spreadsheet files.
package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/store"
)

// ErrNoData means nothing is stored under the requested date.
var ErrNoData = eris.New("no result sets for date")

// Source lists stored result sets for a date.
type Source interface {
	Entries(ctx context.Context, dateKey string, withCandidates bool) ([]store.Entry, error)
}

var header = []string{
	"mark", "name", "occupation", "salary", "age", "location", "employment",
	"relocation", "link", "resume_type", "skills", "languages",
	"job_experience", "education", "additional_info", "unprocessed_info",
}

// FileName is <source>_<ddmmyyyy>_<label with underscores>.xlsx.
func FileName(source, dateKey, label string) string {
	name := source + "_" + strings.ReplaceAll(dateKey, ".", "") + "_" + strings.ReplaceAll(label, " ", "_") + ".xlsx"
	return strings.NewReplacer("/", "_", `\`, "_").Replace(name)
}

// WriteDate writes one workbook per (source, label) stored under dateKey
// into dir and returns the written paths.
func WriteDate(ctx context.Context, src Source, dateKey, dir string) ([]string, error) {
	entries, err := src.Entries(ctx, dateKey, true)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, eris.Wrapf(ErrNoData, "export %s", dateKey)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "export: create dir")
	}

	var paths []string
	for _, e := range entries {
		if ctx.Err() != nil {
			return paths, eris.Wrap(ctx.Err(), "export: cancelled")
		}
		path := filepath.Join(dir, FileName(e.Source, e.DateKey, e.Label))
		if err := writeSet(path, e.Candidates); err != nil {
			return paths, err
		}
		zap.L().Info("exported result set",
			zap.String("path", path),
			zap.Int("candidates", len(e.Candidates)),
		)
		paths = append(paths, path)
	}
	return paths, nil
}

func writeSet(path string, rs domain.ResultSet) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("candidates")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	addRow(sheet, header)
	for _, c := range rs {
		addRow(sheet, row(c))
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	r := sheet.AddRow()
	for _, v := range cells {
		r.AddCell().SetString(v)
	}
}

func row(c domain.ScoredCandidate) []string {
	return []string{
		strconv.FormatFloat(c.Mark, 'f', -1, 64),
		c.Name,
		c.Occupation,
		c.Salary,
		c.Age,
		c.Location,
		c.Employment,
		c.Relocation,
		c.Link,
		string(c.Shape),
		strings.Join(c.Skills, ", "),
		strings.Join(c.Languages, ", "),
		asJSON(c.JobHistory),
		asJSON(c.Education),
		c.AdditionalInfo,
		asJSON(c.Overflow),
	}
}

// asJSON renders nested entries in a single cell. Empty slices render as "".
func asJSON[T any](v []T) string {
	if len(v) == 0 {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
