package export

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/store"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "WORK_UA_05032024_python_developer.xlsx", FileName("WORK_UA", "05.03.2024", "python developer"))
	assert.Equal(t, "RABOTA_UA_05032024_ALL.xlsx", FileName("RABOTA_UA", "05.03.2024", "ALL"))
	assert.Equal(t, "WORK_UA_05032024_ci_cd.xlsx", FileName("WORK_UA", "05.03.2024", "ci/cd"))
}

func TestWriteDate(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	rs := domain.ResultSet{
		{
			CandidateRecord: domain.CandidateRecord{
				Name:       "Іван",
				Link:       "https://www.work.ua/resumes/1/",
				Skills:     []string{"Go", "SQL"},
				JobHistory: []domain.JobHistoryEntry{{Title: "Dev"}},
			},
			Mark: 1.2,
		},
		{CandidateRecord: domain.CandidateRecord{Name: "Петро"}},
	}
	_, err = db.Append(ctx, "05.03.2024", "WORK_UA", "go dev", rs)
	require.NoError(t, err)
	_, err = db.Append(ctx, "05.03.2024", "RABOTA_UA", "go dev", nil)
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := WriteDate(ctx, db, "05.03.2024", dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "WORK_UA_05032024_go_dev.xlsx"),
		filepath.Join(dir, "RABOTA_UA_05032024_go_dev.xlsx"),
	}, paths)

	f, err := xlsx.OpenFile(filepath.Join(dir, "WORK_UA_05032024_go_dev.xlsx"))
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	rows := f.Sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "mark", rows[0].Cells[0].String())
	assert.Equal(t, "1.2", rows[1].Cells[0].String())
	assert.Equal(t, "Іван", rows[1].Cells[1].String())
	assert.Equal(t, "Go, SQL", rows[1].Cells[10].String())
	assert.Equal(t, `[{"title":"Dev"}]`, rows[1].Cells[12].String())
	assert.Equal(t, "Петро", rows[2].Cells[1].String())
}

func TestWriteDateNoData(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = WriteDate(context.Background(), db, "01.01.2000", t.TempDir())
	assert.True(t, errors.Is(err, ErrNoData))
}
