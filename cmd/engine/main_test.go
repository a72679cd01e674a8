package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumehunt-engine/internal/scrape"
	"resumehunt-engine/internal/scrape/types"
	"resumehunt-engine/internal/store"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"serve", "run", "history", "export", "config"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
}

func TestCriteriaFromFlags(t *testing.T) {
	cmd := &cobra.Command{}
	addCriteriaFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{
		"--city", " Львів ",
		"--employment", "full_time,FULL_TIME",
		"--salary-from", "10000",
		"--salary-to", "30000",
	}))

	crit, err := criteriaFromFlags(cmd, []string{"go", "developer"})
	require.NoError(t, err)
	assert.Equal(t, "львів", crit.City)
	assert.Equal(t, []string{"full_time"}, crit.Employment)
	assert.Equal(t, 10000, crit.Salary.From)
	assert.Equal(t, "go developer", crit.Label())
}

func TestCriteriaFromFlags_BadSalary(t *testing.T) {
	cmd := &cobra.Command{}
	addCriteriaFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--salary-from", "50000", "--salary-to", "10000"}))

	_, err := criteriaFromFlags(cmd, nil)
	assert.Error(t, err)
}

func TestFormatReport(t *testing.T) {
	var buf bytes.Buffer
	formatReport(&buf, scrape.RunReport{
		RunID:   "r1",
		DateKey: "05.03.2024",
		Label:   "go",
		Added:   3,
		Sources: []scrape.SourceReport{
			{Source: "workua", Termination: types.TerminationExhausted, Pages: 2, Links: 4, Candidates: 3, Failures: 1},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "workua")
	assert.Contains(t, out, "exhausted")
	assert.Contains(t, out, "stored 3 candidates")
}

func TestShutdownHandler_Guards(t *testing.T) {
	srv := &http.Server{}
	h := shutdownHandler("secret", srv)

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/shutdown", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/shutdown", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	r := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	r.RemoteAddr = "127.0.0.1:4000"
	r.Header.Set("X-Shutdown-Token", "wrong")
	w = httptest.NewRecorder()
	h(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRandomToken(t *testing.T) {
	tok, err := randomToken(16)
	require.NoError(t, err)
	assert.Len(t, tok, 32)
}

func TestHousekeeping(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.Append(ctx, "01.01.2024", "WORK_UA", "go", nil)
	require.NoError(t, err)

	require.NoError(t, housekeeping(db, 0)(ctx))
	dates, err := db.ListDates(ctx)
	require.NoError(t, err)
	assert.Len(t, dates, 1)
}

func TestLoadConfigValidates(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("app:\n  port: 0\n"), 0o644))

	_, err := loadConfig(bad, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.port")

	c, err := loadConfig(bad, false)
	require.NoError(t, err)
	assert.Zero(t, c.App.Port)

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("app:\n  port: 40123\n"), 0o644))
	c, err = loadConfig(good, true)
	require.NoError(t, err)
	assert.Equal(t, 40123, c.App.Port)
}
