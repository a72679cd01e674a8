package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 38471, cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 1000, cfg.Scrape.MaxPages)
	assert.Equal(t, 8, cfg.Scrape.Workers)
	assert.Equal(t, 1, cfg.Scrape.Retry.Attempts)
	assert.True(t, cfg.Scrape.Sources.WorkUA.Enabled)
	assert.Equal(t, "https://robota.ua", cfg.Scrape.Sources.RobotaUA.BaseURL)
	assert.True(t, cfg.Browser.Headless)
	assert.InDelta(t, 0.3, cfg.Scoring.WorkUA.Education, 0.001)
	assert.InDelta(t, 0.4, cfg.Scoring.RobotaUA.Experience, 0.001)
	assert.InDelta(t, 0.1, cfg.Scoring.WorkUA.Skills, 0.001)
	assert.InDelta(t, 0.2, cfg.Scoring.RobotaUA.Languages, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	yaml := `
log:
  level: debug
  format: console
scrape:
  workers: 3
  retry:
    attempts: 3
    backoff_ms: 10
  sources:
    robotaua:
      enabled: false
scoring:
  robotaua:
    skills: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Scrape.Workers)
	assert.Equal(t, 3, cfg.Scrape.Retry.Attempts)
	assert.False(t, cfg.Scrape.Sources.RobotaUA.Enabled)
	assert.InDelta(t, 0.5, cfg.Scoring.RobotaUA.Skills, 0.001)
	assert.InDelta(t, 0.1, cfg.Scoring.WorkUA.Skills, 0.001)
	assert.InDelta(t, 0.3, cfg.Scoring.RobotaUA.Education, 0.001)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RESUMEHUNT_SCRAPE_MAX_PAGES", "7")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Scrape.MaxPages)
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	_, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK(), "%v", res.Errors)
	assert.Empty(t, res.Warnings)

	cfg.Scrape.Workers = 0
	cfg.Scrape.Sources.WorkUA.Enabled = false
	cfg.Scrape.Sources.RobotaUA.Enabled = false
	cfg.Scoring.RobotaUA.Skills = -1
	_, res = NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
	assert.Len(t, res.Errors, 3)
	assert.Contains(t, res.Warnings, "scoring tables differ between sources; marks are not comparable across sources.")
}

func TestSaveAtomicAndEnsureUserConfig(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.App.DataDir)

	cfg.Scrape.Workers = 2
	require.NoError(t, SaveAtomic(path, cfg))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Scrape.Workers)

	cfg.App.Port = 0
	assert.Error(t, SaveAtomic(path, cfg))
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())
	assert.Error(t, InitLogger(LogConfig{Level: "loud"}))
}

func TestValidateRetention(t *testing.T) {
	cfg := Default()
	assert.Zero(t, cfg.App.RetentionDays)

	cfg.App.RetentionDays = -1
	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
	assert.Contains(t, res.Errors[0], "retention_days")
}
