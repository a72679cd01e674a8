package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))
	out.Log.Format = strings.ToLower(strings.TrimSpace(out.Log.Format))
	out.Scrape.Sources.WorkUA.BaseURL = strings.TrimRight(strings.TrimSpace(out.Scrape.Sources.WorkUA.BaseURL), "/")
	out.Scrape.Sources.RobotaUA.BaseURL = strings.TrimRight(strings.TrimSpace(out.Scrape.Sources.RobotaUA.BaseURL), "/")

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if out.App.RetentionDays < 0 {
		res.addErr("app.retention_days must be >= 0 (got %d)", out.App.RetentionDays)
	}
	if strings.TrimSpace(out.App.DataDir) == "" {
		res.addErr("app.data_dir is required")
	}
	switch out.Log.Format {
	case "json", "console":
	default:
		res.addErr("log.format must be json or console, got %q", out.Log.Format)
	}

	// scrape sanity
	if out.Scrape.MaxPages <= 0 {
		res.addErr("scrape.max_pages must be > 0")
	} else if out.Scrape.MaxPages > 1000 {
		res.addWarn("scrape.max_pages is %d; runs may take hours.", out.Scrape.MaxPages)
	}
	if out.Scrape.Workers <= 0 {
		res.addErr("scrape.workers must be > 0")
	} else if out.Scrape.Workers > 32 {
		res.addWarn("scrape.workers is very high (%d) and may get the engine blocked.", out.Scrape.Workers)
	}
	if out.Scrape.Retry.Attempts < 1 {
		res.addErr("scrape.retry.attempts must be >= 1")
	}
	if out.Scrape.Retry.BackoffMs < 0 {
		res.addErr("scrape.retry.backoff_ms must be >= 0")
	}
	if out.Scrape.RatePerSec <= 0 {
		res.addWarn("scrape.rate_per_sec is %v; requests will not be rate limited.", out.Scrape.RatePerSec)
	}
	if !out.Scrape.Sources.WorkUA.Enabled && !out.Scrape.Sources.RobotaUA.Enabled {
		res.addErr("no sources enabled: enable scrape.sources.workua or scrape.sources.robotaua")
	}
	if out.Browser.NavTimeoutMs <= 0 {
		res.addErr("browser.nav_timeout_ms must be > 0")
	}

	checkWeights := func(name string, w Weights) {
		if w.Education < 0 || w.Experience < 0 || w.Skills < 0 || w.Languages < 0 {
			res.addErr("%s weights must be >= 0", name)
		}
		if w == (Weights{}) {
			res.addWarn("%s weights are all zero; every candidate will score 0.", name)
		}
	}
	checkWeights("scoring.workua", out.Scoring.WorkUA)
	checkWeights("scoring.robotaua", out.Scoring.RobotaUA)

	if out.Scoring.WorkUA != out.Scoring.RobotaUA {
		res.addWarn("scoring tables differ between sources; marks are not comparable across sources.")
	}

	return out, res
}
