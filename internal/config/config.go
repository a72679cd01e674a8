package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Weights is one source's scoring table. Each weight multiplies the number
// of entries found in that section of a candidate record.
type Weights struct {
	Education  float64 `yaml:"education" mapstructure:"education" json:"education"`
	Experience float64 `yaml:"experience" mapstructure:"experience" json:"experience"`
	Skills     float64 `yaml:"skills" mapstructure:"skills" json:"skills"`
	Languages  float64 `yaml:"languages" mapstructure:"languages" json:"languages"`
}

type AppConfig struct {
	Port    int    `yaml:"port" mapstructure:"port" json:"port"`
	DataDir string `yaml:"data_dir" mapstructure:"data_dir" json:"data_dir"`
	// RetentionDays drops stored result sets older than this. 0 keeps them.
	RetentionDays int `yaml:"retention_days" mapstructure:"retention_days" json:"retention_days"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" json:"level"`
	Format string `yaml:"format" mapstructure:"format" json:"format"`
}

type RetryConfig struct {
	// Attempts counts the first try. 1 means failed fetches are not retried.
	Attempts  int `yaml:"attempts" mapstructure:"attempts" json:"attempts"`
	BackoffMs int `yaml:"backoff_ms" mapstructure:"backoff_ms" json:"backoff_ms"`
}

type SourceConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled" json:"enabled"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url" json:"base_url"`
}

type SourcesConfig struct {
	WorkUA   SourceConfig `yaml:"workua" mapstructure:"workua" json:"workua"`
	RobotaUA SourceConfig `yaml:"robotaua" mapstructure:"robotaua" json:"robotaua"`
}

type ScrapeConfig struct {
	MaxPages        int           `yaml:"max_pages" mapstructure:"max_pages" json:"max_pages"`
	Workers         int           `yaml:"workers" mapstructure:"workers" json:"workers"`
	PageTimeoutSecs int           `yaml:"page_timeout_secs" mapstructure:"page_timeout_secs" json:"page_timeout_secs"`
	RunTimeoutMins  int           `yaml:"run_timeout_mins" mapstructure:"run_timeout_mins" json:"run_timeout_mins"`
	RatePerSec      float64       `yaml:"rate_per_sec" mapstructure:"rate_per_sec" json:"rate_per_sec"`
	Burst           int           `yaml:"burst" mapstructure:"burst" json:"burst"`
	Retry           RetryConfig   `yaml:"retry" mapstructure:"retry" json:"retry"`
	Sources         SourcesConfig `yaml:"sources" mapstructure:"sources" json:"sources"`
}

type BrowserConfig struct {
	Headless     bool `yaml:"headless" mapstructure:"headless" json:"headless"`
	NavTimeoutMs int  `yaml:"nav_timeout_ms" mapstructure:"nav_timeout_ms" json:"nav_timeout_ms"`
}

// ScoringConfig keeps one table per source so they can be tuned apart.
type ScoringConfig struct {
	WorkUA   Weights `yaml:"workua" mapstructure:"workua" json:"workua"`
	RobotaUA Weights `yaml:"robotaua" mapstructure:"robotaua" json:"robotaua"`
}

type Config struct {
	App     AppConfig     `yaml:"app" mapstructure:"app" json:"app"`
	Log     LogConfig     `yaml:"log" mapstructure:"log" json:"log"`
	Scrape  ScrapeConfig  `yaml:"scrape" mapstructure:"scrape" json:"scrape"`
	Browser BrowserConfig `yaml:"browser" mapstructure:"browser" json:"browser"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring" json:"scoring"`
}

// DefaultWeights is the stock table shared by both sources.
func DefaultWeights() Weights {
	return Weights{Education: 0.3, Experience: 0.4, Skills: 0.1, Languages: 0.2}
}

func setDefaults(v *viper.Viper) {
	w := DefaultWeights()
	v.SetDefault("app.port", 38471)
	v.SetDefault("app.data_dir", "./data")
	v.SetDefault("app.retention_days", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("scrape.max_pages", 1000)
	v.SetDefault("scrape.workers", 8)
	v.SetDefault("scrape.page_timeout_secs", 60)
	v.SetDefault("scrape.run_timeout_mins", 120)
	v.SetDefault("scrape.rate_per_sec", 4.0)
	v.SetDefault("scrape.burst", 4)
	v.SetDefault("scrape.retry.attempts", 1)
	v.SetDefault("scrape.retry.backoff_ms", 500)
	v.SetDefault("scrape.sources.workua.enabled", true)
	v.SetDefault("scrape.sources.workua.base_url", "https://www.work.ua")
	v.SetDefault("scrape.sources.robotaua.enabled", true)
	v.SetDefault("scrape.sources.robotaua.base_url", "https://robota.ua")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.nav_timeout_ms", 50000)
	for _, src := range []string{"workua", "robotaua"} {
		v.SetDefault("scoring."+src+".education", w.Education)
		v.SetDefault("scoring."+src+".experience", w.Experience)
		v.SetDefault("scoring."+src+".skills", w.Skills)
		v.SetDefault("scoring."+src+".languages", w.Languages)
	}
}

// Default returns the configuration used when no file or env overrides it.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load reads path (or ./config.yaml when path is empty), then RESUMEHUNT_*
// environment variables, over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RESUMEHUNT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "config: unmarshal")
	}
	return cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
