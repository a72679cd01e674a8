package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resumehunt-engine/internal/config"
)

var (
	cfg     config.Config
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "resumehunt",
	Short: "Candidate search engine for Ukrainian job boards",
	Long:  "Searches work.ua and robota.ua for candidate profiles, scores them by profile completeness and keeps the results by date.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(true)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

// setup loads the config into cfg and starts the logger. With validate
// set, a config the engine cannot run with is an error.
func setup(validate bool) error {
	c, err := loadConfig(cfgPath, validate)
	if err != nil {
		return err
	}
	cfg = c

	if err := config.InitLogger(cfg.Log); err != nil {
		return eris.Wrap(err, "init logger")
	}
	return nil
}

func loadConfig(path string, validate bool) (config.Config, error) {
	c, err := config.Load(path)
	if err != nil {
		return config.Config{}, eris.Wrap(err, "load config")
	}
	if validate {
		if err := config.Validate(c); err != nil {
			return config.Config{}, err
		}
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
