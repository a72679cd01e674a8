package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"resumehunt-engine/internal/config"
)

// configCmd loads without validating so a broken config can still be
// inspected and reported.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the engine configuration",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(false)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config into the data directory if it is missing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.EnsureUserConfig(cfg.App.DataDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the loaded config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
		}
		for _, e := range vr.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", e)
		}
		if !vr.OK() {
			return eris.Errorf("config has %d errors", len(vr.Errors))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
