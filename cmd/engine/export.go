package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resumehunt-engine/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <dd.mm.yyyy>",
	Short: "Write the result sets of a date to xlsx files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck

		paths, err := export.WriteDate(cmd.Context(), db, args[0], dir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("dir", ".", "output directory")
	rootCmd.AddCommand(exportCmd)
}
