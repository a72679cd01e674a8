package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"resumehunt-engine/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the dates that have stored results",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck

		dates, err := db.ListDates(cmd.Context())
		if err != nil {
			return err
		}
		if len(dates) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No results stored yet.")
			return nil
		}
		for _, d := range dates {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <dd.mm.yyyy>",
	Short: "Show the result sets stored for a date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck

		entries, err := db.Entries(cmd.Context(), args[0], false)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "No results for %s.\n", args[0])
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SOURCE\tQUERY\tCANDIDATES\tSTORED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Source, e.Label, e.Count, e.CreatedAt.Local().Format(time.DateTime))
		}
		return tw.Flush()
	},
}

var historyCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete result sets older than a given age",
	RunE: func(cmd *cobra.Command, _ []string) error {
		age, _ := cmd.Flags().GetDuration("older-than")

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck

		n, err := db.CleanupOlderThan(cmd.Context(), age)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d result sets\n", n)
		return nil
	},
}

func openStore() (*store.DB, error) {
	return store.Open(filepath.Join(cfg.App.DataDir, dbFile))
}

func init() {
	historyCleanupCmd.Flags().Duration("older-than", 30*24*time.Hour, "age of result sets to delete")
	historyCmd.AddCommand(historyShowCmd, historyCleanupCmd)
	rootCmd.AddCommand(historyCmd)
}
