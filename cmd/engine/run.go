package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"resumehunt-engine/internal/domain"
	"resumehunt-engine/internal/export"
	"resumehunt-engine/internal/runlock"
	"resumehunt-engine/internal/scrape"
)

var runCmd = &cobra.Command{
	Use:   "run [keywords...]",
	Short: "Run one candidate search and store the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		lock, err := runlock.TryAcquire(cfg.App.DataDir)
		if err != nil {
			return eris.Wrap(err, "run")
		}
		defer lock.Release() //nolint:errcheck

		crit, err := criteriaFromFlags(cmd, args)
		if err != nil {
			return err
		}
		requester, _ := cmd.Flags().GetString("requester")
		exportDir, _ := cmd.Flags().GetString("export")

		eng, err := newEngine(cfg, nil)
		if err != nil {
			return err
		}
		defer eng.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Scrape.RunTimeoutMins)*time.Minute)
		defer cancel()

		rep, runErr := eng.service(cfg).Run(ctx, requester, crit)
		formatReport(cmd.OutOrStdout(), rep)
		if runErr != nil {
			return runErr
		}

		if exportDir != "" {
			paths, err := export.WriteDate(ctx, eng.db, rep.DateKey, exportDir)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
		}
		return nil
	},
}

func criteriaFromFlags(cmd *cobra.Command, args []string) (domain.SearchCriteria, error) {
	f := cmd.Flags()
	city, _ := f.GetString("city")
	employment, _ := f.GetStringSlice("employment")
	experience, _ := f.GetStringSlice("experience")
	languages, _ := f.GetStringSlice("language")
	sources, _ := f.GetStringSlice("source")
	from, _ := f.GetInt("salary-from")
	to, _ := f.GetInt("salary-to")

	if from > 0 && to > 0 && from > to {
		return domain.SearchCriteria{}, eris.Errorf("salary-from (%d) is above salary-to (%d)", from, to)
	}

	return domain.NewSearchCriteria(domain.SearchCriteria{
		Keywords:   args,
		City:       city,
		Employment: employment,
		Experience: experience,
		Languages:  languages,
		Sources:    sources,
		Salary:     domain.SalaryRange{From: from, To: to},
	}), nil
}

func formatReport(w io.Writer, rep scrape.RunReport) {
	fmt.Fprintf(w, "run %s  date %s  query %q\n", rep.RunID, rep.DateKey, rep.Label)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tSTATUS\tPAGES\tLINKS\tCANDIDATES\tFAILED\tERROR")
	for _, s := range rep.Sources {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			s.Source, s.Termination, s.Pages, s.Links, s.Candidates, s.Failures, s.Error)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "stored %d candidates\n", rep.Added)
}

func addCriteriaFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("city", "", "city, e.g. київ")
	f.StringSlice("employment", nil, "full_time, part_time")
	f.StringSlice("experience", nil, "no_experience, less_1_year, 1_3_years, 3_5_years, 5_more_years")
	f.StringSlice("language", nil, "languages the candidate speaks")
	f.StringSlice("source", nil, "sources to search (default all enabled)")
	f.Int("salary-from", 0, "lower salary bound, UAH")
	f.Int("salary-to", 0, "upper salary bound, UAH")
}

func init() {
	addCriteriaFlags(runCmd)
	f := runCmd.Flags()
	f.String("requester", "", "who asked for the run")
	f.String("export", "", "write xlsx files for the run date into this directory")
	rootCmd.AddCommand(runCmd)
}
