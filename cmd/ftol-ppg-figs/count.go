// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joelnitta/ftol-ppg-figs/internal/aggregate"
	"github.com/joelnitta/ftol-ppg-figs/internal/query"
	"github.com/joelnitta/ftol-ppg-figs/internal/store"
	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Compute the cumulative species-by-year table",
	Long: `Count joins the stored taxon counts to the resolved species names and
computes, for each year in range, the cumulative distinct-species and
accession counts per compartment plus a "total" row. The table is stored
in the stage database and optionally written to YAML and CSV.`,
	RunE: runCount,
}

func init() {
	countCmd.Flags().Int("year-from", query.DefaultYearFrom, "first year to summarize (inclusive)")
	countCmd.Flags().Int("year-to", query.DefaultYearTo, "last year to summarize (inclusive)")
	countCmd.Flags().String("out-yaml", "", "write the summary as YAML to this path")
	countCmd.Flags().String("out-csv", "", "write the summary as CSV to this path")
	countCmd.Flags().Bool("table", false, "print the summary as a table")

	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	yearFrom, _ := cmd.Flags().GetInt("year-from")
	yearTo, _ := cmd.Flags().GetInt("year-to")
	if yearFrom > yearTo {
		return fmt.Errorf("year-from %d is after year-to %d", yearFrom, yearTo)
	}
	outYAML, _ := cmd.Flags().GetString("out-yaml")
	outCSV, _ := cmd.Flags().GetString("out-csv")
	printTable, _ := cmd.Flags().GetBool("table")
	cfg := types.CountConfig{
		YearFrom:    yearFrom,
		YearTo:      yearTo,
		SummaryYAML: outYAML,
		SummaryCSV:  outCSV,
	}

	s, err := store.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	counts, err := s.LoadCounts(ctx)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		return fmt.Errorf("no taxon counts in the stage database: run fetch first")
	}
	names, err := s.LoadNames(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no species names in the stage database: run names first")
	}

	summary := aggregate.Summarize(counts, names, cfg.YearFrom, cfg.YearTo)

	if err := s.SaveSummary(ctx, summary); err != nil {
		return err
	}

	if cfg.SummaryYAML != "" {
		if err := aggregate.WriteSummaryYAML(cfg.SummaryYAML, cfg.YearFrom, cfg.YearTo, summary); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", cfg.SummaryYAML)
	}
	if cfg.SummaryCSV != "" {
		f, err := os.Create(cfg.SummaryCSV)
		if err != nil {
			return fmt.Errorf("creating %s: %w", cfg.SummaryCSV, err)
		}
		writeErr := aggregate.WriteSummaryCSV(f, summary)
		closeErr := f.Close()
		if writeErr != nil {
			return writeErr
		}
		if closeErr != nil {
			return fmt.Errorf("closing %s: %w", cfg.SummaryCSV, closeErr)
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", cfg.SummaryCSV)
	}

	if printTable {
		aggregate.FormatTable(summary, os.Stdout)
	} else {
		fmt.Fprintf(os.Stdout, "summarized %d rows for %d-%d\n", len(summary), yearFrom, yearTo)
	}
	return nil
}
