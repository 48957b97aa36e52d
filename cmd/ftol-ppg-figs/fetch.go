// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joelnitta/ftol-ppg-figs/internal/aggregate"
	"github.com/joelnitta/ftol-ppg-figs/internal/entrez"
	"github.com/joelnitta/ftol-ppg-figs/internal/query"
	"github.com/joelnitta/ftol-ppg-figs/internal/store"
	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultBatchDelay = 350 * time.Millisecond
	defaultQueryDelay = 1 * time.Second
	defaultUserAgent  = "ftol-ppg-figs/0.1"
	defaultTool       = "ftol-ppg-figs"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Query GenBank per year and compartment and tally taxon counts",
	Long: `Fetch runs one GenBank query per (year, compartment) pair, tallies the
matching accessions by taxon ID, and stores the counts in the stage
database. Failed retrieval batches within a query are tolerated with a
warning; a query whose search itself fails is reported and skipped.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Int("year-from", query.DefaultYearFrom, "first year to fetch (inclusive)")
	fetchCmd.Flags().Int("year-to", query.DefaultYearTo, "last year to fetch (inclusive)")
	fetchCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	fetchCmd.Flags().Duration("batch-delay", defaultBatchDelay, "delay between summary batches within one query")
	fetchCmd.Flags().Duration("query-delay", defaultQueryDelay, "delay between consecutive year/compartment queries")
	fetchCmd.Flags().String("api-key", "", "NCBI API key (default: .secrets/ncbi-api-key)")
	fetchCmd.Flags().String("email", "", "contact email sent to NCBI (default: .secrets/entrez-email)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	yearFrom, _ := cmd.Flags().GetInt("year-from")
	yearTo, _ := cmd.Flags().GetInt("year-to")
	if yearFrom > yearTo {
		return fmt.Errorf("year-from %d is after year-to %d", yearFrom, yearTo)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	batchDelay, _ := cmd.Flags().GetDuration("batch-delay")
	queryDelay, _ := cmd.Flags().GetDuration("query-delay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	email, _ := cmd.Flags().GetString("email")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		APIKey:     secretDefault("ncbi-api-key", apiKey),
		Email:      secretDefault("entrez-email", email),
		Tool:       defaultTool,
		BatchDelay: batchDelay,
		QueryDelay: queryDelay,
		YearFrom:   yearFrom,
		YearTo:     yearTo,
	}

	s, err := store.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	client := entrez.NewClient(&http.Client{Timeout: cfg.Timeout}, cfg)
	ctx := context.Background()

	queries := query.BuildRange(cfg.YearFrom, cfg.YearTo)
	var fetched, failed int
	for i, q := range queries {
		if i > 0 && cfg.QueryDelay > 0 {
			time.Sleep(cfg.QueryDelay)
		}

		fmt.Fprintf(os.Stdout, "fetching %s %d\n", q.Compartment, q.Year)
		rows, err := aggregate.CountTaxa(ctx, client, q, os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s %d: %v\n", q.Compartment, q.Year, err)
			failed++
			continue
		}

		if err := s.SaveCounts(ctx, rows); err != nil {
			return fmt.Errorf("storing counts for %s %d: %w", q.Compartment, q.Year, err)
		}
		fetched++
	}

	fmt.Fprintf(os.Stdout, "\nFetch summary: %d queries stored, %d failed (total: %d)\n",
		fetched, failed, len(queries))
	if failed > 0 {
		return fmt.Errorf("%d quer(ies) failed", failed)
	}
	return nil
}
