// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joelnitta/ftol-ppg-figs/internal/store"
	"github.com/joelnitta/ftol-ppg-figs/internal/taxonomy"
	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Resolve fetched taxon IDs to species names from the NCBI taxonomy dump",
	Long: `Names reads the distinct taxon IDs stored by fetch, resolves them to
scientific species names from the NCBI taxdump archive, and stores the
result. The archive is downloaded first unless it already exists locally.
Hybrid formulas, unidentified ranks, environmental samples, and
single-word names are excluded.`,
	RunE: runNames,
}

func init() {
	namesCmd.Flags().String("taxdump", "data/taxdmp.zip", "local path of the taxdump archive")
	namesCmd.Flags().String("taxdump-url", taxonomy.DefaultArchiveURL, "download URL used when the archive is missing")
	namesCmd.Flags().Duration("timeout", 5*time.Minute, "HTTP timeout for the archive download")

	rootCmd.AddCommand(namesCmd)
}

func runNames(cmd *cobra.Command, args []string) error {
	archivePath, _ := cmd.Flags().GetString("taxdump")
	archiveURL, _ := cmd.Flags().GetString("taxdump-url")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := types.TaxonomyConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		ArchivePath: archivePath,
		ArchiveURL:  archiveURL,
	}

	s, err := store.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	keep, err := s.DistinctTaxonIDs(ctx)
	if err != nil {
		return err
	}
	if len(keep) == 0 {
		return fmt.Errorf("no taxon IDs in the stage database: run fetch first")
	}

	client := &http.Client{Timeout: cfg.Timeout}
	skipped, err := taxonomy.Download(ctx, client, cfg.ArchiveURL, cfg.ArchivePath, cfg)
	if err != nil {
		return fmt.Errorf("downloading taxdump: %w", err)
	}
	if skipped {
		fmt.Fprintf(os.Stdout, "using existing archive %s\n", cfg.ArchivePath)
	} else {
		fmt.Fprintf(os.Stdout, "downloaded %s\n", cfg.ArchivePath)
	}

	names, err := taxonomy.LoadNames(cfg.ArchivePath, keep)
	if err != nil {
		return err
	}

	if err := s.SaveNames(ctx, names); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "resolved %d of %d taxon IDs to clean species names\n",
		len(names), len(keep))
	return nil
}
