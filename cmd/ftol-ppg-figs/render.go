// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joelnitta/ftol-ppg-figs/internal/render"
	"github.com/joelnitta/ftol-ppg-figs/internal/store"
	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw the accumulation chart and the participant chart",
	Long: `Render draws the cumulative species-per-year chart from the stored
summary table, and, when a roster CSV is given, a participants-per-country
chart. Output format follows the file extension (.svg, .png, .pdf).`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("out", "output/accumulation.svg", "output path of the accumulation chart")
	renderCmd.Flags().String("roster", "", "participant roster CSV (skips the participant chart when empty)")
	renderCmd.Flags().String("country-col", "country", "roster column holding the country")
	renderCmd.Flags().String("roster-out", "output/participants.svg", "output path of the participant chart")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	roster, _ := cmd.Flags().GetString("roster")
	countryCol, _ := cmd.Flags().GetString("country-col")
	rosterOut, _ := cmd.Flags().GetString("roster-out")

	cfg := types.RenderConfig{
		AccumulationPath:    out,
		RosterPath:          roster,
		RosterCountryColumn: countryCol,
		ParticipantPath:     rosterOut,
	}

	s, err := store.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.LoadSummary(context.Background())
	if err != nil {
		return err
	}
	if len(summary) == 0 {
		return fmt.Errorf("no summary in the stage database: run count first")
	}

	if err := render.AccumulationChart(summary, cfg.AccumulationPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", cfg.AccumulationPath)

	if cfg.RosterPath == "" {
		return nil
	}

	f, err := os.Open(cfg.RosterPath)
	if err != nil {
		return fmt.Errorf("opening roster %s: %w", cfg.RosterPath, err)
	}
	byCountry, err := render.CountByCountry(f, cfg)
	f.Close()
	if err != nil {
		return err
	}

	if err := render.ParticipantChart(byCountry, cfg.ParticipantPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", cfg.ParticipantPath)
	return nil
}
