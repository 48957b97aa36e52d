// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ftol-ppg-figs CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joelnitta/ftol-ppg-figs/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the ftol-ppg-figs CLI.
var rootCmd = &cobra.Command{
	Use:   "ftol-ppg-figs",
	Short: "GenBank fern accession and species accumulation pipeline",
	Long: `ftol-ppg-figs counts the fern species accumulated in GenBank per year
and genomic compartment (plastid, nuclear, mitochondrial) and renders the
summary figures.

Each pipeline stage is a subcommand: fetch queries GenBank per year and
compartment, names resolves taxon IDs against the NCBI taxonomy dump,
count joins the two into the cumulative species-by-year table, and render
draws the charts. Stages persist their output in a shared SQLite database
so they can be run independently or re-run in sequence.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ftol-ppg-figs.yaml or ~/.config/ftol-ppg-figs/config.yaml)")
	rootCmd.PersistentFlags().String("db", "data/stages.db", "SQLite stage database path")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ftol-ppg-figs")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ftol-ppg-figs"))
		}
	}

	viper.SetEnvPrefix("FTOL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dbPath resolves the stage database path from the flag, then the
// config file.
func dbPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("db"); path != "" && cmd.Flags().Changed("db") {
		return path
	}
	if path := viper.GetString("db_path"); path != "" {
		return path
	}
	path, _ := cmd.Flags().GetString("db")
	return path
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
