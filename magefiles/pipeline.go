//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// runCLI executes the built pipeline binary with args.
func runCLI(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", binName, args, err)
	}
	return nil
}

// Fetch queries GenBank per year and compartment and stores taxon counts.
func Fetch() error {
	mg.Deps(Build, Init)
	return runCLI("fetch")
}

// Names resolves stored taxon IDs against the NCBI taxonomy dump.
func Names() error {
	mg.Deps(Build, Init)
	return runCLI("names")
}

// Count computes the cumulative species-by-year table and exports it.
func Count() error {
	mg.Deps(Build, Init)
	return runCLI("count",
		"--out-yaml", "output/summary.yaml",
		"--out-csv", "output/summary.csv")
}

// Render draws the accumulation and participant charts.
func Render() error {
	mg.Deps(Build, Init)
	return runCLI("render")
}

// All runs the full pipeline: fetch, names, count, render.
func All() error {
	mg.SerialDeps(Fetch, Names, Count, Render)
	return nil
}
