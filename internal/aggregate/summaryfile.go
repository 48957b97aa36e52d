// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// SummaryFile is the on-disk representation of an accumulation run. The
// year range and timestamp travel with the rows so a summary can be
// re-rendered later without re-running the count stage.
type SummaryFile struct {
	YearFrom  int                            `yaml:"year_from"`
	YearTo    int                            `yaml:"year_to"`
	Generated time.Time                      `yaml:"generated"`
	Rows      []types.YearCompartmentSummary `yaml:"rows"`
}

// WriteSummaryYAML saves the summary table and its year range to a YAML file.
func WriteSummaryYAML(path string, yearFrom, yearTo int, rows []types.YearCompartmentSummary) error {
	sf := SummaryFile{
		YearFrom:  yearFrom,
		YearTo:    yearTo,
		Generated: time.Now().UTC(),
		Rows:      rows,
	}

	data, err := yaml.Marshal(sf)
	if err != nil {
		return fmt.Errorf("marshalling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing summary file: %w", err)
	}
	return nil
}

// ReadSummaryYAML loads a summary file written by WriteSummaryYAML.
func ReadSummaryYAML(path string) (SummaryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SummaryFile{}, fmt.Errorf("reading summary file: %w", err)
	}
	var sf SummaryFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return SummaryFile{}, fmt.Errorf("parsing summary file %s: %w", path, err)
	}
	return sf, nil
}

// WriteSummaryCSV writes the summary table as CSV with a header row.
func WriteSummaryCSV(w io.Writer, rows []types.YearCompartmentSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "compartment", "n_species", "n_acc"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Year),
			string(r.Compartment),
			strconv.Itoa(r.NSpecies),
			strconv.Itoa(r.NAcc),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatTable writes the summary as a human-readable table to w.
func FormatTable(rows []types.YearCompartmentSummary, w io.Writer) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No summary rows.")
		return
	}

	fmt.Fprintf(w, "%-6s  %-14s  %10s  %10s\n", "Year", "Compartment", "Species", "Accessions")
	for _, r := range rows {
		fmt.Fprintf(w, "%-6d  %-14s  %10d  %10d\n", r.Year, r.Compartment, r.NSpecies, r.NAcc)
	}
	fmt.Fprintf(w, "\n%d rows\n", len(rows))
}
