// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

func TestCountByCountry(t *testing.T) {
	roster := strings.NewReader(
		"name,affiliation,Country\n" +
			"A,Univ 1,Japan\n" +
			"B,Univ 2,Brazil\n" +
			"C,Univ 3,Japan\n" +
			"D,Univ 4,\n")

	counts, err := CountByCountry(roster, types.RenderConfig{})
	if err != nil {
		t.Fatalf("CountByCountry() error: %v", err)
	}

	want := map[string]int{"Japan": 2, "Brazil": 1}
	if len(counts) != len(want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
	for country, n := range want {
		if counts[country] != n {
			t.Errorf("%s = %d, want %d", country, counts[country], n)
		}
	}
}

func TestCountByCountryCustomColumn(t *testing.T) {
	roster := strings.NewReader("name,nation\nA,Fiji\n")

	counts, err := CountByCountry(roster, types.RenderConfig{RosterCountryColumn: "nation"})
	if err != nil {
		t.Fatalf("CountByCountry() error: %v", err)
	}
	if counts["Fiji"] != 1 {
		t.Errorf("counts = %v, want Fiji: 1", counts)
	}
}

func TestCountByCountryMissingColumn(t *testing.T) {
	roster := strings.NewReader("name,affiliation\nA,Univ 1\n")

	if _, err := CountByCountry(roster, types.RenderConfig{}); err == nil {
		t.Fatal("CountByCountry() returned nil error for missing column")
	}
}

func TestAccumulationChartWritesFile(t *testing.T) {
	summary := []types.YearCompartmentSummary{
		{Year: 2000, Compartment: types.CompartmentPlastid, NSpecies: 1, NAcc: 3},
		{Year: 2001, Compartment: types.CompartmentPlastid, NSpecies: 2, NAcc: 5},
		{Year: 2000, Compartment: types.CompartmentTotal, NSpecies: 1, NAcc: 3},
		{Year: 2001, Compartment: types.CompartmentTotal, NSpecies: 2, NAcc: 5},
	}

	path := filepath.Join(t.TempDir(), "accumulation.svg")
	if err := AccumulationChart(summary, path); err != nil {
		t.Fatalf("AccumulationChart() error: %v", err)
	}
}

func TestAccumulationChartEmptyFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accumulation.svg")
	if err := AccumulationChart(nil, path); err == nil {
		t.Fatal("AccumulationChart() returned nil error for empty summary")
	}
}

func TestParticipantChartWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "participants.svg")
	byCountry := map[string]int{"Japan": 4, "Brazil": 2, "Fiji": 1}
	if err := ParticipantChart(byCountry, path); err != nil {
		t.Fatalf("ParticipantChart() error: %v", err)
	}
}
