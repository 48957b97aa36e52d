// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// joinedRow is a taxon-year count whose taxon ID resolved to a species
// name.
type joinedRow struct {
	species     string
	n           int
	compartment types.Compartment
	year        int
}

// Summarize joins taxon-year counts to species names and computes the
// cumulative accumulation table for years yearFrom through yearTo
// inclusive.
//
// Sentinel rows (empty taxon ID) are dropped first. The join is inner:
// taxon IDs without a resolved name do not count as species. For each
// requested year y the counts cover all joined rows with year <= y, so
// both n_species and n_acc are non-decreasing in y. Each year
// contributes one row per compartment present plus a "total" row over
// all compartments; the total's n_acc is the sum of the compartment
// n_acc values, while its n_species can be smaller than their sum
// because a species may appear in several compartments.
func Summarize(counts []types.TaxonYearCount, names []types.TaxonName, yearFrom, yearTo int) []types.YearCompartmentSummary {
	nameByTaxID := make(map[string]string, len(names))
	for _, n := range names {
		nameByTaxID[n.TaxID] = n.Species
	}

	var joined []joinedRow
	for _, c := range counts {
		if c.TaxID == "" {
			continue
		}
		species, ok := nameByTaxID[c.TaxID]
		if !ok {
			continue
		}
		joined = append(joined, joinedRow{
			species:     species,
			n:           c.N,
			compartment: c.Compartment,
			year:        c.Year,
		})
	}

	var summary []types.YearCompartmentSummary
	for year := yearFrom; year <= yearTo; year++ {
		summary = append(summary, summarizeThrough(joined, year)...)
	}
	return summary
}

// summarizeThrough computes the per-compartment and total rows over all
// joined rows with year <= y.
func summarizeThrough(joined []joinedRow, y int) []types.YearCompartmentSummary {
	type tally struct {
		species map[string]struct{}
		acc     int
	}
	perCompartment := make(map[types.Compartment]*tally)
	total := tally{species: make(map[string]struct{})}

	for _, r := range joined {
		if r.year > y {
			continue
		}
		t, ok := perCompartment[r.compartment]
		if !ok {
			t = &tally{species: make(map[string]struct{})}
			perCompartment[r.compartment] = t
		}
		t.species[r.species] = struct{}{}
		t.acc += r.n
		total.species[r.species] = struct{}{}
		total.acc += r.n
	}

	var rows []types.YearCompartmentSummary
	for _, c := range types.Compartments {
		t, ok := perCompartment[c]
		if !ok {
			continue
		}
		rows = append(rows, types.YearCompartmentSummary{
			Year:        y,
			Compartment: c,
			NSpecies:    len(t.species),
			NAcc:        t.acc,
		})
	}
	if len(rows) > 0 {
		rows = append(rows, types.YearCompartmentSummary{
			Year:        y,
			Compartment: types.CompartmentTotal,
			NSpecies:    len(total.species),
			NAcc:        total.acc,
		})
	}
	return rows
}
