// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query builds the year x compartment Entrez query cross-product.
package query

import (
	"fmt"

	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// Default year range of the accumulation analysis, inclusive.
const (
	DefaultYearFrom = 1990
	DefaultYearTo   = 2023
)

// templates are the fixed per-compartment Entrez queries for fern
// (Polypodiopsida) nucleotide records. The compartment tag travels with
// the template so it never has to be recovered from the query text.
var templates = []types.YearTypeQuery{
	{Compartment: types.CompartmentPlastid, Query: `Polypodiopsida[ORGN] AND plastid[FILT]`},
	{Compartment: types.CompartmentNuclear, Query: `Polypodiopsida[ORGN] AND "genomic dna/rna"[FILT] NOT plastid[FILT] NOT mitochondrion[FILT]`},
	{Compartment: types.CompartmentMitochondrial, Query: `Polypodiopsida[ORGN] AND mitochondrion[FILT]`},
}

// Build returns the full cross-product over the default year range:
// one YearTypeQuery per (year, compartment) pair, years ascending,
// compartments in canonical order within a year.
func Build() []types.YearTypeQuery {
	return BuildRange(DefaultYearFrom, DefaultYearTo)
}

// BuildRange returns the cross-product for years yearFrom through
// yearTo inclusive. The output is deterministic.
func BuildRange(yearFrom, yearTo int) []types.YearTypeQuery {
	var queries []types.YearTypeQuery
	for year := yearFrom; year <= yearTo; year++ {
		for _, tmpl := range templates {
			queries = append(queries, types.YearTypeQuery{
				Year:        year,
				Compartment: tmpl.Compartment,
				Query:       tmpl.Query,
			})
		}
	}
	return queries
}

// DateBounded returns q's query restricted to records published in
// [year, year+1), expressed as an inclusive PDAT range ending on the
// following January 1st.
func DateBounded(q types.YearTypeQuery) string {
	return fmt.Sprintf(`%s AND ("%d/01/01"[PDAT] : "%d/01/01"[PDAT])`,
		q.Query, q.Year, q.Year+1)
}
