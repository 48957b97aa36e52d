// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate tallies fetched accessions into per-year taxon
// counts and joins them with resolved species names into the final
// species-by-year accumulation table.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/joelnitta/ftol-ppg-figs/internal/entrez"
	"github.com/joelnitta/ftol-ppg-figs/internal/query"
	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// Fetcher retrieves sequence records for an Entrez term. *entrez.Client
// implements it; tests substitute a fake.
type Fetcher interface {
	FetchRecords(ctx context.Context, term string, fields []entrez.Field, w io.Writer) (entrez.FetchOutput, error)
}

// CountTaxa fetches the taxon IDs of all records matching q within its
// year and tallies accessions per taxon ID. The output has exactly one
// row per distinct taxon ID, tagged with q's year and compartment, in
// ascending taxon ID order. Sentinel rows (empty taxon ID) from
// zero-match queries or failed batches pass through as a row of their
// own so every (year, compartment) pair yields at least one row.
func CountTaxa(ctx context.Context, f Fetcher, q types.YearTypeQuery, w io.Writer) ([]types.TaxonYearCount, error) {
	term := query.DateBounded(q)

	out, err := f.FetchRecords(ctx, term, []entrez.Field{entrez.FieldTaxID}, w)
	if err != nil {
		return nil, fmt.Errorf("fetching %s %d: %w", q.Compartment, q.Year, err)
	}

	tally := make(map[string]int)
	for _, rec := range out.Records {
		tally[rec.TaxID]++
	}

	taxids := make([]string, 0, len(tally))
	for id := range tally {
		taxids = append(taxids, id)
	}
	sort.Strings(taxids)

	rows := make([]types.TaxonYearCount, 0, len(taxids))
	for _, id := range taxids {
		rows = append(rows, types.TaxonYearCount{
			TaxID:       id,
			N:           tally[id],
			Compartment: q.Compartment,
			Year:        q.Year,
		})
	}
	return rows, nil
}
