// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/joelnitta/ftol-ppg-figs/internal/entrez"
	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// fakeFetcher returns canned records and captures the searched term.
type fakeFetcher struct {
	records []types.SequenceRecord
	errs    []string
	err     error

	gotTerm   string
	gotFields []entrez.Field
}

func (f *fakeFetcher) FetchRecords(_ context.Context, term string, fields []entrez.Field, _ io.Writer) (entrez.FetchOutput, error) {
	f.gotTerm = term
	f.gotFields = fields
	if f.err != nil {
		return entrez.FetchOutput{}, f.err
	}
	return entrez.FetchOutput{Records: f.records, BatchErrors: f.errs}, nil
}

func taxidRecords(ids ...string) []types.SequenceRecord {
	recs := make([]types.SequenceRecord, len(ids))
	for i, id := range ids {
		recs[i] = types.SequenceRecord{TaxID: id}
	}
	return recs
}

func TestCountTaxaGroupsByTaxID(t *testing.T) {
	f := &fakeFetcher{records: taxidRecords("9", "32064", "9", "9", "32064")}
	q := types.YearTypeQuery{
		Year:        2000,
		Compartment: types.CompartmentPlastid,
		Query:       `Polypodiopsida[ORGN] AND plastid[FILT]`,
	}

	rows, err := CountTaxa(context.Background(), f, q, io.Discard)
	if err != nil {
		t.Fatalf("CountTaxa() error: %v", err)
	}

	want := []types.TaxonYearCount{
		{TaxID: "32064", N: 2, Compartment: types.CompartmentPlastid, Year: 2000},
		{TaxID: "9", N: 3, Compartment: types.CompartmentPlastid, Year: 2000},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestCountTaxaRequestsOnlyTaxID(t *testing.T) {
	f := &fakeFetcher{records: taxidRecords("9")}
	q := types.YearTypeQuery{Year: 2000, Compartment: types.CompartmentPlastid, Query: "q"}

	if _, err := CountTaxa(context.Background(), f, q, io.Discard); err != nil {
		t.Fatalf("CountTaxa() error: %v", err)
	}
	if len(f.gotFields) != 1 || f.gotFields[0] != entrez.FieldTaxID {
		t.Errorf("fields = %v, want [taxid]", f.gotFields)
	}
}

func TestCountTaxaDateBoundsTerm(t *testing.T) {
	f := &fakeFetcher{records: taxidRecords("9")}
	q := types.YearTypeQuery{
		Year:        1995,
		Compartment: types.CompartmentMitochondrial,
		Query:       `Polypodiopsida[ORGN] AND mitochondrion[FILT]`,
	}

	if _, err := CountTaxa(context.Background(), f, q, io.Discard); err != nil {
		t.Fatalf("CountTaxa() error: %v", err)
	}
	for _, part := range []string{q.Query, `"1995/01/01"[PDAT]`, `"1996/01/01"[PDAT]`} {
		if !strings.Contains(f.gotTerm, part) {
			t.Errorf("term %q missing %q", f.gotTerm, part)
		}
	}
}

func TestCountTaxaSentinelPassesThrough(t *testing.T) {
	// A zero-match fetch yields a single sentinel record; the tally must
	// still produce one row for the year.
	f := &fakeFetcher{records: []types.SequenceRecord{{}}}
	q := types.YearTypeQuery{Year: 1991, Compartment: types.CompartmentNuclear, Query: "q"}

	rows, err := CountTaxa(context.Background(), f, q, io.Discard)
	if err != nil {
		t.Fatalf("CountTaxa() error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].TaxID != "" || rows[0].N != 1 || rows[0].Year != 1991 {
		t.Errorf("sentinel row = %+v", rows[0])
	}
}

func TestCountTaxaFetchErrorPropagates(t *testing.T) {
	f := &fakeFetcher{err: fmt.Errorf("boom")}
	q := types.YearTypeQuery{Year: 2000, Compartment: types.CompartmentPlastid, Query: "q"}

	if _, err := CountTaxa(context.Background(), f, q, io.Discard); err == nil {
		t.Fatal("CountTaxa() returned nil error for failed fetch")
	}
}

func TestCountTaxaUniquePerTuple(t *testing.T) {
	f := &fakeFetcher{records: taxidRecords("1", "2", "1", "3", "2", "1")}
	q := types.YearTypeQuery{Year: 2010, Compartment: types.CompartmentPlastid, Query: "q"}

	rows, err := CountTaxa(context.Background(), f, q, io.Discard)
	if err != nil {
		t.Fatalf("CountTaxa() error: %v", err)
	}

	seen := make(map[string]bool)
	for _, r := range rows {
		key := fmt.Sprintf("%s|%d|%s", r.TaxID, r.Year, r.Compartment)
		if seen[key] {
			t.Errorf("duplicate row for %s", key)
		}
		seen[key] = true
	}
}
