// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// writeTaxdump builds a zip archive containing the given names.dmp
// content. Lines are written in the dump's "\t|\t"-delimited format.
func writeTaxdump(t *testing.T, lines []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "taxdmp.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating archive: %v", err)
	}
	zw := zip.NewWriter(f)

	w, err := zw.Create("names.dmp")
	if err != nil {
		t.Fatalf("creating names.dmp member: %v", err)
	}
	if _, err := w.Write([]byte(strings.Join(lines, "\n"))); err != nil {
		t.Fatalf("writing names.dmp: %v", err)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return path
}

// dumpLine formats one names.dmp record.
func dumpLine(taxID, name, unique, class string) string {
	return taxID + "\t|\t" + name + "\t|\t" + unique + "\t|\t" + class + "\t|"
}

func keepSet(ids ...string) map[string]struct{} {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	return keep
}

func TestLoadNamesKeepsCleanBinomials(t *testing.T) {
	archive := writeTaxdump(t, []string{
		dumpLine("32064", "Equisetum giganteum", "", "scientific name"),
		dumpLine("126583", "Adiantum capillus-veneris", "", "scientific name"),
	})

	names, err := LoadNames(archive, keepSet("32064", "126583"))
	if err != nil {
		t.Fatalf("LoadNames() error: %v", err)
	}

	want := []types.TaxonName{
		{TaxID: "126583", Species: "Adiantum capillus-veneris"},
		{TaxID: "32064", Species: "Equisetum giganteum"},
	}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d: %+v", len(names), len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("name %d = %+v, want %+v", i, names[i], want[i])
		}
	}
}

func TestLoadNamesRestrictsToRetainSet(t *testing.T) {
	archive := writeTaxdump(t, []string{
		dumpLine("32064", "Equisetum giganteum", "", "scientific name"),
		dumpLine("9606", "Homo sapiens", "", "scientific name"),
	})

	names, err := LoadNames(archive, keepSet("32064"))
	if err != nil {
		t.Fatalf("LoadNames() error: %v", err)
	}
	if len(names) != 1 || names[0].TaxID != "32064" {
		t.Errorf("names = %+v, want only taxid 32064", names)
	}
}

func TestLoadNamesScientificNameClassOnly(t *testing.T) {
	archive := writeTaxdump(t, []string{
		dumpLine("32064", "Equisetum giganteum", "", "scientific name"),
		dumpLine("32064", "giant horsetail", "", "common name"),
		dumpLine("32064", "Equisetum pyramidale", "", "synonym"),
		dumpLine("126583", "Adiantum capillus-veneris", "", "Scientific Name"),
	})

	names, err := LoadNames(archive, keepSet("32064", "126583"))
	if err != nil {
		t.Fatalf("LoadNames() error: %v", err)
	}

	// The class match is exact and case-sensitive, so the capitalized
	// variant for 126583 is discarded and 32064 resolves uniquely.
	if len(names) != 1 {
		t.Fatalf("got %d names, want 1: %+v", len(names), names)
	}
	if names[0] != (types.TaxonName{TaxID: "32064", Species: "Equisetum giganteum"}) {
		t.Errorf("name = %+v", names[0])
	}
}

func TestLoadNamesExclusions(t *testing.T) {
	tests := []struct {
		label string
		name  string
		want  bool // survives filtering
	}{
		{"clean binomial", "Equisetum giganteum", true},
		{"infraspecific name", "Asplenium trichomanes subsp. quadrivalens", true},
		{"unidentified sp.", "Asplenium sp. TMC-2014", false},
		{"aff. qualifier", "Cyathea aff. andina", false},
		{"cf. qualifier", "Pteris cf. vittata", false},
		{"environmental sample", "Polypodiales environmental sample", false},
		{"hybrid genus marker", "×Cystocarpium roskamianum", false},
		{"hybrid cross uppercase", "Equisetum xFerrissii", false},
		// The marker must immediately precede the capital, so a spaced
		// hybrid formula slips through. Known heuristic miss, kept.
		{"spaced hybrid formula kept", "Asplenium csikii x Asplenium ruta-muraria", true},
		{"x before lowercase kept", "Equisetum x ferrissii", true},
		{"x inside word kept", "Dryopteris expansa", true},
		{"single word", "Polypodiopsida", false},
	}

	var lines []string
	keep := make(map[string]struct{})
	byTaxID := make(map[string]int)
	for i, tt := range tests {
		taxID := string(rune('A'+i)) + "00"
		lines = append(lines, dumpLine(taxID, tt.name, "", "scientific name"))
		keep[taxID] = struct{}{}
		byTaxID[taxID] = i
	}

	archive := writeTaxdump(t, lines)
	names, err := LoadNames(archive, keep)
	if err != nil {
		t.Fatalf("LoadNames() error: %v", err)
	}

	got := make(map[string]bool)
	for _, n := range names {
		got[n.Species] = true
	}
	for _, tt := range tests {
		if got[tt.name] != tt.want {
			t.Errorf("%s: %q survived=%v, want %v", tt.label, tt.name, got[tt.name], tt.want)
		}
	}
}

func TestLoadNamesIdempotent(t *testing.T) {
	archive := writeTaxdump(t, []string{
		dumpLine("32064", "Equisetum giganteum", "", "scientific name"),
		dumpLine("126583", "Adiantum capillus-veneris", "", "scientific name"),
	})
	keep := keepSet("32064", "126583")

	first, err := LoadNames(archive, keep)
	if err != nil {
		t.Fatalf("first LoadNames() error: %v", err)
	}
	second, err := LoadNames(archive, keep)
	if err != nil {
		t.Fatalf("second LoadNames() error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestLoadNamesMalformedNameClassFails(t *testing.T) {
	archive := writeTaxdump(t, []string{
		dumpLine("32064", "Equisetum giganteum", "", "scientific name\t|stray"),
	})

	_, err := LoadNames(archive, keepSet("32064"))
	if err == nil {
		t.Fatal("LoadNames() returned nil error for malformed name class")
	}
	if !strings.Contains(err.Error(), "delimiter") {
		t.Errorf("error = %v, want delimiter fault", err)
	}
}

func TestLoadNamesShortRecordFails(t *testing.T) {
	archive := writeTaxdump(t, []string{"32064\t|\tEquisetum giganteum"})

	if _, err := LoadNames(archive, keepSet("32064")); err == nil {
		t.Fatal("LoadNames() returned nil error for short record")
	}
}

func TestLoadNamesMissingMemberFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxdmp.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating archive: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("nodes.dmp")
	if err != nil {
		t.Fatalf("creating member: %v", err)
	}
	w.Write([]byte("1\t|\tno rank\t|\n"))
	zw.Close()
	f.Close()

	if _, err := LoadNames(path, keepSet("1")); err == nil {
		t.Fatal("LoadNames() returned nil error for archive without names.dmp")
	}
}
