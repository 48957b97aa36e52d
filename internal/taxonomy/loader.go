// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy resolves taxon IDs to scientific species names from
// an NCBI taxdump archive.
package taxonomy

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// namesFile is the record file inside the taxdump archive.
const namesFile = "names.dmp"

// scientificNameClass is the only name class kept. The match is exact
// and case-sensitive, which discards synonyms, common names, and the
// like.
const scientificNameClass = "scientific name"

// hybridMarker matches a hybrid-cross sign (the multiplication sign or
// a lowercase "x") immediately followed by an uppercase letter. The
// heuristic is knowingly imperfect: it also rejects legitimate hybrid
// binomials whose epithet starts uppercase, and misses formulas whose
// second operand is multi-word. Domain judgment, kept as-is.
var hybridMarker = regexp.MustCompile(`[×x][A-Z]`)

// LoadNames extracts names.dmp from the taxdump zip at archivePath and
// returns one TaxonName row per taxon ID in keep whose scientific name
// is a clean species binomial. The archive member is extracted to a
// scratch directory that is removed before LoadNames returns, whether
// or not parsing succeeds. The output is sorted by taxon ID and is a
// pure function of the inputs.
func LoadNames(archivePath string, keep map[string]struct{}) ([]types.TaxonName, error) {
	scratch, err := os.MkdirTemp("", "taxdump-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	dumpPath, err := extractNames(archivePath, scratch)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(dumpPath)
	if err != nil {
		return nil, fmt.Errorf("opening extracted dump: %w", err)
	}
	defer f.Close()

	return parseNames(f, keep)
}

// extractNames copies names.dmp out of the archive into dir.
func extractNames(archivePath, dir string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("opening taxdump archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	for _, member := range zr.File {
		if filepath.Base(member.Name) != namesFile {
			continue
		}

		src, err := member.Open()
		if err != nil {
			return "", fmt.Errorf("opening archive member %s: %w", member.Name, err)
		}
		defer src.Close()

		dumpPath := filepath.Join(dir, namesFile)
		dst, err := os.Create(dumpPath)
		if err != nil {
			return "", fmt.Errorf("creating scratch file: %w", err)
		}

		_, copyErr := io.Copy(dst, src)
		closeErr := dst.Close()
		if copyErr != nil {
			return "", fmt.Errorf("extracting %s: %w", namesFile, copyErr)
		}
		if closeErr != nil {
			return "", fmt.Errorf("closing scratch file: %w", closeErr)
		}
		return dumpPath, nil
	}
	return "", fmt.Errorf("archive %s has no %s member", archivePath, namesFile)
}

// parseNames reads the pipe-delimited dump. Each record holds at least
// four "\t|\t"-delimited fields: taxon ID, name, unique name, and name
// class. The name-class field carries a trailing "\t|" terminator;
// anything beyond that single internal delimiter means the format
// assumption is broken and the whole load fails.
func parseNames(r io.Reader, keep map[string]struct{}) ([]types.TaxonName, error) {
	byTaxID := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}

		fields := strings.Split(text, "\t|\t")
		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d: %d fields, want at least 4", line, len(fields))
		}

		taxID := fields[0]
		name := fields[1]

		parts := strings.Split(fields[3], "\t|")
		if len(parts) > 2 {
			return nil, fmt.Errorf("line %d: name class %q has multiple internal delimiters", line, fields[3])
		}
		nameClass := parts[0]

		if _, wanted := keep[taxID]; !wanted {
			continue
		}
		if nameClass != scientificNameClass {
			continue
		}
		if !isCleanBinomial(name) {
			continue
		}

		// After class filtering a taxon ID has one scientific name;
		// first occurrence wins should the dump repeat it.
		if _, ok := byTaxID[taxID]; !ok {
			byTaxID[taxID] = name
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dump: %w", err)
	}

	taxids := make([]string, 0, len(byTaxID))
	for id := range byTaxID {
		taxids = append(taxids, id)
	}
	sort.Strings(taxids)

	names := make([]types.TaxonName, 0, len(taxids))
	for _, id := range taxids {
		names = append(names, types.TaxonName{TaxID: id, Species: byTaxID[id]})
	}
	return names, nil
}

// isCleanBinomial reports whether name is a fully qualified species
// binomial: no abbreviated rank (" sp.", " aff.", " cf."), no hybrid
// marker, no environmental sample, and at least one interior space.
func isCleanBinomial(name string) bool {
	for _, marker := range []string{" sp.", " aff.", " cf."} {
		if strings.Contains(name, marker) {
			return false
		}
	}
	if hybridMarker.MatchString(name) {
		return false
	}
	if strings.Contains(name, "environmental sample") {
		return false
	}
	if !strings.Contains(strings.TrimSpace(name), " ") {
		return false
	}
	return true
}
