// Package types defines the record and configuration types shared by the
// pipeline stages.
package types

// Compartment identifies the genomic location a sequence originates from.
type Compartment string

const (
	CompartmentPlastid       Compartment = "plastid"
	CompartmentNuclear       Compartment = "nuclear"
	CompartmentMitochondrial Compartment = "mitochondrial"

	// CompartmentTotal appears only in summary rows and aggregates over
	// all compartments.
	CompartmentTotal Compartment = "total"
)

// Compartments lists the fetchable compartments in canonical order.
// CompartmentTotal is excluded: it is derived, never queried.
var Compartments = []Compartment{
	CompartmentPlastid,
	CompartmentNuclear,
	CompartmentMitochondrial,
}

// SequenceRecord is the projected metadata of one GenBank accession.
// A record with an empty TaxID is the "no data" sentinel: it stands in
// for a zero-match query or a failed retrieval batch so downstream joins
// see a row rather than an absent table.
type SequenceRecord struct {
	Accession string `json:"accession" yaml:"accession"`
	TaxID     string `json:"taxid" yaml:"taxid"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Length    int    `json:"slen,omitempty" yaml:"slen,omitempty"`
	Subtype   string `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Subname   string `json:"subname,omitempty" yaml:"subname,omitempty"`
}

// IsSentinel reports whether the record is the "no data" placeholder.
func (r SequenceRecord) IsSentinel() bool {
	return r.TaxID == ""
}

// YearTypeQuery is one cell of the year x compartment query cross-product.
// The compartment tag is attached at construction, never inferred from the
// query text.
type YearTypeQuery struct {
	Year        int         `yaml:"year"`
	Compartment Compartment `yaml:"compartment"`
	Query       string      `yaml:"query"`
}

// TaxonYearCount is the number of accessions observed for one taxon ID
// within a single year/compartment fetch. A given (TaxID, Year,
// Compartment) tuple occurs at most once. TaxID is empty for the "no
// data" sentinel carried through from the fetcher.
type TaxonYearCount struct {
	TaxID       string      `yaml:"taxid"`
	N           int         `yaml:"n"`
	Compartment Compartment `yaml:"compartment"`
	Year        int         `yaml:"year"`
}

// TaxonName maps a taxon ID to its resolved scientific species name.
// At most one row exists per taxon ID.
type TaxonName struct {
	TaxID   string `yaml:"taxid"`
	Species string `yaml:"species"`
}

// YearCompartmentSummary is one row of the final accumulation table:
// cumulative distinct-species and accession counts through Year for one
// compartment, or for CompartmentTotal across all compartments.
type YearCompartmentSummary struct {
	Year        int         `yaml:"year"`
	Compartment Compartment `yaml:"compartment"`
	NSpecies    int         `yaml:"n_species"`
	NAcc        int         `yaml:"n_acc"`
}
