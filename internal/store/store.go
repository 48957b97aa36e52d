// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists stage outputs in a SQLite database so each
// pipeline stage can run independently of the ones before it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// Store manages the pipeline stage database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the stage database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS taxon_counts (
			taxid TEXT NOT NULL,
			year INTEGER NOT NULL,
			compartment TEXT NOT NULL,
			n INTEGER NOT NULL,
			PRIMARY KEY (taxid, year, compartment)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_taxon_counts_year ON taxon_counts(year)`,
		`CREATE TABLE IF NOT EXISTS taxon_names (
			taxid TEXT PRIMARY KEY,
			species TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS year_summary (
			year INTEGER NOT NULL,
			compartment TEXT NOT NULL,
			n_species INTEGER NOT NULL,
			n_acc INTEGER NOT NULL,
			PRIMARY KEY (year, compartment)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveCounts upserts taxon-year count rows. Re-fetching a year replaces
// its rows instead of duplicating them.
func (s *Store) SaveCounts(ctx context.Context, counts []types.TaxonYearCount) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO taxon_counts (taxid, year, compartment, n) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range counts {
		if _, err := stmt.ExecContext(ctx, c.TaxID, c.Year, string(c.Compartment), c.N); err != nil {
			return fmt.Errorf("inserting count for taxid %q year %d: %w", c.TaxID, c.Year, err)
		}
	}
	return tx.Commit()
}

// LoadCounts returns all taxon-year count rows ordered by year,
// compartment, and taxon ID.
func (s *Store) LoadCounts(ctx context.Context) ([]types.TaxonYearCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT taxid, year, compartment, n FROM taxon_counts ORDER BY year, compartment, taxid`)
	if err != nil {
		return nil, fmt.Errorf("querying counts: %w", err)
	}
	defer rows.Close()

	var counts []types.TaxonYearCount
	for rows.Next() {
		var c types.TaxonYearCount
		var compartment string
		if err := rows.Scan(&c.TaxID, &c.Year, &compartment, &c.N); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		c.Compartment = types.Compartment(compartment)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// DistinctTaxonIDs returns the distinct non-sentinel taxon IDs present
// in the counts table. This is the retain-set for the taxonomy loader.
func (s *Store) DistinctTaxonIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT taxid FROM taxon_counts WHERE taxid != ''`)
	if err != nil {
		return nil, fmt.Errorf("querying distinct taxon IDs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning taxon ID: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// SaveNames replaces the resolved species names.
func (s *Store) SaveNames(ctx context.Context, names []types.TaxonName) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM taxon_names`); err != nil {
		return fmt.Errorf("clearing names: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO taxon_names (taxid, species) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range names {
		if _, err := stmt.ExecContext(ctx, n.TaxID, n.Species); err != nil {
			return fmt.Errorf("inserting name for taxid %s: %w", n.TaxID, err)
		}
	}
	return tx.Commit()
}

// LoadNames returns all resolved species names ordered by taxon ID.
func (s *Store) LoadNames(ctx context.Context) ([]types.TaxonName, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT taxid, species FROM taxon_names ORDER BY taxid`)
	if err != nil {
		return nil, fmt.Errorf("querying names: %w", err)
	}
	defer rows.Close()

	var names []types.TaxonName
	for rows.Next() {
		var n types.TaxonName
		if err := rows.Scan(&n.TaxID, &n.Species); err != nil {
			return nil, fmt.Errorf("scanning name row: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// SaveSummary replaces the accumulation summary table.
func (s *Store) SaveSummary(ctx context.Context, rows []types.YearCompartmentSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM year_summary`); err != nil {
		return fmt.Errorf("clearing summary: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO year_summary (year, compartment, n_species, n_acc) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Year, string(r.Compartment), r.NSpecies, r.NAcc); err != nil {
			return fmt.Errorf("inserting summary for year %d %s: %w", r.Year, r.Compartment, err)
		}
	}
	return tx.Commit()
}

// LoadSummary returns the accumulation summary ordered by year with the
// total row last within each year.
func (s *Store) LoadSummary(ctx context.Context) ([]types.YearCompartmentSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year, compartment, n_species, n_acc FROM year_summary
		 ORDER BY year, compartment = 'total', compartment`)
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}
	defer rows.Close()

	var summary []types.YearCompartmentSummary
	for rows.Next() {
		var r types.YearCompartmentSummary
		var compartment string
		if err := rows.Scan(&r.Year, &compartment, &r.NSpecies, &r.NAcc); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		r.Compartment = types.Compartment(compartment)
		summary = append(summary, r)
	}
	return summary, rows.Err()
}
