// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// CountByCountry reads a participant roster CSV with a header row and
// tallies participants per country. The column match is
// case-insensitive; rows with an empty country cell are skipped.
func CountByCountry(r io.Reader, cfg types.RenderConfig) (map[string]int, error) {
	column := cfg.RosterCountryColumn
	if column == "" {
		column = "country"
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading roster header: %w", err)
	}

	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("roster has no %q column (header: %v)", column, header)
	}

	counts := make(map[string]int)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading roster row: %w", err)
		}
		if col >= len(record) {
			continue
		}
		country := strings.TrimSpace(record[col])
		if country == "" {
			continue
		}
		counts[country]++
	}
	return counts, nil
}

// ParticipantChart renders a horizontal bar chart of participants per
// country, largest first, and saves it to path.
func ParticipantChart(byCountry map[string]int, path string) error {
	if len(byCountry) == 0 {
		return fmt.Errorf("no participant countries to render")
	}

	countries := make([]string, 0, len(byCountry))
	for c := range byCountry {
		countries = append(countries, c)
	}
	sort.Slice(countries, func(i, j int) bool {
		if byCountry[countries[i]] != byCountry[countries[j]] {
			return byCountry[countries[i]] > byCountry[countries[j]]
		}
		return countries[i] < countries[j]
	})

	// Horizontal bars draw bottom-up, so reverse to put the largest on top.
	values := make(plotter.Values, len(countries))
	labels := make([]string, len(countries))
	for i, c := range countries {
		j := len(countries) - 1 - i
		values[j] = float64(byCountry[c])
		labels[j] = c
	}

	p := plot.New()
	p.Title.Text = "Participants by country"
	p.X.Label.Text = "Participants"

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("building bar chart: %w", err)
	}
	bars.Horizontal = true
	p.Add(bars)
	p.NominalY(labels...)

	if err := p.Save(6*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("saving chart to %s: %w", path, err)
	}
	return nil
}
