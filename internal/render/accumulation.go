// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render draws the summary charts from the aggregated tables.
package render

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// AccumulationChart renders the cumulative species-per-year time series
// with one line per compartment plus the total, and saves it to path.
// The output format follows the file extension (.svg, .png, .pdf).
func AccumulationChart(summary []types.YearCompartmentSummary, path string) error {
	if len(summary) == 0 {
		return fmt.Errorf("no summary rows to render")
	}

	series := make(map[types.Compartment]plotter.XYs)
	for _, r := range summary {
		series[r.Compartment] = append(series[r.Compartment], plotter.XY{
			X: float64(r.Year),
			Y: float64(r.NSpecies),
		})
	}
	for _, xys := range series {
		sort.Slice(xys, func(i, j int) bool { return xys[i].X < xys[j].X })
	}

	p := plot.New()
	p.Title.Text = "Fern species with GenBank sequences"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Cumulative species"
	p.Legend.Top = true
	p.Legend.Left = true

	order := append([]types.Compartment{}, types.Compartments...)
	order = append(order, types.CompartmentTotal)

	var args []interface{}
	for _, c := range order {
		xys, ok := series[c]
		if !ok {
			continue
		}
		args = append(args, string(c), xys)
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return fmt.Errorf("adding series: %w", err)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving chart to %s: %w", path, err)
	}
	return nil
}
