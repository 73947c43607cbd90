package main

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// valueRamp is the sequential palette used for legend classes, light to
// dark. Classes are mapped onto it end to end.
var valueRamp = []color.RGBA{
	{R: 255, G: 245, B: 178, A: 255},
	{R: 254, G: 217, B: 118, A: 255},
	{R: 254, G: 178, B: 76, A: 255},
	{R: 253, G: 141, B: 60, A: 255},
	{R: 252, G: 78, B: 42, A: 255},
	{R: 227, G: 26, B: 28, A: 255},
	{R: 177, G: 0, B: 38, A: 255},
}

// classColor picks the ramp color for a legend class
func classColor(class, classes int) color.RGBA {
	if classes <= 1 {
		return valueRamp[len(valueRamp)-1]
	}
	idx := class * (len(valueRamp) - 1) / (classes - 1)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(valueRamp) {
		idx = len(valueRamp) - 1
	}
	return valueRamp[idx]
}

// RenderBarChart writes a ranked bar chart of the top countries
func RenderBarChart(result *Result, variable string, topN int, path string) error {
	ranked := TopN(result.SortedAggregates(), topN)
	if len(ranked) == 0 {
		return fmt.Errorf("no aggregated values to chart")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s by country (%s)", variable, result.Options.Method)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = variable

	values := make(plotter.Values, len(ranked))
	labels := make([]string, len(ranked))
	for i, agg := range ranked {
		values[i] = agg.Value
		labels[i] = agg.Alpha3
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight
	p.Add(plotter.NewGrid())

	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save bar chart: %w", err)
	}
	return nil
}

// RenderWorldMap writes the choropleth stand-in: country centroids as
// bubbles sized and colored by legend class
func RenderWorldMap(result *Result, registry *Registry, breaks []float64, variable, path string) error {
	ranked := result.SortedAggregates()
	if len(ranked) == 0 {
		return fmt.Errorf("no aggregated values to map")
	}
	classes := len(breaks) - 1

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Spatial pattern of %s", variable)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.X.Min, p.X.Max = -180, 180
	p.Y.Min, p.Y.Max = -60, 85

	labelPoints := make(plotter.XYs, 0, len(ranked))
	labels := make([]string, 0, len(ranked))

	for _, agg := range ranked {
		country, ok := registry.ByAlpha3(agg.Alpha3)
		if !ok {
			continue
		}

		pt := plotter.XYs{{X: country.Longitude, Y: country.Latitude}}
		scatter, err := plotter.NewScatter(pt)
		if err != nil {
			return fmt.Errorf("failed to build map point: %w", err)
		}

		class := BinIndex(breaks, agg.Value)
		scatter.GlyphStyle.Color = classColor(class, classes)
		scatter.GlyphStyle.Radius = vg.Points(4 + 2*float64(class))
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)

		labelPoints = append(labelPoints, plotter.XY{X: country.Longitude, Y: country.Latitude})
		labels = append(labels, agg.Alpha3)
	}

	countryLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelPoints, Labels: labels})
	if err != nil {
		return fmt.Errorf("failed to build map labels: %w", err)
	}
	p.Add(countryLabels)
	p.Add(plotter.NewGrid())

	if err := p.Save(16*vg.Inch, 9*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save map: %w", err)
	}
	return nil
}
