package main

import (
	"os"
	"path/filepath"
	"testing"
)

func chartResult() *Result {
	return &Result{
		Dataset: "gdp.csv",
		Options: Options{CountryColumn: "Country", ValueColumn: "GDP", Method: MethodSum},
		Aggregates: map[string]*CountryAggregate{
			"USA": {Alpha3: "USA", Name: "United States", Value: 60, Rows: 1},
			"DEU": {Alpha3: "DEU", Name: "Germany", Value: 30, Rows: 1},
			"FRA": {Alpha3: "FRA", Name: "France", Value: 10, Rows: 1},
		},
	}
}

func TestRenderBarChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top.png")

	if err := RenderBarChart(chartResult(), "GDP", 10, path); err != nil {
		t.Fatalf("RenderBarChart: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("chart file is empty")
	}
}

func TestRenderWorldMap(t *testing.T) {
	registry, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	result := chartResult()
	breaks, err := ComputeBreaks(result.Values(), 5, BinQuantile)
	if err != nil {
		t.Fatalf("ComputeBreaks: %v", err)
	}
	path := filepath.Join(t.TempDir(), "map.png")

	if err := RenderWorldMap(result, registry, breaks, "GDP", path); err != nil {
		t.Fatalf("RenderWorldMap: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("map file is empty")
	}
}

func TestRenderBarChartEmpty(t *testing.T) {
	result := &Result{Aggregates: map[string]*CountryAggregate{}}
	if err := RenderBarChart(result, "GDP", 10, filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Fatal("empty result should fail")
	}
}

func TestClassColor(t *testing.T) {
	if classColor(0, 5) != valueRamp[0] {
		t.Error("first class should use the lightest color")
	}
	if classColor(4, 5) != valueRamp[len(valueRamp)-1] {
		t.Error("last class should use the darkest color")
	}
	if classColor(0, 1) != valueRamp[len(valueRamp)-1] {
		t.Error("single class should use the darkest color")
	}

	prev := -1
	for class := 0; class < 5; class++ {
		idx := class * (len(valueRamp) - 1) / 4
		if idx < prev {
			t.Fatalf("ramp index decreased at class %d", class)
		}
		prev = idx
	}
}
