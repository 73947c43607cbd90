package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseDatasetCSV(t *testing.T) {
	data := []byte("Country,Value,Year\nFrance,10,2020\nGermany,20,2021\n\nSpain,30,2019\n")

	ds, err := ParseDataset("gdp.csv", data)
	if err != nil {
		t.Fatalf("ParseDataset: %v", err)
	}
	if len(ds.Columns) != 3 || ds.Columns[0] != "Country" {
		t.Fatalf("columns = %v", ds.Columns)
	}
	if len(ds.Rows) != 3 {
		t.Fatalf("got %d rows, want 3 (blank line skipped)", len(ds.Rows))
	}
	if ds.Rows[2][0] != "Spain" {
		t.Errorf("row 2 = %v", ds.Rows[2])
	}
}

func TestParseDatasetDelimiterSniffing(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"semicolon", "Country;Value\nFrance;1,5\nGermany;2,5\n"},
		{"tab", "Country\tValue\nFrance\t1.5\nGermany\t2.5\n"},
		{"comma", "Country,Value\nFrance,1.5\nGermany,2.5\n"},
	}
	for _, tc := range cases {
		ds, err := ParseDataset(tc.name+".csv", []byte(tc.data))
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if len(ds.Columns) != 2 || len(ds.Rows) != 2 {
			t.Errorf("%s: got %d columns, %d rows", tc.name, len(ds.Columns), len(ds.Rows))
		}
	}
}

func TestParseDatasetStripsBOM(t *testing.T) {
	data := append([]byte{0xef, 0xbb, 0xbf}, []byte("Country,Value\nFrance,1\n")...)

	ds, err := ParseDataset("export.csv", data)
	if err != nil {
		t.Fatalf("ParseDataset: %v", err)
	}
	if ds.Columns[0] != "Country" {
		t.Fatalf("BOM not stripped, first column = %q", ds.Columns[0])
	}
}

func TestParseDatasetExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Country", "Value"},
		{"France", 10},
		{"Germany", 20},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	ds, err := ParseDataset("gdp.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("ParseDataset: %v", err)
	}
	if len(ds.Columns) != 2 || len(ds.Rows) != 2 {
		t.Fatalf("got %d columns, %d rows", len(ds.Columns), len(ds.Rows))
	}
	if ds.Rows[0][0] != "France" {
		t.Errorf("row 0 = %v", ds.Rows[0])
	}
}

func TestParseDatasetErrors(t *testing.T) {
	if _, err := ParseDataset("empty.csv", nil); err == nil {
		t.Error("empty file should fail")
	}
	if _, err := ParseDataset("header.csv", []byte("Country,Value\n")); err == nil {
		t.Error("header-only file should fail")
	}
	if _, err := ParseDataset("bad.xlsx", []byte("not a workbook")); err == nil {
		t.Error("corrupt workbook should fail")
	}
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("Country,Value\nFrance,1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ds, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if ds.Name != "data.csv" {
		t.Errorf("name = %q", ds.Name)
	}

	if _, err := LoadDataset(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestColumnIndex(t *testing.T) {
	ds := &Dataset{Columns: []string{"Country ", "GDP (current US$)", "Year"}}

	if idx, ok := ds.ColumnIndex("country"); !ok || idx != 0 {
		t.Errorf("ColumnIndex(country) = %d, %v", idx, ok)
	}
	if idx, ok := ds.ColumnIndex("gdp (current us$)"); !ok || idx != 1 {
		t.Errorf("ColumnIndex(gdp) = %d, %v", idx, ok)
	}
	if _, ok := ds.ColumnIndex("population"); ok {
		t.Error("ColumnIndex(population) unexpectedly found")
	}

	if _, err := ds.RequireColumn("population"); err == nil {
		t.Error("RequireColumn(population) should fail")
	}
}
