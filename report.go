package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// BuildNarrative produces the auto-generated summary paragraph shown in
// the report and the dashboard
func BuildNarrative(result *Result, summary Summary, variable string) string {
	ranked := result.SortedAggregates()
	if len(ranked) == 0 {
		return fmt.Sprintf("No rows of %s could be resolved to a country.", result.Dataset)
	}

	top := ranked[0]
	var b strings.Builder

	fmt.Fprintf(&b, "%s leads on %s with %s", top.Name, variable, formatValue(top.Value))
	if summary.Total != 0 && result.Options.Method == MethodSum {
		fmt.Fprintf(&b, " (%.1f%% of the total)", 100*top.Value/summary.Total)
	}
	b.WriteString(". ")

	if len(ranked) > 1 {
		bottom := ranked[len(ranked)-1]
		fmt.Fprintf(&b, "Values range from %s (%s) to %s (%s) across %d countries, with a mean of %s and a median of %s. ",
			formatValue(summary.Min), bottom.Name,
			formatValue(summary.Max), top.Name,
			summary.Count,
			formatValue(summary.Mean), formatValue(summary.Median))
	}

	if len(result.Unresolved) > 0 {
		fmt.Fprintf(&b, "%d country label(s) could not be resolved and were excluded.", len(result.Unresolved))
	}

	return strings.TrimSpace(b.String())
}

// WriteMarkdownReport writes the full run report
func WriteMarkdownReport(path string, result *Result, summary Summary, breaks []float64, variable string, topN int) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", result.Dataset)
	fmt.Fprintf(&b, "Generated %s\n\n", time.Now().UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Variable: **%s**, aggregation: **%s**", variable, result.Options.Method)
	if result.Options.YearColumn != "" {
		fmt.Fprintf(&b, ", panel year column: **%s**", result.Options.YearColumn)
	}
	b.WriteString("\n\n")

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "%s\n\n", BuildNarrative(result, summary, variable))

	fmt.Fprintf(&b, "- Rows read: %d\n", result.TotalRows)
	fmt.Fprintf(&b, "- Rows aggregated: %d\n", len(result.Rows))
	fmt.Fprintf(&b, "- Countries: %d\n", len(result.Aggregates))
	fmt.Fprintf(&b, "- Dropped (unresolved country): %d\n", result.DroppedUnresolved)
	fmt.Fprintf(&b, "- Dropped (non-numeric value): %d\n", result.DroppedNonNumeric)
	if result.Options.YearColumn != "" {
		fmt.Fprintf(&b, "- Dropped (bad year): %d\n", result.DroppedBadYear)
	}
	b.WriteString("\n")

	ranked := result.SortedAggregates()
	fmt.Fprintf(&b, "## Top %d countries\n\n", topN)
	b.WriteString("| Rank | Code | Country | Value |\n")
	b.WriteString("|-----:|------|---------|------:|\n")
	for i, agg := range TopN(ranked, topN) {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, agg.Alpha3, agg.Name, formatValue(agg.Value))
	}
	b.WriteString("\n")

	if len(breaks) > 1 {
		b.WriteString("## Legend classes\n\n")
		for i := 0; i < len(breaks)-1; i++ {
			fmt.Fprintf(&b, "- Class %d: %s to %s\n", i+1, formatValue(breaks[i]), formatValue(breaks[i+1]))
		}
		b.WriteString("\n")
	}

	if len(result.Unresolved) > 0 {
		b.WriteString("## Unresolved country labels\n\n")
		b.WriteString("These values need a correction in the source data or an entry in the overrides file:\n\n")
		for _, original := range result.Unresolved {
			fmt.Fprintf(&b, "- `%s`\n", original)
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteAnnotatedCSV writes the resolved-and-annotated row table
func WriteAnnotatedCSV(path string, result *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create annotated CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"original", "alpha2", "alpha3", "country", "resolution", "confidence", "value"}
	withYear := result.Options.YearColumn != ""
	if withYear {
		header = append(header, "year")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range result.Rows {
		record := []string{
			row.Original,
			row.Alpha2,
			row.Alpha3,
			row.Name,
			row.Method,
			strconv.FormatFloat(row.Confidence, 'f', 2, 64),
			strconv.FormatFloat(row.Value, 'f', -1, 64),
		}
		if withYear {
			record = append(record, strconv.Itoa(row.Year))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush annotated CSV: %w", err)
	}
	return f.Close()
}

// WriteExcelReport writes a workbook with resolved rows, aggregates and
// the unresolved list on separate sheets
func WriteExcelReport(path string, result *Result) error {
	f := excelize.NewFile()
	defer f.Close()

	const rowsSheet = "Resolved Rows"
	if err := f.SetSheetName(f.GetSheetName(0), rowsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	rowHeader := []interface{}{"Original", "Alpha-2", "Alpha-3", "Country", "Resolution", "Confidence", "Value"}
	withYear := result.Options.YearColumn != ""
	if withYear {
		rowHeader = append(rowHeader, "Year")
	}
	writeExcelRow(f, rowsSheet, 1, rowHeader)
	for i, row := range result.Rows {
		record := []interface{}{row.Original, row.Alpha2, row.Alpha3, row.Name, row.Method, row.Confidence, row.Value}
		if withYear {
			record = append(record, row.Year)
		}
		writeExcelRow(f, rowsSheet, i+2, record)
	}

	const aggSheet = "Aggregates"
	if _, err := f.NewSheet(aggSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	writeExcelRow(f, aggSheet, 1, []interface{}{"Rank", "Alpha-3", "Country", "Value", "Rows"})
	for i, agg := range result.SortedAggregates() {
		writeExcelRow(f, aggSheet, i+2, []interface{}{i + 1, agg.Alpha3, agg.Name, agg.Value, agg.Rows})
	}

	if len(result.Unresolved) > 0 {
		const missSheet = "Unresolved"
		if _, err := f.NewSheet(missSheet); err != nil {
			return fmt.Errorf("failed to add sheet: %w", err)
		}
		writeExcelRow(f, missSheet, 1, []interface{}{"Original"})
		for i, original := range result.Unresolved {
			writeExcelRow(f, missSheet, i+2, []interface{}{original})
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeExcelRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		// SetCellValue only fails on a bad sheet or cell name, both
		// fixed at the call sites above
		_ = f.SetCellValue(sheet, cell, value)
	}
}

// formatValue renders a numeric value for reports and narratives
func formatValue(v float64) string {
	if v == float64(int64(v)) && v < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
