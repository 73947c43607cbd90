package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// PrintResult renders a processing result to the terminal
func PrintResult(result *Result, summary Summary, variable string, topN int) {
	fmt.Printf("\n%s: %s of %q per country\n\n", result.Dataset, result.Options.Method, variable)

	ranked := result.SortedAggregates()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Code", "Country", "Value", "Rows"})
	table.SetBorder(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for i, agg := range TopN(ranked, topN) {
		table.Append([]string{
			strconv.Itoa(i + 1),
			agg.Alpha3,
			agg.Name,
			formatValue(agg.Value),
			strconv.Itoa(agg.Rows),
		})
	}
	table.Render()

	fmt.Printf("\n%d countries from %d rows (%d aggregated)\n",
		len(result.Aggregates), result.TotalRows, len(result.Rows))
	fmt.Printf("mean %s, median %s, range %s to %s\n",
		formatValue(summary.Mean), formatValue(summary.Median),
		formatValue(summary.Min), formatValue(summary.Max))

	if result.DroppedNonNumeric > 0 {
		color.Yellow("%d row(s) dropped: non-numeric value", result.DroppedNonNumeric)
	}
	if result.DroppedBadYear > 0 {
		color.Yellow("%d row(s) dropped: unparseable year", result.DroppedBadYear)
	}
	if len(result.Unresolved) > 0 {
		color.Yellow("\n%d country label(s) could not be resolved (%d rows dropped):",
			len(result.Unresolved), result.DroppedUnresolved)
		for _, original := range result.Unresolved {
			color.Yellow("  - %q", original)
		}
		fmt.Println("Fix the source data or add entries to the overrides file.")
	}
}

// PrintHistory renders recent runs from the history store
func PrintHistory(records []RunRecord) {
	if len(records) == 0 {
		fmt.Println("No processing history yet.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "When", "Dataset", "Method", "Rows", "Countries", "Unresolved"})
	table.SetBorder(false)
	for _, rec := range records {
		table.Append([]string{
			strconv.FormatInt(rec.ID, 10),
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.Dataset,
			rec.Method,
			strconv.Itoa(rec.TotalRows),
			strconv.Itoa(rec.Countries),
			strconv.Itoa(rec.DroppedUnresolved),
		})
	}
	table.Render()
}
