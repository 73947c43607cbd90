package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// AggregateMethod selects how multiple rows for one country are combined
type AggregateMethod string

const (
	MethodSum    AggregateMethod = "sum"
	MethodMean   AggregateMethod = "mean"
	MethodMax    AggregateMethod = "max"
	MethodMin    AggregateMethod = "min"
	MethodLatest AggregateMethod = "latest" // latest-by-year, for panel data
)

// ParseMethod validates a method name from config or flags
func ParseMethod(s string) (AggregateMethod, error) {
	switch AggregateMethod(strings.ToLower(strings.TrimSpace(s))) {
	case MethodSum:
		return MethodSum, nil
	case MethodMean:
		return MethodMean, nil
	case MethodMax:
		return MethodMax, nil
	case MethodMin:
		return MethodMin, nil
	case MethodLatest:
		return MethodLatest, nil
	}
	return "", fmt.Errorf("unknown aggregation method %q (want sum, mean, max, min or latest)", s)
}

// Options is the request-scoped configuration for one processing run.
// It is passed explicitly; there is no ambient per-session state.
type Options struct {
	CountryColumn string          `json:"country_column"`
	ValueColumn   string          `json:"value_column"`
	YearColumn    string          `json:"year_column,omitempty"`
	Method        AggregateMethod `json:"method"`
}

// ResolvedRow is one input row annotated with its resolution
type ResolvedRow struct {
	Original   string  `json:"original"`
	Alpha2     string  `json:"alpha2"`
	Alpha3     string  `json:"alpha3"`
	Name       string  `json:"name"`
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
	Value      float64 `json:"value"`
	Year       int     `json:"year,omitempty"`
}

// CountryAggregate is the combined value for one resolved country
type CountryAggregate struct {
	Alpha3 string  `json:"alpha3"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Rows   int     `json:"rows"`

	sum  float64
	year int
}

// Result is the complete outcome of one ingest-resolve-aggregate run
type Result struct {
	Dataset    string                       `json:"dataset"`
	Options    Options                      `json:"options"`
	Rows       []ResolvedRow                `json:"rows"`
	Aggregates map[string]*CountryAggregate `json:"aggregates"`

	// Distinct original strings (not normalized) that failed resolution,
	// in first-seen order, for user correction
	Unresolved []string `json:"unresolved"`

	TotalRows         int `json:"total_rows"`
	DroppedUnresolved int `json:"dropped_unresolved"`
	DroppedNonNumeric int `json:"dropped_non_numeric"`
	DroppedBadYear    int `json:"dropped_bad_year"`
}

// Aggregate resolves every row of the dataset and combines values per
// country. Unresolved countries and non-numeric values are dropped and
// counted, never fatal; missing columns halt the run.
func Aggregate(ds *Dataset, resolver *Resolver, opts Options) (*Result, error) {
	if _, err := ParseMethod(string(opts.Method)); err != nil {
		return nil, err
	}

	countryIdx, err := ds.RequireColumn(opts.CountryColumn)
	if err != nil {
		return nil, err
	}
	valueIdx, err := ds.RequireColumn(opts.ValueColumn)
	if err != nil {
		return nil, err
	}

	yearIdx := -1
	if opts.YearColumn != "" {
		yearIdx, err = ds.RequireColumn(opts.YearColumn)
		if err != nil {
			return nil, err
		}
	} else if opts.Method == MethodLatest {
		return nil, fmt.Errorf("aggregation method %q requires a year column", MethodLatest)
	}

	result := &Result{
		Dataset:    ds.Name,
		Options:    opts,
		Aggregates: make(map[string]*CountryAggregate),
		TotalRows:  len(ds.Rows),
	}
	seenUnresolved := make(map[string]bool)

	for _, row := range ds.Rows {
		rawCountry := cellAt(row, countryIdx)

		res := resolver.Resolve(rawCountry)
		if !res.Resolved {
			result.DroppedUnresolved++
			if !seenUnresolved[rawCountry] {
				seenUnresolved[rawCountry] = true
				result.Unresolved = append(result.Unresolved, rawCountry)
			}
			continue
		}

		value, ok := parseNumeric(cellAt(row, valueIdx))
		if !ok {
			result.DroppedNonNumeric++
			continue
		}

		year := 0
		if yearIdx >= 0 {
			year, ok = parseYear(cellAt(row, yearIdx))
			if !ok {
				result.DroppedBadYear++
				continue
			}
		}

		result.Rows = append(result.Rows, ResolvedRow{
			Original:   rawCountry,
			Alpha2:     res.Alpha2,
			Alpha3:     res.Alpha3,
			Name:       res.Name,
			Method:     res.Method,
			Confidence: res.Confidence,
			Value:      value,
			Year:       year,
		})

		agg := result.Aggregates[res.Alpha3]
		if agg == nil {
			agg = &CountryAggregate{Alpha3: res.Alpha3, Name: res.Name}
			result.Aggregates[res.Alpha3] = agg
		}
		accumulate(agg, opts.Method, value, year)
	}

	// Mean needs a finalize pass once row counts are known
	if opts.Method == MethodMean {
		for _, agg := range result.Aggregates {
			agg.Value = agg.sum / float64(agg.Rows)
		}
	}

	return result, nil
}

func accumulate(agg *CountryAggregate, method AggregateMethod, value float64, year int) {
	first := agg.Rows == 0
	agg.Rows++

	switch method {
	case MethodSum:
		agg.Value += value
	case MethodMean:
		agg.sum += value
	case MethodMax:
		if first || value > agg.Value {
			agg.Value = value
		}
	case MethodMin:
		if first || value < agg.Value {
			agg.Value = value
		}
	case MethodLatest:
		// Strictly newer year replaces; an equal year keeps the
		// earlier row
		if first || year > agg.year {
			agg.Value = value
			agg.year = year
		}
	}
}

// SortedAggregates returns the per-country aggregates ranked by value
// descending, alpha-3 code as the tie-break
func (r *Result) SortedAggregates() []*CountryAggregate {
	out := make([]*CountryAggregate, 0, len(r.Aggregates))
	for _, agg := range r.Aggregates {
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Alpha3 < out[j].Alpha3
	})
	return out
}

// Values returns the aggregate values in ranked order
func (r *Result) Values() []float64 {
	sorted := r.SortedAggregates()
	values := make([]float64, len(sorted))
	for i, agg := range sorted {
		values[i] = agg.Value
	}
	return values
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseNumeric coerces a cell to a float. Thousands separators are
// stripped when the cell also carries a decimal point; a bare comma is a
// European decimal comma.
func parseNumeric(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parseYear(cell string) (int, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	// Excel sometimes hands years back as floats ("2020.0")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
