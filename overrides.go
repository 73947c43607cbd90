package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultOverrides is the built-in alias table checked before any generic
// lookup. It carries colloquial names, former names, abbreviations and the
// punctuated variants that generic lookup would miss or mis-resolve. The
// Turkey/Türkiye pair is the motivating case: a naive registry scan can
// land on an unrelated entry, so these resolve before anything else runs.
// Keys are normalized at resolver construction; values are alpha-3 codes.
var defaultOverrides = map[string]string{
	// United Kingdom
	"uk":   "GBR",
	"u.k.": "GBR",
	"u.k":  "GBR",

	// United States
	"u.s.":   "USA",
	"u.s":    "USA",
	"u.s.a.": "USA",
	"u.s.a":  "USA",

	// Türkiye
	"turkey":  "TUR",
	"turkiye": "TUR",
	"türkiye": "TUR",

	// Former states and colloquial names
	"ussr":         "RUS",
	"u.s.s.r.":     "RUS",
	"soviet union": "RUS",
	"drc":          "COD",
	"d.r.c.":       "COD",
	"congo dr":     "COD",
	"uae":          "ARE",
	"u.a.e.":       "ARE",
	"roc":          "TWN",

	// World Bank style labels
	"korea, rep.":                "KOR",
	"korea, dem. people's rep.":  "PRK",
	"egypt, arab rep.":           "EGY",
	"iran, islamic rep.":         "IRN",
	"venezuela, rb":              "VEN",
	"yemen, rep.":                "YEM",
	"gambia, the":                "GMB",
	"bahamas, the":               "BHS",
	"micronesia, fed. sts.":      "FSM",
	"hong kong sar, china":       "HKG",
	"macao sar, china":           "MAC",
	"lao pdr":                    "LAO",
	"st. lucia":                  "LCA",
	"st. kitts and nevis":        "KNA",
	"st. vincent and grenadines": "VCT",
	"st. martin (french part)":   "MAF",
	"curacao":                    "CUW",
	"cote d'ivoire":              "CIV",
	"sao tome and principe":      "STP",
	"virgin islands (u.s.)":      "VIR",
	"slovak republic":            "SVK",
	"kyrgyz republic":            "KGZ",
	"russian federation":         "RUS",
	"syrian arab republic":       "SYR",
	"brunei darussalam":          "BRN",
	"viet nam":                   "VNM",
	"cabo verde":                 "CPV",
	"west bank and gaza":         "PSE",
}

// LoadOverrides returns the default override table, optionally merged with
// a user-provided YAML file of alias -> alpha-3 mappings. User entries win
// over the defaults for the same alias.
func LoadOverrides(path string) (map[string]string, error) {
	merged := make(map[string]string, len(defaultOverrides))
	for alias, code := range defaultOverrides {
		merged[alias] = code
	}

	if path == "" {
		return merged, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}

	var user map[string]string
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file: %w", err)
	}

	for alias, code := range user {
		if alias == "" || code == "" {
			return nil, fmt.Errorf("overrides file: empty alias or code")
		}
		merged[alias] = code
	}

	return merged, nil
}
