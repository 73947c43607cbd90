package main

import (
	"testing"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	registry, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	overrides, err := LoadOverrides("")
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	resolver, err := NewResolver(registry, overrides, 0)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return resolver
}

func TestResolveCanonicalNames(t *testing.T) {
	resolver := newTestResolver(t)

	for _, country := range resolver.registry.All() {
		res := resolver.Resolve(country.Name)
		if !res.Resolved {
			t.Errorf("canonical name %q did not resolve", country.Name)
			continue
		}
		if res.Alpha3 != country.Alpha3 {
			t.Errorf("canonical name %q resolved to %s, want %s", country.Name, res.Alpha3, country.Alpha3)
		}
		if res.Confidence != 1.0 {
			t.Errorf("canonical name %q got confidence %v, want 1.0", country.Name, res.Confidence)
		}
	}
}

func TestResolveTurkeyVariants(t *testing.T) {
	resolver := newTestResolver(t)

	for _, input := range []string{"Turkey", "turkey", "Türkiye", "turkiye", "  TURKEY  ", "Republic of Türkiye"} {
		res := resolver.Resolve(input)
		if !res.Resolved || res.Alpha3 != "TUR" {
			t.Errorf("Resolve(%q) = %+v, want TUR", input, res)
		}
	}
}

func TestResolveOverrides(t *testing.T) {
	resolver := newTestResolver(t)

	cases := []struct {
		input string
		want  string
	}{
		{"UK", "GBR"},
		{"U.K.", "GBR"},
		{"U.S.A.", "USA"},
		{"USSR", "RUS"},
		{"Soviet Union", "RUS"},
		{"DRC", "COD"},
		{"Korea, Rep.", "KOR"},
		{"Iran, Islamic Rep.", "IRN"},
		{"Cote d'Ivoire", "CIV"},
		{"Viet Nam", "VNM"},
	}
	for _, tc := range cases {
		res := resolver.Resolve(tc.input)
		if !res.Resolved || res.Alpha3 != tc.want {
			t.Errorf("Resolve(%q) = %+v, want %s", tc.input, res, tc.want)
		}
	}
}

func TestResolveISOCodes(t *testing.T) {
	resolver := newTestResolver(t)

	cases := []struct {
		input string
		want  string
	}{
		{"US", "USA"},
		{"us", "USA"},
		{"DE", "DEU"},
		{"FRA", "FRA"},
		{"gbr", "GBR"},
	}
	for _, tc := range cases {
		res := resolver.Resolve(tc.input)
		if !res.Resolved || res.Alpha3 != tc.want {
			t.Errorf("Resolve(%q) = %+v, want %s", tc.input, res, tc.want)
		}
		if res.Method != "code" {
			t.Errorf("Resolve(%q) used method %q, want code", tc.input, res.Method)
		}
	}
}

func TestResolveFuzzyTypos(t *testing.T) {
	resolver := newTestResolver(t)

	cases := []struct {
		input string
		want  string
	}{
		{"Germny", "DEU"},
		{"Untied States", "USA"},
		{"Franse", "FRA"},
		{"Brazill", "BRA"},
	}
	for _, tc := range cases {
		res := resolver.Resolve(tc.input)
		if !res.Resolved || res.Alpha3 != tc.want {
			t.Errorf("Resolve(%q) = %+v, want %s", tc.input, res, tc.want)
		}
		if res.Method != "fuzzy" {
			t.Errorf("Resolve(%q) used method %q, want fuzzy", tc.input, res.Method)
		}
		if res.Confidence < resolver.Threshold() || res.Confidence >= 1.0 {
			t.Errorf("Resolve(%q) confidence %v outside [%v, 1)", tc.input, res.Confidence, resolver.Threshold())
		}
	}
}

func TestResolveRejectsDistantStrings(t *testing.T) {
	resolver := newTestResolver(t)

	for _, input := range []string{"Franceland", "Atlantis City", "xq zvw kkj", "Not A Country At All"} {
		res := resolver.Resolve(input)
		if res.Resolved {
			t.Errorf("Resolve(%q) = %+v, want unresolved", input, res)
		}
		if res.Alpha3 != "" || res.Alpha2 != "" {
			t.Errorf("unresolved %q carries codes: %+v", input, res)
		}
	}
}

func TestResolveMissingMarkers(t *testing.T) {
	resolver := newTestResolver(t)

	for _, input := range []string{"", "   ", "NaN", "nan", "N/A", "na", "None", "null", "-", "--", "."} {
		res := resolver.Resolve(input)
		if res.Resolved {
			t.Errorf("Resolve(%q) resolved to %s, want unresolved", input, res.Alpha3)
		}
		if res.Confidence != 0 {
			t.Errorf("Resolve(%q) got confidence %v, want 0", input, res.Confidence)
		}
	}
}

func TestResolveAlpha3RoundTrip(t *testing.T) {
	resolver := newTestResolver(t)

	for _, country := range resolver.registry.All() {
		res := resolver.Resolve(country.Name)
		if !res.Resolved {
			t.Fatalf("canonical name %q did not resolve", country.Name)
		}
		back, ok := resolver.ResolveAlpha3(res.Alpha3)
		if !ok {
			t.Fatalf("ResolveAlpha3(%q) not found", res.Alpha3)
		}
		if back.Alpha3 != country.Alpha3 {
			t.Errorf("round trip %q: got %s, want %s", country.Name, back.Alpha3, country.Alpha3)
		}
	}
}

func TestNewResolverValidatesOverrides(t *testing.T) {
	registry, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	if _, err := NewResolver(registry, map[string]string{"somewhere": "ZZZ"}, 0); err == nil {
		t.Fatal("expected error for override pointing at unknown alpha-3")
	}
	if _, err := NewResolver(registry, nil, 1.5); err == nil {
		t.Fatal("expected error for threshold above 1")
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Türkiye", "turkiye"},
		{"Côte d'Ivoire", "cote d'ivoire"},
		{"  United   States ", "united states"},
		{"GERMANY", "germany"},
		{"United Kingdom", "united kingdom"},
		{"\ufeffFrance", "france"},
		{"Viet​nam", "vietnam"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeKey(tc.input); got != tc.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"turkey", "turkiye", 2},
		{"germany", "germny", 1},
		{"same", "same", 0},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	if got := similarity("france", "france"); got != 1.0 {
		t.Errorf("identical strings scored %v, want 1.0", got)
	}
	if got := similarity("", ""); got != 1.0 {
		t.Errorf("empty strings scored %v, want 1.0", got)
	}
	if got := similarity("abcd", "wxyz"); got != 0.0 {
		t.Errorf("disjoint strings scored %v, want 0.0", got)
	}
}
