package main

import (
	"testing"
)

func TestLoadRegistry(t *testing.T) {
	registry, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	if registry.Len() < 200 {
		t.Fatalf("registry has %d entries, expected at least 200", registry.Len())
	}

	seen2 := make(map[string]bool)
	seen3 := make(map[string]bool)
	for _, c := range registry.All() {
		if len(c.Alpha2) != 2 || len(c.Alpha3) != 3 {
			t.Errorf("%s: malformed codes %q/%q", c.Name, c.Alpha2, c.Alpha3)
		}
		if c.Name == "" {
			t.Errorf("%s: empty canonical name", c.Alpha3)
		}
		if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
			t.Errorf("%s: centroid out of range (%v, %v)", c.Alpha3, c.Latitude, c.Longitude)
		}
		if seen2[c.Alpha2] {
			t.Errorf("duplicate alpha-2 %s", c.Alpha2)
		}
		if seen3[c.Alpha3] {
			t.Errorf("duplicate alpha-3 %s", c.Alpha3)
		}
		seen2[c.Alpha2] = true
		seen3[c.Alpha3] = true
	}
}

func TestRegistryLookups(t *testing.T) {
	registry, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	us, ok := registry.ByAlpha2("us")
	if !ok || us.Alpha3 != "USA" {
		t.Fatalf("ByAlpha2(us) = %+v, %v", us, ok)
	}

	tur, ok := registry.ByAlpha3(" tur ")
	if !ok || tur.Alpha2 != "TR" {
		t.Fatalf("ByAlpha3(tur) = %+v, %v", tur, ok)
	}
	if tur.Name != "Türkiye" {
		t.Errorf("TUR canonical name = %q, want Türkiye", tur.Name)
	}

	de, ok := registry.ByName(normalizeKey("Deutschland"))
	if !ok || de.Alpha3 != "DEU" {
		t.Fatalf("ByName(deutschland) = %+v, %v", de, ok)
	}

	if _, ok := registry.ByAlpha3("ZZZ"); ok {
		t.Error("ByAlpha3(ZZZ) unexpectedly found an entry")
	}
}

func TestParseCountryLine(t *testing.T) {
	c, err := parseCountryLine("nz|nzl|554|-42.0|174.0|New Zealand|Aotearoa; NZ ;")
	if err != nil {
		t.Fatalf("parseCountryLine: %v", err)
	}
	if c.Alpha2 != "NZ" || c.Alpha3 != "NZL" || c.Numeric != "554" {
		t.Errorf("codes = %q/%q/%q", c.Alpha2, c.Alpha3, c.Numeric)
	}
	if c.Name != "New Zealand" {
		t.Errorf("name = %q", c.Name)
	}
	if len(c.Aliases) != 2 || c.Aliases[0] != "Aotearoa" || c.Aliases[1] != "NZ" {
		t.Errorf("aliases = %v", c.Aliases)
	}

	bad := []string{
		"NZ|NZL|554|-42.0|174.0|New Zealand",    // too few fields
		"NEWZ|NZL|554|-42.0|174.0|New Zealand|", // bad alpha-2
		"NZ|NZL|554|south|174.0|New Zealand|",   // bad latitude
		"NZ|NZL|554|-42.0|174.0||Aotearoa",      // missing name
	}
	for _, line := range bad {
		if _, err := parseCountryLine(line); err == nil {
			t.Errorf("parseCountryLine(%q) succeeded, want error", line)
		}
	}
}

func TestParseRegistryRejectsDuplicates(t *testing.T) {
	data := []byte("FR|FRA|250|46.0|2.0|France|\nFX|FRA|249|46.0|2.0|Metropolitan France|\n")
	if _, err := parseRegistry(data); err == nil {
		t.Fatal("expected duplicate alpha-3 error")
	}
}
