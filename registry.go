package main

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed countries.dat
var registryData []byte

// Country represents an ISO 3166-1 entry from the registry file
type Country struct {
	Alpha2    string
	Alpha3    string
	Numeric   string
	Name      string
	Latitude  float64
	Longitude float64
	Aliases   []string
}

// Registry holds the parsed ISO 3166-1 data
type Registry struct {
	// entries preserves file order, which is the scan order for
	// fuzzy matching (ties go to the earlier entry)
	entries  []*Country
	byAlpha2 map[string]*Country
	byAlpha3 map[string]*Country
	byName   map[string]*Country // normalized canonical names and aliases
}

// LoadRegistry parses the embedded countries.dat file
func LoadRegistry() (*Registry, error) {
	return parseRegistry(registryData)
}

func parseRegistry(data []byte) (*Registry, error) {
	reg := &Registry{
		byAlpha2: make(map[string]*Country),
		byAlpha3: make(map[string]*Country),
		byName:   make(map[string]*Country),
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		country, err := parseCountryLine(line)
		if err != nil {
			return nil, fmt.Errorf("countries.dat line %d: %w", lineNo, err)
		}

		if _, dup := reg.byAlpha3[country.Alpha3]; dup {
			return nil, fmt.Errorf("countries.dat line %d: duplicate alpha-3 %s", lineNo, country.Alpha3)
		}

		reg.entries = append(reg.entries, country)
		reg.byAlpha2[country.Alpha2] = country
		reg.byAlpha3[country.Alpha3] = country

		reg.byName[normalizeKey(country.Name)] = country
		for _, alias := range country.Aliases {
			key := normalizeKey(alias)
			// First entry wins so hand-ordered aliases stay stable
			if _, exists := reg.byName[key]; !exists {
				reg.byName[key] = country
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(reg.entries) == 0 {
		return nil, fmt.Errorf("country registry is empty")
	}

	return reg, nil
}

// parseCountryLine parses a single registry entry:
// alpha2|alpha3|numeric|lat|lon|name|alias;alias;...
func parseCountryLine(line string) (*Country, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 7 {
		return nil, fmt.Errorf("expected 7 fields, got %d", len(parts))
	}

	country := &Country{
		Alpha2:  strings.ToUpper(strings.TrimSpace(parts[0])),
		Alpha3:  strings.ToUpper(strings.TrimSpace(parts[1])),
		Numeric: strings.TrimSpace(parts[2]),
		Name:    strings.TrimSpace(parts[5]),
	}

	if len(country.Alpha2) != 2 {
		return nil, fmt.Errorf("invalid alpha-2 code %q", parts[0])
	}
	if len(country.Alpha3) != 3 {
		return nil, fmt.Errorf("invalid alpha-3 code %q", parts[1])
	}
	if country.Name == "" {
		return nil, fmt.Errorf("missing canonical name")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q", parts[3])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[4]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q", parts[4])
	}
	country.Latitude = lat
	country.Longitude = lon

	for _, alias := range strings.Split(parts[6], ";") {
		alias = strings.TrimSpace(alias)
		if alias != "" {
			country.Aliases = append(country.Aliases, alias)
		}
	}

	return country, nil
}

// ByAlpha2 looks up a country by its two-letter code
func (r *Registry) ByAlpha2(code string) (*Country, bool) {
	c, ok := r.byAlpha2[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// ByAlpha3 looks up a country by its three-letter code
func (r *Registry) ByAlpha3(code string) (*Country, bool) {
	c, ok := r.byAlpha3[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// ByName looks up a country by a normalized canonical name or alias key
func (r *Registry) ByName(key string) (*Country, bool) {
	c, ok := r.byName[key]
	return c, ok
}

// All returns the registry entries in file order
func (r *Registry) All() []*Country {
	return r.entries
}

// Len returns the number of registry entries
func (r *Registry) Len() int {
	return len(r.entries)
}
