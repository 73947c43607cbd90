package main

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Resolution is the outcome of resolving a single raw country string.
// Either Resolved is true and the codes are valid ISO 3166-1 values, or
// Resolved is false and the codes are empty. There is no silent wrong answer.
type Resolution struct {
	Input      string  `json:"input"`
	Alpha2     string  `json:"alpha2,omitempty"`
	Alpha3     string  `json:"alpha3,omitempty"`
	Name       string  `json:"name,omitempty"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method,omitempty"` // "override", "code", "exact" or "fuzzy"
	Resolved   bool    `json:"resolved"`
}

// Resolver maps free-text country names to ISO 3166-1 codes.
// It is pure over its inputs: the registry, the override table and the
// fuzzy acceptance threshold are fixed at construction.
type Resolver struct {
	registry   *Registry
	overrides  map[string]string // normalized alias -> alpha-3
	threshold  float64
	candidates []fuzzyCandidate
}

// fuzzyCandidate is a pre-normalized name scanned during the fuzzy fallback
type fuzzyCandidate struct {
	key     string
	country *Country
}

// DefaultFuzzyThreshold is the minimum similarity score accepted by the
// fuzzy fallback (normalized edit distance, 1.0 = identical).
const DefaultFuzzyThreshold = 0.80

// NewResolver builds a resolver over the registry. The overrides map uses
// normalized alias keys and alpha-3 values; every value must exist in the
// registry or an error is returned. A threshold <= 0 selects the default.
func NewResolver(registry *Registry, overrides map[string]string, threshold float64) (*Resolver, error) {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	if threshold > 1 {
		return nil, fmt.Errorf("fuzzy threshold %.2f out of range (0, 1]", threshold)
	}

	checked := make(map[string]string, len(overrides))
	for alias, code := range overrides {
		code = strings.ToUpper(strings.TrimSpace(code))
		if _, ok := registry.ByAlpha3(code); !ok {
			return nil, fmt.Errorf("override %q maps to unknown alpha-3 code %q", alias, code)
		}
		checked[normalizeKey(alias)] = code
	}

	r := &Resolver{
		registry:  registry,
		overrides: checked,
		threshold: threshold,
	}

	// Candidate order follows registry file order; canonical name before
	// aliases. Equal fuzzy scores keep the earlier candidate.
	for _, country := range registry.All() {
		r.candidates = append(r.candidates, fuzzyCandidate{normalizeKey(country.Name), country})
		for _, alias := range country.Aliases {
			r.candidates = append(r.candidates, fuzzyCandidate{normalizeKey(alias), country})
		}
	}

	return r, nil
}

// Resolve maps a raw country string to a resolution result.
// Lookup order: override table, ISO code, exact name/alias, fuzzy fallback.
func (r *Resolver) Resolve(raw string) Resolution {
	res := Resolution{Input: raw}

	key := normalizeKey(raw)
	if key == "" || isMissingMarker(key) {
		return res
	}

	if code, ok := r.overrides[key]; ok {
		country, _ := r.registry.ByAlpha3(code)
		return r.resolved(raw, country, "override", 1.0)
	}

	// Bare ISO codes show up in real datasets alongside names
	switch len(key) {
	case 2:
		if country, ok := r.registry.ByAlpha2(key); ok {
			return r.resolved(raw, country, "code", 1.0)
		}
	case 3:
		if country, ok := r.registry.ByAlpha3(key); ok {
			return r.resolved(raw, country, "code", 1.0)
		}
	}

	if country, ok := r.registry.ByName(key); ok {
		return r.resolved(raw, country, "exact", 1.0)
	}

	if country, score := r.fuzzyMatch(key); country != nil {
		return r.resolved(raw, country, "fuzzy", score)
	}

	return res
}

// ResolveAlpha3 is the reverse lookup: a valid alpha-3 code to its entry
func (r *Resolver) ResolveAlpha3(code string) (*Country, bool) {
	return r.registry.ByAlpha3(code)
}

// Threshold returns the fuzzy acceptance threshold in effect
func (r *Resolver) Threshold() float64 {
	return r.threshold
}

func (r *Resolver) resolved(raw string, country *Country, method string, confidence float64) Resolution {
	return Resolution{
		Input:      raw,
		Alpha2:     country.Alpha2,
		Alpha3:     country.Alpha3,
		Name:       country.Name,
		Confidence: confidence,
		Method:     method,
		Resolved:   true,
	}
}

// fuzzyMatch scans every canonical name and alias and returns the best
// scoring candidate at or above the threshold, or nil. Candidates are
// scanned in registry order and only a strictly better score replaces the
// current best, so ties resolve to the first-encountered entry.
func (r *Resolver) fuzzyMatch(key string) (*Country, float64) {
	var best *Country
	bestScore := 0.0

	for _, cand := range r.candidates {
		score := similarity(key, cand.key)
		if score > bestScore {
			bestScore = score
			best = cand.country
		}
	}

	if best == nil || bestScore < r.threshold {
		return nil, 0
	}
	return best, bestScore
}

// similarity is 1 - levenshtein(a,b)/max(len(a),len(b)) over runes
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming form
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// stripMarks removes combining marks after NFD decomposition, so
// "Türkiye" and "Turkiye" produce the same comparison key. Transformer
// chains carry internal state, so each call builds its own.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// normalizeKey produces the comparison key for a raw country string:
// decomposed with diacritics removed, invisible characters stripped,
// whitespace collapsed, case-folded. The original string is kept for
// display; this key is only ever used for matching.
func normalizeKey(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\ufeff': // zero-width space, BOM
			return -1
		case '\u00a0': // non-breaking space
			return ' '
		}
		return r
	}, raw)

	folded, _, err := transform.String(stripMarks(), cleaned)
	if err != nil {
		// Transform only fails on invalid UTF-8; fall back to the
		// cleaned input rather than dropping the value
		folded = cleaned
	}

	// Casers are stateful, so a fresh one per call keeps this safe under
	// concurrent requests
	folded = cases.Fold().String(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// isMissingMarker reports whether a normalized key is one of the common
// spreadsheet placeholders for a missing value
func isMissingMarker(key string) bool {
	switch key {
	case "nan", "na", "n/a", "none", "null", "nil", "-", "--", ".":
		return true
	}
	return false
}
