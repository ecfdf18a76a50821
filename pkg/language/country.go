package language

import "strings"

// countryMarkers maps a country code to the utterance words that imply it.
// Order matters: the first match wins, so the more specific entries come
// first. City names and "domestic" resolve to India, where the airline is
// based.
var countryMarkers = []struct {
	code  string
	words []string
}{
	{"CA", []string{"canada", "canadian"}},
	{"US", []string{"usa", "us", "united states", "america", "u.s.", "u.s.a.", "unitedstates"}},
	{"IN", []string{"india", "indian", "domestic", "delhi", "mumbai"}},
	{"LK", []string{"sri lanka", "sri lankan"}},
	{"BD", []string{"bangladesh"}},
	{"NP", []string{"nepal"}},
	{"MV", []string{"maldives"}},
	{"AU", []string{"australia"}},
	{"EU", []string{"europe", "european", "uk", "france", "germany"}},
	{"JP", []string{"japan"}},
	{"KR", []string{"south korea", "korea"}},
	{"MX", []string{"mexico", "mexican"}},
}

// DetectCountry extracts a country context from an utterance, so that
// "baggage rules for flights to Canada" retrieves Canada-tagged documents.
// Returns the country code or "" when no marker matches. Pure function,
// like Detect.
func DetectCountry(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	for _, c := range countryMarkers {
		for _, w := range c.words {
			if containsWord(lower, w) {
				return c.code
			}
		}
	}
	return ""
}
