package flights

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"maharaja-assistant-be/pkg/store"
)

var (
	iataPattern      = regexp.MustCompile(`\b[A-Z]{3}\b`)
	passengerPattern = regexp.MustCompile(`(\d+)\s+(?:passenger|person|people|adult)`)
	isoDatePattern   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
)

// ExtractQuery pulls flight-search parameters out of an utterance.
// IATA codes win over city names; the first two mentions (in text order)
// become origin and destination. Missing date defaults to tomorrow.
func ExtractQuery(text string, now time.Time) store.FlightQuery {
	q := store.FlightQuery{
		Date:       now.AddDate(0, 0, 1).Format("2006-01-02"),
		CabinClass: CabinEconomy,
		Passengers: 1,
	}

	origin, dest := extractIATACodes(text)
	if origin == "" || dest == "" {
		origin, dest = extractCityNames(text)
	}
	q.Origin = origin
	q.Destination = dest

	if d, ok := ParseDate(text, now); ok {
		q.Date = d
	}

	q.CabinClass = extractCabinClass(text)

	if m := passengerPattern.FindStringSubmatch(strings.ToLower(text)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= 9 {
			q.Passengers = n
		}
	}

	return q
}

// extractIATACodes finds the first two valid airport codes in text order
func extractIATACodes(text string) (string, string) {
	var codes []string
	for _, c := range iataPattern.FindAllString(strings.ToUpper(text), -1) {
		if IsValidIATA(c) {
			codes = append(codes, c)
		}
	}
	if len(codes) >= 2 {
		return codes[0], codes[1]
	}
	return "", ""
}

// extractCityNames resolves spoken city names to codes, ordered by position
func extractCityNames(text string) (string, string) {
	lower := strings.ToLower(text)

	type hit struct {
		pos  int
		code string
	}
	var hits []hit
	for city, code := range CityToIATA {
		if pos := indexWord(lower, city); pos >= 0 {
			hits = append(hits, hit{pos, code})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	// "new delhi" also matches "delhi"; collapse duplicate codes
	var ordered []string
	seen := map[string]bool{}
	for _, h := range hits {
		if !seen[h.code] {
			ordered = append(ordered, h.code)
			seen[h.code] = true
		}
	}

	if len(ordered) >= 2 {
		return ordered[0], ordered[1]
	}
	return "", ""
}

// indexWord finds needle in haystack at a word boundary, -1 if absent
func indexWord(haystack, needle string) int {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return -1
		}
		start := idx + i
		end := start + len(needle)
		beforeOK := start == 0 || !isAlpha(haystack[start-1])
		afterOK := end == len(haystack) || !isAlpha(haystack[end])
		if beforeOK && afterOK {
			return start
		}
		idx = start + 1
	}
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
	"sunday": time.Sunday,
}

// ParseDate resolves relative and absolute date expressions in text to a
// YYYY-MM-DD string. Returns false when text carries no date expression.
func ParseDate(text string, now time.Time) (string, bool) {
	lower := strings.ToLower(text)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		if _, err := time.Parse("2006-01-02", m[1]); err == nil {
			return m[1], true
		}
	}

	switch {
	case strings.Contains(lower, "day after tomorrow"):
		return today.AddDate(0, 0, 2).Format("2006-01-02"), true
	case strings.Contains(lower, "tomorrow"):
		return today.AddDate(0, 0, 1).Format("2006-01-02"), true
	case strings.Contains(lower, "today"):
		return today.Format("2006-01-02"), true
	case strings.Contains(lower, "next week"):
		return today.AddDate(0, 0, 7).Format("2006-01-02"), true
	}

	for name, wd := range weekdays {
		if !strings.Contains(lower, name) {
			continue
		}
		ahead := (int(wd) - int(today.Weekday()) + 7) % 7
		if strings.Contains(lower, "next "+name) && ahead == 0 {
			ahead = 7
		}
		if ahead == 0 {
			ahead = 7 // "friday" on a Friday means the coming one
		}
		return today.AddDate(0, 0, ahead).Format("2006-01-02"), true
	}

	return "", false
}

// extractCabinClass finds a cabin class mention, defaulting to economy
func extractCabinClass(text string) string {
	if c, ok := CabinClassMention(text); ok {
		return c
	}
	return CabinEconomy
}

// CabinClassMention reports an explicit cabin class in text, if any.
// Bare "first" is not enough: it collides with ordinal references
// ("the first one"), so first class requires the full phrase.
func CabinClassMention(text string) (string, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "premium economy"):
		return CabinPremiumEconomy, true
	case strings.Contains(lower, "first class") || strings.Contains(lower, "first-class"):
		return CabinFirst, true
	case strings.Contains(lower, "business"):
		return CabinBusiness, true
	case strings.Contains(lower, "economy"):
		return CabinEconomy, true
	}
	return "", false
}
