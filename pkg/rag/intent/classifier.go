// Package intent classifies user utterances into routing categories.
// Classification is a deterministic rule cascade: explicit patterns first,
// then conversation context, then keyword scoring, then fallbacks.
package intent

import (
	"log"
	"regexp"
	"strings"
	"time"
	"unicode"

	"maharaja-assistant-be/pkg/flights"
	"maharaja-assistant-be/pkg/store"
)

// Intent is the routing category assigned to one utterance
type Intent string

const (
	IntentFlight   Intent = "FLIGHT"
	IntentPolicy   Intent = "POLICY"
	IntentFollowUp Intent = "FOLLOW_UP"
	IntentGeneral  Intent = "GENERAL"
)

// Classification is the full outcome of one classify call
type Classification struct {
	Intent       Intent
	Confidence   float32
	Reason       string
	FlightParams *store.FlightQuery // set when Intent is FLIGHT
	PolicyTopics []string           // matched policy vocabulary, for context
}

var flightPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)flights?\s+(?:from|between)\s+\w+\s+(?:to|and)\s+\w+`),
	regexp.MustCompile(`(?i)\b(?:find|search|show|book)\s+(?:me\s+)?(?:a\s+)?flights?\b`),
	regexp.MustCompile(`(?i)\w+\s+to\s+\w+\s+flights?\b`),
}

var policyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)baggage\s+(?:allowance|policy|rules?)`),
	regexp.MustCompile(`(?i)what(?:\s+is|\s+are)?\s+the\s+\w+\s+(?:allowance|policy|rules?)`),
	regexp.MustCompile(`(?i)how\s+much\s+\w+\s+(?:allowance|can|do)\s+i\b`),
}

var flightKeywords = []string{
	"flight", "flights", "fly", "flying", "airplane", "plane",
	"booking", "book", "reservation", "ticket", "fare",
	"departure", "arrival", "destination", "origin", "route",
	"schedule", "availability", "price", "cost",
	"उड़ान", "टिकट", "बुकिंग", "आरक्षण",
}

var policyKeywords = []string{
	"baggage", "luggage", "allowance", "weight", "size", "dimension",
	"carry-on", "hand luggage", "checked baggage", "excess", "overweight",
	"checkin", "check-in", "boarding pass", "cancel", "cancellation", "refund",
	"policy", "policies", "rule", "rules", "regulation", "visa", "pet", "pets",
	"wheelchair", "infant", "unaccompanied",
	"सामान", "भार", "नियम", "जानकारी",
}

var greetingKeywords = []string{
	"hello", "hi", "hey", "namaste", "नमस्ते",
	"thanks", "thank you", "धन्यवाद",
	"goodbye", "bye", "अलविदा",
}

// anaphoricCues mark utterances that lean on the previous turn
var anaphoricCues = []string{
	"what about", "how about", "and the", "that one", "this one",
	"it", "that", "this", "the first", "the second", "the third",
	"the last", "the flight", "instead", "earlier one", "cheaper one",
}

// Classifier maps an utterance plus session context to an Intent
type Classifier struct {
	stalenessWindow int           // turns a structured result stays follow-up eligible
	followUpTokens  int           // at or below this count, a short utterance can be a follow-up
	now             func() time.Time
	logger          *log.Logger
}

func NewClassifier(stalenessWindow, followUpTokens int, logger *log.Logger) *Classifier {
	return &Classifier{
		stalenessWindow: stalenessWindow,
		followUpTokens:  followUpTokens,
		now:             time.Now,
		logger:          logger,
	}
}

// WithClock overrides the clock, used by tests for stable date extraction
func (c *Classifier) WithClock(now func() time.Time) *Classifier {
	c.now = now
	return c
}

// Classify assigns an intent to the utterance. It never fails: unrecognizable
// input classifies as GENERAL.
func (c *Classifier) Classify(utterance string, session *store.Session) *Classification {
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" || !hasRecognizableToken(trimmed) {
		return c.result(IntentGeneral, 0.1, "empty_or_unrecognizable", trimmed)
	}
	lower := strings.ToLower(trimmed)

	for _, p := range flightPatterns {
		if p.MatchString(trimmed) {
			return c.result(IntentFlight, 0.95, "flight_pattern", trimmed)
		}
	}

	for _, p := range policyPatterns {
		if p.MatchString(trimmed) {
			return c.result(IntentPolicy, 0.92, "policy_pattern", trimmed)
		}
	}

	if session != nil && session.ResultFresh(c.stalenessWindow) {
		if hasAnaphoricCue(lower) || tokenCount(lower) <= c.followUpTokens {
			return c.result(IntentFollowUp, 0.88, "context_reference", trimmed)
		}
	}

	flightScore := countKeywords(lower, flightKeywords)
	policyScore := countKeywords(lower, policyKeywords)
	greetingScore := countKeywords(lower, greetingKeywords)

	if greetingScore >= 1 && flightScore == 0 && policyScore == 0 {
		return c.result(IntentGeneral, 0.90, "greeting", trimmed)
	}

	// Flight beats policy: a flight search is the more specific action
	if flightScore >= 2 {
		res := c.result(IntentFlight, 0.75, "flight_keywords", trimmed)
		if res.FlightParams != nil && res.FlightParams.Origin != "" && res.FlightParams.Destination != "" {
			res.Confidence = 0.89
			res.Reason = "flight_keywords_with_route"
		}
		return res
	}

	if policyScore >= 2 {
		return c.result(IntentPolicy, 0.80, "policy_keywords", trimmed)
	}

	if (strings.Contains(lower, "baggage") || strings.Contains(lower, "luggage")) && flightScore == 0 {
		return c.result(IntentPolicy, 0.85, "baggage_only", trimmed)
	}

	// A bare route like "DEL BOM" still means a flight search
	if q := flights.ExtractQuery(trimmed, c.now()); q.Origin != "" && q.Destination != "" {
		return c.result(IntentFlight, 0.70, "route_only", trimmed)
	}

	return c.result(IntentGeneral, 0.30, "default", trimmed)
}

func (c *Classifier) result(intent Intent, confidence float32, reason, utterance string) *Classification {
	res := &Classification{Intent: intent, Confidence: confidence, Reason: reason}

	switch intent {
	case IntentFlight:
		q := flights.ExtractQuery(utterance, c.now())
		res.FlightParams = &q
	case IntentPolicy:
		res.PolicyTopics = matchedKeywords(strings.ToLower(utterance), policyKeywords)
	}

	if c.logger != nil {
		c.logger.Printf("[INTENT] %s (%.2f, %s)", intent, confidence, reason)
	}
	return res
}

func hasAnaphoricCue(lower string) bool {
	for _, cue := range anaphoricCues {
		if containsWord(lower, cue) {
			return true
		}
	}
	return false
}

func countKeywords(lower string, keywords []string) int {
	return len(matchedKeywords(lower, keywords))
}

func matchedKeywords(lower string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if containsWord(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// containsWord matches needle at word boundaries so "it" does not hit "visit"
func containsWord(haystack, needle string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(needle)
		beforeOK := start == 0 || !isWordByte(haystack[start-1])
		afterOK := end == len(haystack) || !isWordByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func tokenCount(s string) int {
	return len(strings.Fields(s))
}

// hasRecognizableToken reports whether the utterance contains at least one
// letter or digit. Emoji-only input has none.
func hasRecognizableToken(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
