// Package rewrite turns follow-up utterances into self-contained queries
// by resolving references against the session's last structured result.
package rewrite

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"maharaja-assistant-be/pkg/flights"
	"maharaja-assistant-be/pkg/rag/intent"
	"maharaja-assistant-be/pkg/store"
)

// RewrittenQuery is the outcome of resolving one follow-up
type RewrittenQuery struct {
	Text         string
	TargetIntent intent.Intent
	FlightQuery  *store.FlightQuery  // set when TargetIntent is FLIGHT
	Referenced   *store.FlightOption // the specific flight referenced, if any
}

type Rewriter struct {
	now    func() time.Time
	logger *log.Logger
}

func NewRewriter(logger *log.Logger) *Rewriter {
	return &Rewriter{now: time.Now, logger: logger}
}

// WithClock overrides the clock, used by tests for stable date resolution
func (r *Rewriter) WithClock(now func() time.Time) *Rewriter {
	r.now = now
	return r
}

var (
	timeRefPattern   = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(?:am|pm)?\b`)
	flightNumPattern = regexp.MustCompile(`\b(AI\s?\d{3,4})\b`)
)

var ordinalIndex = map[string]int{
	"first": 0, "second": 1, "third": 2, "fourth": 3, "fifth": 4,
}

var genericRefPattern = regexp.MustCompile(`\b(that|it|this|the flight|them|those)\b`)

// Rewrite resolves the utterance against the last structured result.
// When no substitution pattern applies, the utterance passes through
// unchanged with a GENERAL target rather than a guessed one.
func (r *Rewriter) Rewrite(utterance string, session *store.Session) *RewrittenQuery {
	if session == nil || session.LastResult == nil {
		return &RewrittenQuery{Text: utterance, TargetIntent: intent.IntentGeneral}
	}

	switch session.LastResult.Kind {
	case store.ResultKindFlights:
		if session.LastResult.Flights != nil {
			return r.rewriteFlightFollowUp(utterance, session.LastResult.Flights)
		}
	case store.ResultKindPolicy:
		if session.LastResult.Policy != nil {
			return r.rewritePolicyFollowUp(utterance, session.LastResult.Policy)
		}
	}

	return &RewrittenQuery{Text: utterance, TargetIntent: intent.IntentGeneral}
}

func (r *Rewriter) rewriteFlightFollowUp(utterance string, last *store.FlightResultSet) *RewrittenQuery {
	lower := strings.ToLower(utterance)
	query := last.Query
	matched := false

	if cabin, ok := flights.CabinClassMention(utterance); ok {
		query.CabinClass = cabin
		matched = true
	}
	if date, ok := flights.ParseDate(utterance, r.now()); ok {
		query.Date = date
		matched = true
	}

	referenced := resolveFlightReference(lower, utterance, last.Options)
	if referenced != nil {
		matched = true
	}

	if !matched && !hasGenericRef(lower) {
		if r.logger != nil {
			r.logger.Printf("[REWRITE] no substitution pattern, passing through")
		}
		return &RewrittenQuery{Text: utterance, TargetIntent: intent.IntentGeneral}
	}

	text := fmt.Sprintf("flights from %s to %s on %s, %s class",
		query.Origin, query.Destination, query.Date, strings.ToLower(query.CabinClass))
	if referenced != nil {
		text = fmt.Sprintf("flight %s from %s to %s on %s, %s class",
			referenced.FlightNumber, query.Origin, query.Destination, query.Date,
			strings.ToLower(query.CabinClass))
	}

	if r.logger != nil {
		r.logger.Printf("[REWRITE] flight follow-up -> %q", text)
	}

	return &RewrittenQuery{
		Text:         text,
		TargetIntent: intent.IntentFlight,
		FlightQuery:  &query,
		Referenced:   referenced,
	}
}

func (r *Rewriter) rewritePolicyFollowUp(utterance string, last *store.PolicyAnswerContext) *RewrittenQuery {
	if len(last.TopicKeywords) == 0 {
		return &RewrittenQuery{Text: utterance, TargetIntent: intent.IntentGeneral}
	}

	text := utterance + " (regarding " + strings.Join(last.TopicKeywords, ", ") + ")"
	if r.logger != nil {
		r.logger.Printf("[REWRITE] policy follow-up -> %q", text)
	}
	return &RewrittenQuery{Text: text, TargetIntent: intent.IntentPolicy}
}

// resolveFlightReference finds the option the user points at, by departure
// time, ordinal position or flight number. "Last" means the final option.
func resolveFlightReference(lower, original string, options []store.FlightOption) *store.FlightOption {
	if len(options) == 0 {
		return nil
	}

	if m := timeRefPattern.FindStringSubmatch(lower); m != nil {
		hour := m[1]
		if len(hour) == 1 {
			hour = "0" + hour
		}
		wanted := hour + ":" + m[2]
		for i := range options {
			if options[i].DepartureTime == wanted {
				return &options[i]
			}
		}
	}

	for ordinal, idx := range ordinalIndex {
		// "first class" is a cabin, not a position
		if strings.Contains(lower, ordinal) && !strings.Contains(lower, ordinal+" class") &&
			!strings.Contains(lower, ordinal+"-class") && idx < len(options) {
			return &options[idx]
		}
	}
	if strings.Contains(lower, "last one") || strings.Contains(lower, "the last") {
		return &options[len(options)-1]
	}

	if m := flightNumPattern.FindStringSubmatch(strings.ToUpper(original)); m != nil {
		wanted := strings.ReplaceAll(m[1], " ", "")
		for i := range options {
			if options[i].FlightNumber == wanted {
				return &options[i]
			}
		}
	}

	return nil
}

func hasGenericRef(lower string) bool {
	return genericRefPattern.MatchString(lower)
}
