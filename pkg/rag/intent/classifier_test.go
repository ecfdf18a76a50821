package intent

import (
	"testing"
	"time"

	"maharaja-assistant-be/pkg/store"
)

var fixedNow = time.Date(2025, 3, 12, 10, 30, 0, 0, time.UTC)

func newTestClassifier() *Classifier {
	return NewClassifier(1, 4, nil).WithClock(func() time.Time { return fixedNow })
}

func sessionWithFreshFlights() *store.Session {
	s := &store.Session{ID: "s1", TurnCount: 2}
	s.LastResult = &store.StructuredResult{
		Kind: store.ResultKindFlights,
		Flights: &store.FlightResultSet{
			Query: store.FlightQuery{Origin: "DEL", Destination: "BOM", Date: "2025-03-13", CabinClass: "Economy", Passengers: 1},
		},
	}
	s.LastResultTurn = 2
	return s
}

func TestClassifyCascade(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name           string
		utterance      string
		session        *store.Session
		wantIntent     Intent
		wantConfidence float32
		wantReason     string
	}{
		{
			name:           "explicit flight pattern",
			utterance:      "Find me flights from Delhi to Mumbai tomorrow",
			wantIntent:     IntentFlight,
			wantConfidence: 0.95,
			wantReason:     "flight_pattern",
		},
		{
			name:           "route flights pattern",
			utterance:      "delhi to mumbai flights",
			wantIntent:     IntentFlight,
			wantConfidence: 0.95,
			wantReason:     "flight_pattern",
		},
		{
			name:           "explicit policy pattern",
			utterance:      "What is the baggage allowance for economy?",
			wantIntent:     IntentPolicy,
			wantConfidence: 0.92,
			wantReason:     "policy_pattern",
		},
		{
			name:           "anaphoric follow-up with fresh result",
			utterance:      "what about the second one in business class",
			session:        sessionWithFreshFlights(),
			wantIntent:     IntentFollowUp,
			wantConfidence: 0.88,
			wantReason:     "context_reference",
		},
		{
			name:           "short utterance with fresh result",
			utterance:      "and business class?",
			session:        sessionWithFreshFlights(),
			wantIntent:     IntentFollowUp,
			wantConfidence: 0.88,
			wantReason:     "context_reference",
		},
		{
			name:           "greeting",
			utterance:      "Namaste! Thank you",
			wantIntent:     IntentGeneral,
			wantConfidence: 0.90,
			wantReason:     "greeting",
		},
		{
			name:           "flight keywords without pattern",
			utterance:      "I need a ticket, checking fare and availability for my trip",
			wantIntent:     IntentFlight,
			wantConfidence: 0.75,
			wantReason:     "flight_keywords",
		},
		{
			name:           "policy keywords without pattern",
			utterance:      "do your rules cover pets and wheelchair assistance",
			wantIntent:     IntentPolicy,
			wantConfidence: 0.80,
			wantReason:     "policy_keywords",
		},
		{
			name:           "bare baggage mention",
			utterance:      "baggage?",
			wantIntent:     IntentPolicy,
			wantConfidence: 0.85,
			wantReason:     "baggage_only",
		},
		{
			name:           "bare route",
			utterance:      "DEL BOM please",
			wantIntent:     IntentFlight,
			wantConfidence: 0.70,
			wantReason:     "route_only",
		},
		{
			name:           "default general",
			utterance:      "tell me something interesting about your airline's history",
			wantIntent:     IntentGeneral,
			wantConfidence: 0.30,
			wantReason:     "default",
		},
		{
			name:           "empty input",
			utterance:      "   ",
			wantIntent:     IntentGeneral,
			wantConfidence: 0.1,
			wantReason:     "empty_or_unrecognizable",
		},
		{
			name:           "emoji only input",
			utterance:      "🙏🙏",
			wantIntent:     IntentGeneral,
			wantConfidence: 0.1,
			wantReason:     "empty_or_unrecognizable",
		},
		{
			name:           "hindi flight keywords",
			utterance:      "मुझे उड़ान का टिकट चाहिए",
			wantIntent:     IntentFlight,
			wantConfidence: 0.75,
			wantReason:     "flight_keywords",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.utterance, tt.session)
			if got.Intent != tt.wantIntent {
				t.Errorf("intent = %s, want %s", got.Intent, tt.wantIntent)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %.2f, want %.2f", got.Confidence, tt.wantConfidence)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestClassifyFlightParamsExtracted(t *testing.T) {
	c := newTestClassifier()

	got := c.Classify("Find me flights from DEL to BOM tomorrow", nil)
	if got.FlightParams == nil {
		t.Fatal("FlightParams = nil, want extracted query")
	}
	if got.FlightParams.Origin != "DEL" || got.FlightParams.Destination != "BOM" {
		t.Errorf("route = %s-%s, want DEL-BOM", got.FlightParams.Origin, got.FlightParams.Destination)
	}
	if got.FlightParams.Date != "2025-03-13" {
		t.Errorf("date = %s, want 2025-03-13", got.FlightParams.Date)
	}
}

func TestClassifyRouteUpgradesConfidence(t *testing.T) {
	c := newTestClassifier()

	got := c.Classify("ticket price for mumbai and goa booking", nil)
	if got.Intent != IntentFlight {
		t.Fatalf("intent = %s, want FLIGHT", got.Intent)
	}
	if got.Confidence != 0.89 {
		t.Errorf("confidence = %.2f, want 0.89 when route resolves", got.Confidence)
	}
	if got.Reason != "flight_keywords_with_route" {
		t.Errorf("reason = %q, want flight_keywords_with_route", got.Reason)
	}
}

func TestClassifyStaleResultDoesNotFollowUp(t *testing.T) {
	c := newTestClassifier()

	s := sessionWithFreshFlights()
	s.TurnCount = s.LastResultTurn + 2 // two turns past the result, window is one

	got := c.Classify("what about that?", s)
	if got.Intent == IntentFollowUp {
		t.Fatal("stale result must not produce FOLLOW_UP")
	}
	if got.Intent != IntentGeneral {
		t.Errorf("intent = %s, want GENERAL", got.Intent)
	}
}

func TestClassifyNoSessionNeverFollowsUp(t *testing.T) {
	c := newTestClassifier()

	got := c.Classify("what about it?", nil)
	if got.Intent == IntentFollowUp {
		t.Fatal("no session context must not produce FOLLOW_UP")
	}
}

func TestClassifyPolicyTopics(t *testing.T) {
	c := newTestClassifier()

	got := c.Classify("do your rules cover pets and wheelchair assistance", nil)
	want := map[string]bool{"rules": true, "pets": true, "wheelchair": true}
	if len(got.PolicyTopics) != len(want) {
		t.Fatalf("topics = %v, want %d entries", got.PolicyTopics, len(want))
	}
	for _, topic := range got.PolicyTopics {
		if !want[topic] {
			t.Errorf("unexpected topic %q", topic)
		}
	}
}

func TestContainsWord(t *testing.T) {
	if containsWord("please visit us", "it") {
		t.Error("matched inside a longer word")
	}
	if !containsWord("is it open", "it") {
		t.Error("missed a whole word")
	}
	if !containsWord("what about the earlier one", "what about") {
		t.Error("missed a multi-word cue")
	}
}
