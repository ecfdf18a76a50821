package state

import (
	"io"
	"log"
	"testing"

	"maharaja-assistant-be/pkg/store"
)

func newTestManager() *Manager {
	return NewManager(log.New(io.Discard, "", 0))
}

func TestBeginTurn(t *testing.T) {
	m := newTestManager()
	s := &store.Session{ID: "s1"}

	m.BeginTurn(s, "hello")
	m.BeginTurn(s, "flights from DEL to BOM")

	if s.TurnCount != 2 {
		t.Errorf("TurnCount = %d, want 2", s.TurnCount)
	}
	if s.LastQuery != "flights from DEL to BOM" {
		t.Errorf("LastQuery = %q", s.LastQuery)
	}
}

func TestRecordFlightResultReplacesWholesale(t *testing.T) {
	m := newTestManager()
	s := &store.Session{ID: "s1"}

	m.BeginTurn(s, "q1")
	m.RecordPolicyAnswer(s, []string{"baggage"}, "IN")

	m.BeginTurn(s, "q2")
	results := &store.FlightResultSet{
		Query:   store.FlightQuery{Origin: "DEL", Destination: "BOM"},
		Options: []store.FlightOption{{FlightNumber: "AI512"}},
	}
	m.RecordFlightResult(s, results)

	if s.LastResult.Kind != store.ResultKindFlights {
		t.Fatalf("kind = %s, want FLIGHTS", s.LastResult.Kind)
	}
	if s.LastResult.Policy != nil {
		t.Error("previous policy context leaked into the new result")
	}
	if s.LastResultTurn != 2 {
		t.Errorf("LastResultTurn = %d, want 2", s.LastResultTurn)
	}
}

func TestRecordPolicyAnswer(t *testing.T) {
	m := newTestManager()
	s := &store.Session{ID: "s1"}

	m.BeginTurn(s, "baggage rules?")
	m.RecordPolicyAnswer(s, []string{"baggage", "rules"}, "IN")

	if s.LastResult.Kind != store.ResultKindPolicy {
		t.Fatalf("kind = %s, want POLICY", s.LastResult.Kind)
	}
	if s.LastResult.Policy.Country != "IN" {
		t.Errorf("country = %q", s.LastResult.Policy.Country)
	}
	if !s.ResultFresh(1) {
		t.Error("result recorded this turn must be fresh")
	}
}

func TestResultGoesStale(t *testing.T) {
	m := newTestManager()
	s := &store.Session{ID: "s1"}

	m.BeginTurn(s, "q1")
	m.RecordFlightResult(s, &store.FlightResultSet{})

	m.BeginTurn(s, "q2")
	if !s.ResultFresh(1) {
		t.Error("result one turn old must still be fresh with window 1")
	}

	m.BeginTurn(s, "q3")
	if s.ResultFresh(1) {
		t.Error("result two turns old must be stale with window 1")
	}
}

func TestSetCountryContext(t *testing.T) {
	m := newTestManager()
	s := &store.Session{ID: "s1"}

	m.SetCountryContext(s, "")
	if s.CountryContext != "" {
		t.Error("empty country must not overwrite")
	}

	m.SetCountryContext(s, "IN")
	m.SetCountryContext(s, "US")
	if s.CountryContext != "US" {
		t.Errorf("country = %q, want US", s.CountryContext)
	}
}
