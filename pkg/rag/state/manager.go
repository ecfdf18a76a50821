// Package state applies session-state transitions. Only the engine calls it,
// while holding the session's lock.
package state

import (
	"log"

	"maharaja-assistant-be/pkg/store"
)

// Manager handles session state transitions
type Manager struct {
	logger *log.Logger
}

func NewManager(logger *log.Logger) *Manager {
	return &Manager{logger: logger}
}

// BeginTurn counts the incoming user turn and remembers the raw query
func (m *Manager) BeginTurn(session *store.Session, utterance string) {
	session.TurnCount++
	session.LastQuery = utterance
}

// RecordFlightResult replaces the last structured result with a flight
// result set. Replacement is wholesale, never a merge.
func (m *Manager) RecordFlightResult(session *store.Session, results *store.FlightResultSet) {
	session.SetResult(&store.StructuredResult{
		Kind:    store.ResultKindFlights,
		Flights: results,
	})
	m.logger.Printf("[STATE] session %s: flight result recorded (%d options)", session.ID, len(results.Options))
}

// RecordPolicyAnswer replaces the last structured result with the policy
// topics the answer covered
func (m *Manager) RecordPolicyAnswer(session *store.Session, topics []string, country string) {
	session.SetResult(&store.StructuredResult{
		Kind: store.ResultKindPolicy,
		Policy: &store.PolicyAnswerContext{
			TopicKeywords: topics,
			Country:       country,
		},
	})
	m.logger.Printf("[STATE] session %s: policy context recorded (%d topics)", session.ID, len(topics))
}

// SetCountryContext records the country the conversation is about
func (m *Manager) SetCountryContext(session *store.Session, country string) {
	if country == "" || session.CountryContext == country {
		return
	}
	session.CountryContext = country
	m.logger.Printf("[STATE] session %s: country context -> %s", session.ID, country)
}
