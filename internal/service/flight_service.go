package service

import (
	"context"
	"time"

	"maharaja-assistant-be/pkg/flights"
	"maharaja-assistant-be/pkg/store"
)

type IFlightService interface {
	Search(ctx context.Context, query store.FlightQuery) (*store.FlightResultSet, error)
}

// flightService exposes the simulated inventory directly, outside the chat
// flow. The same simulator instance backs both paths so a route searched in
// chat and over the REST endpoint returns identical options.
type flightService struct {
	simulator *flights.Simulator
}

func NewFlightService(simulator *flights.Simulator) IFlightService {
	return &flightService{simulator: simulator}
}

func (fs *flightService) Search(ctx context.Context, query store.FlightQuery) (*store.FlightResultSet, error) {
	if query.Date == "" {
		query.Date = time.Now().Format("2006-01-02")
	}
	if query.CabinClass == "" {
		query.CabinClass = flights.CabinEconomy
	}
	if query.Passengers <= 0 {
		query.Passengers = 1
	}
	return fs.simulator.Search(query)
}
