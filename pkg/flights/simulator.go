package flights

import (
	"fmt"
	"hash/fnv"
	"log"
	"math/rand"
	"sort"
	"time"

	"maharaja-assistant-be/pkg/store"
)

// Simulator produces schedule and fare data for a route without any
// upstream inventory system. Results are deterministic: the same
// origin, destination and date always yield the same flights.
type Simulator struct {
	logger *log.Logger
}

func NewSimulator(logger *log.Logger) *Simulator {
	return &Simulator{logger: logger}
}

var baseDepartures = []string{"06:00", "09:30", "14:15", "18:45", "21:00"}

// Search returns the available flights for a query, between two and
// five options sorted by departure time.
func (s *Simulator) Search(query store.FlightQuery) (*store.FlightResultSet, error) {
	if !IsValidIATA(query.Origin) {
		return nil, fmt.Errorf("unknown origin airport %q", query.Origin)
	}
	if !IsValidIATA(query.Destination) {
		return nil, fmt.Errorf("unknown destination airport %q", query.Destination)
	}
	if query.Origin == query.Destination {
		return nil, fmt.Errorf("origin and destination are both %s", query.Origin)
	}

	route := lookupRoute(query.Origin, query.Destination)
	rng := routeRand(query.Origin, query.Destination, query.Date)

	count := 2 + rng.Intn(4)
	if count > len(baseDepartures) {
		count = len(baseDepartures)
	}

	// Pick departure slots deterministically, then vary each fare a
	// little so the options do not all cost the same.
	slots := rng.Perm(len(baseDepartures))[:count]
	sort.Ints(slots)

	options := make([]store.FlightOption, 0, count)
	for _, slot := range slots {
		departure := baseDepartures[slot]
		arrival := addMinutes(departure, route.DurationMin)

		fareJitter := 0.85 + rng.Float64()*0.3
		economy := roundFare(float64(route.TypicalFare) * fareJitter)

		fares := make(map[string]int, len(cabinMultipliers))
		for cabin, multiplier := range cabinMultipliers {
			fares[cabin] = roundFare(float64(economy) * multiplier)
		}

		aircraft := aircraftTypes[rng.Intn(len(aircraftTypes))]
		options = append(options, store.FlightOption{
			FlightNumber:   fmt.Sprintf("AI%d", 100+rng.Intn(900)),
			Origin:         query.Origin,
			OriginCity:     CityFor(query.Origin),
			Destination:    query.Destination,
			DestCity:       CityFor(query.Destination),
			Date:           query.Date,
			DepartureTime:  departure,
			ArrivalTime:    arrival,
			Duration:       formatDuration(route.DurationMin),
			Aircraft:       aircraft.Model,
			Status:         "Scheduled",
			Fares:          fares,
			AvailableSeats: 4 + rng.Intn(aircraft.Seats/4),
		})
	}

	if s.logger != nil {
		s.logger.Printf("flight search %s-%s on %s: %d options", query.Origin, query.Destination, query.Date, len(options))
	}

	return &store.FlightResultSet{Query: query, Options: options}, nil
}

// lookupRoute returns the known route data or a synthesized one when
// the pair is not in the table. Reversed routes share the forward
// route's duration and fare.
func lookupRoute(origin, destination string) Route {
	for _, r := range commonRoutes {
		if r.From == origin && r.To == destination {
			return r
		}
		if r.From == destination && r.To == origin {
			return Route{From: origin, To: destination, DurationMin: r.DurationMin, TypicalFare: r.TypicalFare}
		}
	}

	if isDomestic(origin) && isDomestic(destination) {
		return Route{From: origin, To: destination, DurationMin: 150, TypicalFare: 6000}
	}
	return Route{From: origin, To: destination, DurationMin: 480, TypicalFare: 35000}
}

func isDomestic(code string) bool {
	airport, ok := Airports[code]
	return ok && airport.Country == "India"
}

// routeRand seeds a generator from the route key so repeated searches
// for the same day see the same schedule.
func routeRand(origin, destination, date string) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s", origin, destination, date)
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func roundFare(fare float64) int {
	return (int(fare) / 50) * 50
}

func addMinutes(hhmm string, minutes int) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format("15:04")
}

func formatDuration(minutes int) string {
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
