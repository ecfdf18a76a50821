package flights

import (
	"reflect"
	"sort"
	"testing"

	"maharaja-assistant-be/pkg/store"
)

func TestSearchDeterministic(t *testing.T) {
	sim := NewSimulator(nil)
	query := store.FlightQuery{
		Origin:      "DEL",
		Destination: "BOM",
		Date:        "2025-03-13",
		CabinClass:  CabinEconomy,
		Passengers:  1,
	}

	first, err := sim.Search(query)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	second, err := sim.Search(query)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated searches for the same route and date must return identical results")
	}
}

func TestSearchResultShape(t *testing.T) {
	sim := NewSimulator(nil)
	result, err := sim.Search(store.FlightQuery{
		Origin:      "DEL",
		Destination: "LHR",
		Date:        "2025-03-20",
		CabinClass:  CabinBusiness,
		Passengers:  2,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(result.Options) < 2 || len(result.Options) > 5 {
		t.Fatalf("got %d options, want between 2 and 5", len(result.Options))
	}

	if !sort.SliceIsSorted(result.Options, func(i, j int) bool {
		return result.Options[i].DepartureTime < result.Options[j].DepartureTime
	}) {
		t.Error("options must be sorted by departure time")
	}

	for _, opt := range result.Options {
		if opt.Origin != "DEL" || opt.Destination != "LHR" {
			t.Errorf("option %s has route %s-%s, want DEL-LHR", opt.FlightNumber, opt.Origin, opt.Destination)
		}
		if opt.OriginCity != "Delhi" || opt.DestCity != "London" {
			t.Errorf("option %s has cities %s-%s", opt.FlightNumber, opt.OriginCity, opt.DestCity)
		}
		if opt.Fares[CabinEconomy] <= 0 {
			t.Errorf("option %s has no economy fare", opt.FlightNumber)
		}
		if opt.Fares[CabinBusiness] <= opt.Fares[CabinEconomy] {
			t.Errorf("option %s: business fare %d not above economy %d",
				opt.FlightNumber, opt.Fares[CabinBusiness], opt.Fares[CabinEconomy])
		}
		if opt.Fares[CabinFirst] <= opt.Fares[CabinBusiness] {
			t.Errorf("option %s: first fare %d not above business %d",
				opt.FlightNumber, opt.Fares[CabinFirst], opt.Fares[CabinBusiness])
		}
	}
}

func TestSearchRejectsBadRoutes(t *testing.T) {
	sim := NewSimulator(nil)

	if _, err := sim.Search(store.FlightQuery{Origin: "XXQ", Destination: "BOM", Date: "2025-03-13"}); err == nil {
		t.Error("unknown origin must be rejected")
	}
	if _, err := sim.Search(store.FlightQuery{Origin: "DEL", Destination: "XXQ", Date: "2025-03-13"}); err == nil {
		t.Error("unknown destination must be rejected")
	}
	if _, err := sim.Search(store.FlightQuery{Origin: "DEL", Destination: "DEL", Date: "2025-03-13"}); err == nil {
		t.Error("identical origin and destination must be rejected")
	}
}

func TestSearchUnlistedRouteFallsBack(t *testing.T) {
	sim := NewSimulator(nil)
	result, err := sim.Search(store.FlightQuery{
		Origin:      "JAI",
		Destination: "COK",
		Date:        "2025-03-13",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(result.Options) == 0 {
		t.Fatal("unlisted domestic route should still produce options")
	}
	for _, opt := range result.Options {
		if opt.Duration != "2h 30m" {
			t.Errorf("domestic fallback duration = %q, want %q", opt.Duration, "2h 30m")
		}
	}
}
