package flights

import (
	"testing"
	"time"
)

// fixedNow is a Wednesday.
var fixedNow = time.Date(2025, 3, 12, 10, 30, 0, 0, time.UTC)

func TestExtractQuery(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		wantOrigin      string
		wantDestination string
		wantDate        string
		wantCabin       string
		wantPassengers  int
	}{
		{
			name:            "iata codes",
			text:            "Book me a flight from DEL to BOM tomorrow",
			wantOrigin:      "DEL",
			wantDestination: "BOM",
			wantDate:        "2025-03-13",
			wantCabin:       CabinEconomy,
			wantPassengers:  1,
		},
		{
			name:            "city names",
			text:            "flights from mumbai to london on 2025-04-01",
			wantOrigin:      "BOM",
			wantDestination: "LHR",
			wantDate:        "2025-04-01",
			wantCabin:       CabinEconomy,
			wantPassengers:  1,
		},
		{
			name:            "legacy city names",
			text:            "bombay to madras next week",
			wantOrigin:      "BOM",
			wantDestination: "MAA",
			wantDate:        "2025-03-19",
			wantCabin:       CabinEconomy,
			wantPassengers:  1,
		},
		{
			name:            "iata wins over city names",
			text:            "from delhi DEL to goa GOI please",
			wantOrigin:      "DEL",
			wantDestination: "GOI",
			wantDate:        "2025-03-13",
			wantCabin:       CabinEconomy,
			wantPassengers:  1,
		},
		{
			name:            "new delhi does not double count",
			text:            "new delhi to bangalore",
			wantOrigin:      "DEL",
			wantDestination: "BLR",
			wantDate:        "2025-03-13",
			wantCabin:       CabinEconomy,
			wantPassengers:  1,
		},
		{
			name:            "cabin and passengers",
			text:            "business class delhi to dubai for 3 passengers today",
			wantOrigin:      "DEL",
			wantDestination: "DXB",
			wantDate:        "2025-03-12",
			wantCabin:       CabinBusiness,
			wantPassengers:  3,
		},
		{
			name:            "no route mentioned",
			text:            "I want to travel somewhere nice",
			wantOrigin:      "",
			wantDestination: "",
			wantDate:        "2025-03-13",
			wantCabin:       CabinEconomy,
			wantPassengers:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ExtractQuery(tt.text, fixedNow)

			if q.Origin != tt.wantOrigin {
				t.Errorf("Origin = %q, want %q", q.Origin, tt.wantOrigin)
			}
			if q.Destination != tt.wantDestination {
				t.Errorf("Destination = %q, want %q", q.Destination, tt.wantDestination)
			}
			if q.Date != tt.wantDate {
				t.Errorf("Date = %q, want %q", q.Date, tt.wantDate)
			}
			if q.CabinClass != tt.wantCabin {
				t.Errorf("CabinClass = %q, want %q", q.CabinClass, tt.wantCabin)
			}
			if q.Passengers != tt.wantPassengers {
				t.Errorf("Passengers = %d, want %d", q.Passengers, tt.wantPassengers)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     string
		wantOK   bool
	}{
		{"today", "leave today", "2025-03-12", true},
		{"tomorrow", "going tomorrow", "2025-03-13", true},
		{"day after tomorrow", "day after tomorrow works", "2025-03-14", true},
		{"next week", "sometime next week", "2025-03-19", true},
		{"coming friday", "fly on friday", "2025-03-14", true},
		{"same weekday rolls forward", "fly on wednesday", "2025-03-19", true},
		{"next monday", "next monday morning", "2025-03-17", true},
		{"iso date", "travel on 2025-06-15", "2025-06-15", true},
		{"no date", "delhi to mumbai", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.text, fixedNow)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("date = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCabinClassMention(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"business", "show me business class fares", CabinBusiness, true},
		{"premium economy", "premium economy please", CabinPremiumEconomy, true},
		{"first class phrase", "what about first class", CabinFirst, true},
		{"bare first is ordinal not cabin", "book the first one", "", false},
		{"economy", "cheapest economy option", CabinEconomy, true},
		{"no mention", "delhi to goa tomorrow", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CabinClassMention(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("cabin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsValidIATA(t *testing.T) {
	if !IsValidIATA("DEL") {
		t.Error("DEL should be valid")
	}
	if IsValidIATA("THE") {
		t.Error("THE is a stopword, not an airport code")
	}
	if IsValidIATA("XXQ") {
		t.Error("unknown code should be invalid")
	}
	if IsValidIATA("DELH") {
		t.Error("four letters should be invalid")
	}
}
