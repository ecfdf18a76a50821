// Package flights implements the simulated Air India flight database and the
// extraction of flight-search parameters from free-form utterances.
package flights

// Airport describes one airport served by the simulated network
type Airport struct {
	Code    string
	Name    string
	City    string
	Country string
}

// Airports indexed by IATA code
var Airports = map[string]Airport{
	"DEL": {"DEL", "Indira Gandhi International Airport", "Delhi", "India"},
	"BOM": {"BOM", "Chhatrapati Shivaji Maharaj International Airport", "Mumbai", "India"},
	"BLR": {"BLR", "Kempegowda International Airport", "Bengaluru", "India"},
	"MAA": {"MAA", "Chennai International Airport", "Chennai", "India"},
	"HYD": {"HYD", "Rajiv Gandhi International Airport", "Hyderabad", "India"},
	"CCU": {"CCU", "Netaji Subhash Chandra Bose International Airport", "Kolkata", "India"},
	"AMD": {"AMD", "Sardar Vallabhbhai Patel International Airport", "Ahmedabad", "India"},
	"GOI": {"GOI", "Goa International Airport", "Goa", "India"},
	"PNQ": {"PNQ", "Pune Airport", "Pune", "India"},
	"JAI": {"JAI", "Jaipur International Airport", "Jaipur", "India"},
	"LKO": {"LKO", "Chaudhary Charan Singh International Airport", "Lucknow", "India"},
	"COK": {"COK", "Cochin International Airport", "Kochi", "India"},
	"JFK": {"JFK", "John F. Kennedy International Airport", "New York", "USA"},
	"LHR": {"LHR", "Heathrow Airport", "London", "UK"},
	"DXB": {"DXB", "Dubai International Airport", "Dubai", "UAE"},
	"SIN": {"SIN", "Changi Airport", "Singapore", "Singapore"},
	"YYZ": {"YYZ", "Toronto Pearson International Airport", "Toronto", "Canada"},
	"CDG": {"CDG", "Charles de Gaulle Airport", "Paris", "France"},
	"FRA": {"FRA", "Frankfurt Airport", "Frankfurt", "Germany"},
	"HKG": {"HKG", "Hong Kong International Airport", "Hong Kong", "Hong Kong"},
	"BKK": {"BKK", "Suvarnabhumi Airport", "Bangkok", "Thailand"},
	"NRT": {"NRT", "Narita International Airport", "Tokyo", "Japan"},
	"SYD": {"SYD", "Sydney Kingsford Smith Airport", "Sydney", "Australia"},
}

// CityToIATA maps spoken city names (including legacy names) to airport codes
var CityToIATA = map[string]string{
	"delhi":     "DEL",
	"new delhi": "DEL",
	"mumbai":    "BOM",
	"bombay":    "BOM",
	"bangalore": "BLR",
	"bengaluru": "BLR",
	"chennai":   "MAA",
	"madras":    "MAA",
	"hyderabad": "HYD",
	"kolkata":   "CCU",
	"calcutta":  "CCU",
	"goa":       "GOI",
	"ahmedabad": "AMD",
	"pune":      "PNQ",
	"jaipur":    "JAI",
	"lucknow":   "LKO",
	"kochi":     "COK",
	"cochin":    "COK",
	"new york":  "JFK",
	"london":    "LHR",
	"dubai":     "DXB",
	"singapore": "SIN",
	"toronto":   "YYZ",
	"paris":     "CDG",
	"frankfurt": "FRA",
	"hong kong": "HKG",
	"bangkok":   "BKK",
	"tokyo":     "NRT",
	"sydney":    "SYD",
}

// invalidIATACodes are common all-caps three-letter words that must never be
// treated as airport codes
var invalidIATACodes = map[string]bool{
	"THE": true, "AND": true, "FOR": true, "YOU": true, "CAN": true,
	"GET": true, "AIR": true, "IND": true, "ALL": true, "ANY": true,
	"ONE": true, "TWO": true, "SIX": true, "TEN": true, "FLY": true,
	"NOW": true, "DAY": true, "YES": true, "NEW": true,
}

// Route holds the simulated schedule parameters of a city pair
type Route struct {
	From        string
	To          string
	DurationMin int
	TypicalFare int // economy, INR
}

// commonRoutes mirrors real Air India frequencies on trunk routes
var commonRoutes = []Route{
	{"DEL", "BOM", 130, 4500},
	{"DEL", "BLR", 155, 6500},
	{"DEL", "MAA", 165, 7000},
	{"DEL", "GOI", 180, 5500},
	{"DEL", "JAI", 60, 3000},
	{"BOM", "DEL", 130, 4500},
	{"BOM", "BLR", 100, 4000},
	{"BOM", "HYD", 80, 3500},
	{"BLR", "DEL", 155, 6500},
	{"BLR", "BOM", 100, 4000},
	{"DEL", "LHR", 555, 42000},
	{"DEL", "JFK", 900, 65000},
	{"BOM", "DXB", 185, 14000},
}

// aircraftType describes one fleet member
type aircraftType struct {
	Model string
	Seats int
}

var aircraftTypes = []aircraftType{
	{"Airbus A320", 180},
	{"Airbus A321", 220},
	{"Boeing 787-8 Dreamliner", 256},
	{"Boeing 777-300ER", 342},
	{"Airbus A319", 144},
}

// Cabin classes and their fare multipliers over economy
const (
	CabinEconomy        = "Economy"
	CabinPremiumEconomy = "Premium Economy"
	CabinBusiness       = "Business"
	CabinFirst          = "First"
)

var cabinMultipliers = map[string]float64{
	CabinEconomy:        1.0,
	CabinPremiumEconomy: 1.5,
	CabinBusiness:       3.0,
	CabinFirst:          5.0,
}

// IsValidIATA reports whether code looks like a known airport code.
// Common three-letter words are filtered out.
func IsValidIATA(code string) bool {
	if len(code) != 3 {
		return false
	}
	if invalidIATACodes[code] {
		return false
	}
	_, ok := Airports[code]
	return ok
}

// CityFor returns the city name for a code, falling back to the code itself
func CityFor(code string) string {
	if a, ok := Airports[code]; ok {
		return a.City
	}
	return code
}
