package store

// Document represents one retrieved policy passage from the vector store
type Document struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	SourceURL string  `json:"source_url"`
	Country   string  `json:"country"`  // "" when the source is not country specific
	Language  string  `json:"language"` // "en" | "hi"
	Score     float32 `json:"score"`    // cosine similarity, only comparable within one search
}

// FlightQuery holds the parameters of a flight search
type FlightQuery struct {
	Origin      string `json:"origin"`      // IATA code
	Destination string `json:"destination"` // IATA code
	Date        string `json:"date"`        // YYYY-MM-DD
	CabinClass  string `json:"cabin_class"` // "Economy" | "Premium Economy" | "Business" | "First"
	Passengers  int    `json:"passengers"`
}

// FlightOption is a single simulated flight in a result set
type FlightOption struct {
	FlightNumber   string         `json:"flight_number"`
	Origin         string         `json:"origin"`
	OriginCity     string         `json:"origin_city"`
	Destination    string         `json:"destination"`
	DestCity       string         `json:"destination_city"`
	Date           string         `json:"date"`
	DepartureTime  string         `json:"departure_time"` // HH:MM
	ArrivalTime    string         `json:"arrival_time"`   // HH:MM
	Duration       string         `json:"duration"`       // e.g. "2h 10m"
	Aircraft       string         `json:"aircraft"`
	Status         string         `json:"status"`
	Fares          map[string]int `json:"fares"` // cabin class -> INR fare
	AvailableSeats int            `json:"available_seats"`
}

// FlightResultSet is the structured outcome of a flight search, kept on the
// session so follow-ups ("and business class?") can be resolved against it
type FlightResultSet struct {
	Query   FlightQuery    `json:"query"`
	Options []FlightOption `json:"options"`
}

// PolicyAnswerContext captures what a policy turn was about, for follow-ups
type PolicyAnswerContext struct {
	TopicKeywords []string `json:"topic_keywords"`
	Country       string   `json:"country"`
}

// Result kinds for StructuredResult
const (
	ResultKindFlights = "FLIGHTS"
	ResultKindPolicy  = "POLICY"
)

// StructuredResult is the tagged variant stored as a session's last result.
// Exactly one of Flights/Policy is set, selected by Kind. It is replaced
// wholesale on every new flight or policy turn, never merged.
type StructuredResult struct {
	Kind    string               `json:"kind"`
	Flights *FlightResultSet     `json:"flights,omitempty"`
	Policy  *PolicyAnswerContext `json:"policy,omitempty"`
}

// Session represents the active conversation state in memory.
// Durable turn history lives in the database; this struct carries only what
// the engine needs to resolve references on the next turn.
type Session struct {
	ID             string            `json:"id"` // ChatSessionID
	CountryContext string            `json:"country_context"`
	TurnCount      int               `json:"turn_count"` // user turns processed so far
	LastResult     *StructuredResult `json:"last_result"`
	LastResultTurn int               `json:"last_result_turn"` // TurnCount value when LastResult was set
	LastQuery      string            `json:"last_query"`
}

// SetResult records a new structured result at the current user-turn index
func (s *Session) SetResult(result *StructuredResult) {
	s.LastResult = result
	s.LastResultTurn = s.TurnCount
}

// ResultFresh reports whether the last structured result was produced within
// the staleness window (in user turns) before the current turn
func (s *Session) ResultFresh(window int) bool {
	if s.LastResult == nil {
		return false
	}
	return s.TurnCount-s.LastResultTurn <= window
}
