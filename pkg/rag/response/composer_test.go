package response

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"maharaja-assistant-be/pkg/language"
	"maharaja-assistant-be/pkg/llm"
	"maharaja-assistant-be/pkg/rag/intent"
	"maharaja-assistant-be/pkg/store"
)

// fakeProvider returns a fixed reply or error for every call.
type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

var _ llm.LLMProvider = &fakeProvider{}

func newTestComposer(provider llm.LLMProvider) *Composer {
	return NewComposer(provider, 5*time.Second, 2000, nil)
}

func evidenceDocs() []store.Document {
	return []store.Document{
		{ID: "1", Content: "Economy class allows 23kg checked baggage.", SourceURL: "https://airindia.com/baggage", Country: "IN", Score: 0.8},
		{ID: "2", Content: "Cabin baggage is limited to 8kg.", Score: 0.6},
	}
}

func TestComposePolicyGrounded(t *testing.T) {
	provider := &fakeProvider{reply: "You may check in 23kg in Economy."}
	c := newTestComposer(provider)

	got := c.ComposePolicy(context.Background(), "baggage allowance?", evidenceDocs(), language.English)
	if got.FallbackUsed {
		t.Error("FallbackUsed = true on a successful completion")
	}
	if got.Intent != intent.IntentPolicy {
		t.Errorf("intent = %s, want POLICY", got.Intent)
	}
	if got.EvidenceCount != 2 {
		t.Errorf("evidence count = %d, want 2", got.EvidenceCount)
	}
	if got.Text != "You may check in 23kg in Economy." {
		t.Errorf("text = %q", got.Text)
	}
}

func TestComposePolicyNoEvidence(t *testing.T) {
	provider := &fakeProvider{reply: "should never be called"}
	c := newTestComposer(provider)

	got := c.ComposePolicy(context.Background(), "baggage allowance?", nil, language.English)
	if !got.FallbackUsed {
		t.Error("FallbackUsed = false, want true without evidence")
	}
	if provider.calls != 0 {
		t.Errorf("model called %d times, want 0 without evidence", provider.calls)
	}
	if got.Text != policyNoEvidenceMessage {
		t.Errorf("text = %q, want the no-evidence message", got.Text)
	}
}

func TestComposePolicyCompletionFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	c := newTestComposer(provider)

	got := c.ComposePolicy(context.Background(), "baggage allowance?", evidenceDocs(), language.English)
	if !got.FallbackUsed {
		t.Error("FallbackUsed = false, want true after completion failure")
	}
	if !strings.Contains(got.Text, "1-800-180-1407") {
		t.Errorf("text = %q, want the support number", got.Text)
	}
	if got.EvidenceCount != 2 {
		t.Errorf("evidence count = %d, want evidence still reported", got.EvidenceCount)
	}
}

func TestComposePolicyEmptyOutputIsFallback(t *testing.T) {
	provider := &fakeProvider{reply: "   \n"}
	c := newTestComposer(provider)

	got := c.ComposePolicy(context.Background(), "baggage allowance?", evidenceDocs(), language.English)
	if !got.FallbackUsed {
		t.Error("FallbackUsed = false, want true on blank model output")
	}
}

func TestComposePolicyHindiFallback(t *testing.T) {
	provider := &fakeProvider{err: errors.New("timeout")}
	c := newTestComposer(provider)

	got := c.ComposePolicy(context.Background(), "सामान की जानकारी", evidenceDocs(), language.Hindi)
	if !strings.Contains(got.Text, "1-800-180-1407") {
		t.Errorf("text = %q, want the support number in the Hindi fallback", got.Text)
	}
}

func TestComposeFlightsListing(t *testing.T) {
	c := newTestComposer(&fakeProvider{})

	results := &store.FlightResultSet{
		Query: store.FlightQuery{Origin: "DEL", Destination: "BOM", Date: "2025-03-13", CabinClass: "Business"},
		Options: []store.FlightOption{
			{
				FlightNumber:   "AI512",
				OriginCity:     "Delhi",
				DestCity:       "Mumbai",
				DepartureTime:  "06:00",
				ArrivalTime:    "08:10",
				Duration:       "2h 10m",
				Aircraft:       "Airbus A320neo",
				Fares:          map[string]int{"Economy": 6000, "Business": 9000},
				AvailableSeats: 42,
			},
		},
	}

	got := c.ComposeFlights(results, nil)
	if got.FallbackUsed {
		t.Error("FallbackUsed = true on a successful search")
	}
	for _, want := range []string{"Delhi", "Mumbai", "2025-03-13", "AI512", "₹9000", "Business", "Airbus A320neo"} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("listing missing %q:\n%s", want, got.Text)
		}
	}
	if strings.Contains(got.Text, "₹6000") {
		t.Error("listing shows the economy fare for a business-class query")
	}
}

func TestComposeFlightsEmptyResult(t *testing.T) {
	c := newTestComposer(&fakeProvider{})

	got := c.ComposeFlights(&store.FlightResultSet{Query: store.FlightQuery{Origin: "DEL", Destination: "BOM"}}, nil)
	if !got.FallbackUsed {
		t.Error("FallbackUsed = false, want true for zero options")
	}
	if got.Text != noFlightsMessage {
		t.Errorf("text = %q, want the no-flights message", got.Text)
	}
}

func TestComposeFlightsSearchError(t *testing.T) {
	c := newTestComposer(&fakeProvider{})

	got := c.ComposeFlights(nil, errors.New("origin and destination must differ"))
	if !got.FallbackUsed {
		t.Error("FallbackUsed = false, want true on search error")
	}
	if !strings.Contains(got.Text, "origin and destination must differ") {
		t.Errorf("text = %q, want the search error surfaced", got.Text)
	}
}

func TestComposeGeneralFallback(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model overloaded")}
	c := newTestComposer(provider)

	got := c.ComposeGeneral(context.Background(), "hello", language.English)
	if !got.FallbackUsed {
		t.Error("FallbackUsed = false, want true after completion failure")
	}
	if !strings.Contains(got.Text, "Maharaja") {
		t.Errorf("text = %q, want the persona fallback", got.Text)
	}
}

func TestCompleteTruncatesLongOutput(t *testing.T) {
	long := strings.Repeat("All passengers must label their baggage. ", 200)
	provider := &fakeProvider{reply: long}
	c := NewComposer(provider, 5*time.Second, 300, nil)

	got := c.ComposeGeneral(context.Background(), "tell me everything", language.English)
	if len(got.Text) > 300 {
		t.Errorf("len = %d, want at most 300", len(got.Text))
	}
	if got.FallbackUsed {
		t.Error("truncation is not a fallback")
	}
}

func TestCompleteKeepsMultibyteOutputWithinRuneLimit(t *testing.T) {
	// 40 Devanagari runes, well over 40 bytes
	reply := strings.Repeat("यात्री", 8) // 6 runes each
	if utf8.RuneCountInString(reply) != 48 {
		t.Fatalf("fixture rune count = %d, want 48", utf8.RuneCountInString(reply))
	}
	provider := &fakeProvider{reply: reply}
	c := NewComposer(provider, 5*time.Second, 50, nil)

	got := c.ComposeGeneral(context.Background(), "सामान", language.Hindi)
	if got.Text != reply {
		t.Errorf("text = %q, want the reply untouched below the rune limit", got.Text)
	}
	if got.FallbackUsed {
		t.Error("FallbackUsed = true, want false")
	}
}

func TestTruncatePrefersSentenceBoundary(t *testing.T) {
	s := "First sentence ends here. Second sentence is much longer and will be cut somewhere in the middle"
	got := truncate(s, 40)
	if got != "First sentence ends here." {
		t.Errorf("got %q, want the full first sentence", got)
	}
}
