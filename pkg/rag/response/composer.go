// Package response builds the final reply for a turn: prompt construction,
// the completion call with its timeout, deterministic flight formatting and
// the uniform fallback policy.
package response

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"maharaja-assistant-be/pkg/language"
	"maharaja-assistant-be/pkg/llm"
	"maharaja-assistant-be/pkg/rag/intent"
	"maharaja-assistant-be/pkg/store"
)

// ComposedReply is what the engine returns to the caller for one turn
type ComposedReply struct {
	Text          string
	Intent        intent.Intent
	EvidenceCount int
	FallbackUsed  bool
}

// Composer turns evidence or flight results into a reply. Completion
// failures and degenerate model output are absorbed into canned messages;
// Compose methods never return an error.
type Composer struct {
	llmProvider llm.LLMProvider
	timeout     time.Duration
	maxLength   int
	logger      *log.Logger
}

func NewComposer(llmProvider llm.LLMProvider, timeout time.Duration, maxLength int, logger *log.Logger) *Composer {
	if maxLength <= 0 {
		maxLength = 2000
	}
	return &Composer{
		llmProvider: llmProvider,
		timeout:     timeout,
		maxLength:   maxLength,
		logger:      logger,
	}
}

// ComposePolicy answers a policy question grounded in the retrieved evidence.
// With no evidence at all it returns the no-evidence message, marked as a
// fallback, rather than letting the model improvise.
func (c *Composer) ComposePolicy(ctx context.Context, query string, evidence []store.Document, lang language.Language) *ComposedReply {
	if len(evidence) == 0 {
		return &ComposedReply{
			Text:         policyNoEvidenceMessage,
			Intent:       intent.IntentPolicy,
			FallbackUsed: true,
		}
	}

	prompt := buildPolicyPrompt(query, evidence, lang)
	text, ok := c.complete(ctx, prompt)
	if !ok {
		return &ComposedReply{
			Text:          fallbackText(intent.IntentPolicy, lang),
			Intent:        intent.IntentPolicy,
			EvidenceCount: len(evidence),
			FallbackUsed:  true,
		}
	}

	return &ComposedReply{
		Text:          text,
		Intent:        intent.IntentPolicy,
		EvidenceCount: len(evidence),
	}
}

// ComposeFlights formats flight results deterministically. The data itself
// never goes through the model.
func (c *Composer) ComposeFlights(results *store.FlightResultSet, searchErr error) *ComposedReply {
	if searchErr != nil {
		return &ComposedReply{
			Text:         fmt.Sprintf("%s\n\n%s", searchErr.Error(), noFlightsMessage),
			Intent:       intent.IntentFlight,
			FallbackUsed: true,
		}
	}
	if results == nil || len(results.Options) == 0 {
		return &ComposedReply{
			Text:         noFlightsMessage,
			Intent:       intent.IntentFlight,
			FallbackUsed: true,
		}
	}

	return &ComposedReply{
		Text:   formatFlightResults(results),
		Intent: intent.IntentFlight,
	}
}

// ComposeGeneral answers small talk with the persona only, no evidence
func (c *Composer) ComposeGeneral(ctx context.Context, query string, lang language.Language) *ComposedReply {
	prompt := buildGeneralPrompt(query, lang)
	text, ok := c.complete(ctx, prompt)
	if !ok {
		return &ComposedReply{
			Text:         fallbackText(intent.IntentGeneral, lang),
			Intent:       intent.IntentGeneral,
			FallbackUsed: true,
		}
	}
	return &ComposedReply{Text: text, Intent: intent.IntentGeneral}
}

// ComposeGeneralFallback returns the canned persona reply without touching
// the model at all
func (c *Composer) ComposeGeneralFallback(lang language.Language) *ComposedReply {
	return &ComposedReply{
		Text:         fallbackText(intent.IntentGeneral, lang),
		Intent:       intent.IntentGeneral,
		FallbackUsed: true,
	}
}

// ComposeConversational answers small talk with the recent exchange replayed
// to the model. Falls back like ComposeGeneral on failure.
func (c *Composer) ComposeConversational(ctx context.Context, history []llm.Message, query string, lang language.Language) *ComposedReply {
	if len(history) == 0 {
		return c.ComposeGeneral(ctx, query, lang)
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: buildGeneralPersona(lang)})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: query})

	text, ok := c.chat(ctx, messages)
	if !ok {
		return &ComposedReply{
			Text:         fallbackText(intent.IntentGeneral, lang),
			Intent:       intent.IntentGeneral,
			FallbackUsed: true,
		}
	}
	return &ComposedReply{Text: text, Intent: intent.IntentGeneral}
}

// complete issues one completion call under the composer's timeout and
// validates the output. ok is false on failure or degenerate output.
func (c *Composer) complete(ctx context.Context, prompt string) (string, bool) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.llmProvider.Generate(callCtx, prompt,
		llm.WithTemperature(0.3), llm.WithMaxTokens(400))
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("[COMPOSE] completion failed: %v", err)
		}
		return "", false
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		if c.logger != nil {
			c.logger.Printf("[COMPOSE] completion returned empty output")
		}
		return "", false
	}
	if utf8.RuneCountInString(reply) > c.maxLength {
		reply = truncate(reply, c.maxLength)
	}
	return reply, true
}

// chat is the conversational counterpart of complete
func (c *Composer) chat(ctx context.Context, messages []llm.Message) (string, bool) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.llmProvider.Chat(callCtx, messages,
		llm.WithTemperature(0.3), llm.WithMaxTokens(400))
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("[COMPOSE] chat completion failed: %v", err)
		}
		return "", false
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", false
	}
	if utf8.RuneCountInString(reply) > c.maxLength {
		reply = truncate(reply, c.maxLength)
	}
	return reply, true
}

func buildPolicyPrompt(query string, evidence []store.Document, lang language.Language) string {
	var b strings.Builder

	b.WriteString("You are Maharaja, the precise and helpful Air India assistant.\n\n")
	b.WriteString("RELEVANT POLICY INFORMATION:\n")
	for _, doc := range evidence {
		if doc.SourceURL != "" {
			b.WriteString(fmt.Sprintf("• From %s", doc.SourceURL))
			if doc.Country != "" {
				b.WriteString(fmt.Sprintf(" (applies to: %s)", doc.Country))
			}
			b.WriteString("\n")
		}
		b.WriteString(doc.Content)
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("USER QUESTION: %s\n\n", query))
	b.WriteString("Answer directly using the information above:\n")
	b.WriteString("- Give exact numbers (pieces, kg)\n")
	b.WriteString("- Mention class differences if available\n")
	b.WriteString("- Be concise and professional\n")
	b.WriteString("- " + languageInstruction(lang) + "\n\n")
	b.WriteString("ANSWER:")

	return b.String()
}

func buildGeneralPersona(lang language.Language) string {
	var b strings.Builder
	b.WriteString("You are Maharaja, the warm and professional virtual assistant of Air India.\n")
	b.WriteString("You help travellers with flight searches, baggage and travel policies.\n")
	b.WriteString("Answer briefly and in character. Do not invent flight data or policy details.\n")
	b.WriteString(languageInstruction(lang) + ".")
	return b.String()
}

func buildGeneralPrompt(query string, lang language.Language) string {
	return fmt.Sprintf("%s\n\nUSER: %s\nMAHARAJA:", buildGeneralPersona(lang), query)
}

func languageInstruction(lang language.Language) string {
	if lang == language.Hindi {
		return "Respond in Hindi (हिन्दी में उत्तर दें)"
	}
	return "Respond in English"
}

// formatFlightResults renders the result set as the chat-facing listing
func formatFlightResults(results *store.FlightResultSet) string {
	var b strings.Builder

	origin := results.Query.Origin
	dest := results.Query.Destination
	if len(results.Options) > 0 {
		origin = results.Options[0].OriginCity
		dest = results.Options[0].DestCity
	}

	b.WriteString("AIR INDIA - FLIGHT SEARCH RESULTS\n\n")
	b.WriteString(fmt.Sprintf("ROUTE: %s -> %s\n", origin, dest))
	b.WriteString(fmt.Sprintf("DATE: %s\n\n", results.Query.Date))

	cabin := results.Query.CabinClass
	if cabin == "" {
		cabin = "Economy"
	}

	for i, opt := range results.Options {
		fare := "N/A"
		if f, ok := opt.Fares[cabin]; ok {
			fare = fmt.Sprintf("₹%d", f)
		}
		b.WriteString(fmt.Sprintf("%d. %s - %s -> %s (%s)\n",
			i+1, opt.FlightNumber, opt.DepartureTime, opt.ArrivalTime, opt.Duration))
		b.WriteString(fmt.Sprintf("   Price: %s (%s)\n", fare, cabin))
		b.WriteString(fmt.Sprintf("   Aircraft: %s\n", opt.Aircraft))
		b.WriteString(fmt.Sprintf("   Available seats: %d\n\n", opt.AvailableSeats))
	}

	b.WriteString("Fares are simulated and indicative only.")
	return b.String()
}

// truncate cuts s at the last sentence or word boundary before max
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if idx := strings.LastIndexAny(cut, ".!?"); idx > max/2 {
		return cut[:idx+1]
	}
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
