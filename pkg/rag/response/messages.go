package response

import (
	"maharaja-assistant-be/pkg/language"
	"maharaja-assistant-be/pkg/rag/intent"
)

// Canned messages used when the completion backend fails or no usable
// evidence exists. The conversation never surfaces a raw error.

const (
	policyServiceDownMessage = "I'm currently experiencing connection issues with the policy system. " +
		"Please try again in a few moments or contact Air India support at 1-800-180-1407."

	policyNoEvidenceMessage = "I couldn't find specific information for your query. " +
		"Typical international Economy allowance: 1 checked bag up to 23 kg and 1 carry-on up to 8 kg. " +
		"Rules may vary by route, so please verify with Air India support for your exact itinerary."

	generalFallbackMessage = "Namaste! I am Maharaja, your Air India assistant. " +
		"I can help you search flights, answer baggage and travel policy questions, " +
		"and more. How can I help you today?"

	flightFallbackMessage = "I'm having trouble completing your flight search right now. " +
		"Please try again in a few moments."

	noFlightsMessage = "No flights were found for this route and date. " +
		"You could try a different date, a nearby departure airport, or a connecting route."

	policyServiceDownMessageHI = "नीति प्रणाली से जुड़ने में समस्या आ रही है। " +
		"कृपया कुछ क्षण बाद पुनः प्रयास करें या Air India सहायता 1-800-180-1407 पर संपर्क करें।"

	generalFallbackMessageHI = "नमस्ते! मैं महाराजा हूँ, आपका Air India सहायक। मैं आपकी कैसे मदद कर सकता हूँ?"
)

// fallbackText picks the canned message for a failed composition
func fallbackText(target intent.Intent, lang language.Language) string {
	switch target {
	case intent.IntentPolicy:
		if lang == language.Hindi {
			return policyServiceDownMessageHI
		}
		return policyServiceDownMessage
	case intent.IntentFlight:
		return flightFallbackMessage
	default:
		if lang == language.Hindi {
			return generalFallbackMessageHI
		}
		return generalFallbackMessage
	}
}
