// Package language provides utterance language detection for routing and
// prompt construction. Detection is a pure function so it can be tested in
// isolation from the rest of the pipeline.
package language

import "strings"

// Language is the detected language signal of an utterance
type Language string

const (
	English Language = "EN"
	Hindi   Language = "HI"
	Unknown Language = "UNKNOWN"
)

// Code returns the lowercase ISO-style code used in document metadata
func (l Language) Code() string {
	switch l {
	case Hindi:
		return "hi"
	case English:
		return "en"
	default:
		return ""
	}
}

// Romanized Hindi stopwords that show up in Hinglish queries
var hindiWords = []string{"kya", "hai", "kaise", "ho", "mein", "aap", "nahi", "kitna", "chahiye"}

// Detect classifies an utterance as English, Hindi or Unknown.
// Devanagari codepoints or romanized Hindi stopwords win over Latin letters;
// an utterance with no recognizable letters at all (emoji, punctuation) is
// Unknown.
func Detect(text string) Language {
	if text == "" {
		return Unknown
	}

	hasLatin := false
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return Hindi
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			hasLatin = true
		}
	}

	lower := strings.ToLower(text)
	for _, w := range hindiWords {
		if containsWord(lower, w) {
			return Hindi
		}
	}

	if hasLatin {
		return English
	}
	return Unknown
}

// containsWord matches w as a whole word inside s
func containsWord(s, w string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], w)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(w)
		beforeOK := start == 0 || !isLetter(s[start-1])
		afterOK := end == len(s) || !isLetter(s[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
