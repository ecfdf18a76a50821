package language

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Language
	}{
		{"plain english", "What is the baggage allowance?", English},
		{"devanagari", "सामान की सीमा क्या है", Hindi},
		{"romanized hindi", "baggage allowance kitna hai", Hindi},
		{"hindi stopword as substring only", "the chair is here", English},
		{"empty", "", Unknown},
		{"emoji only", "👍🎉", Unknown},
		{"punctuation only", "?!...", Unknown},
		{"mixed script prefers hindi", "refund कब मिलेगा", Hindi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectDeterministic(t *testing.T) {
	// Same input must always give the same answer
	for i := 0; i < 5; i++ {
		if got := Detect("kaise ho"); got != Hindi {
			t.Fatalf("run %d: Detect = %v, want %v", i, got, Hindi)
		}
	}
}

func TestLanguageCode(t *testing.T) {
	if English.Code() != "en" || Hindi.Code() != "hi" || Unknown.Code() != "" {
		t.Errorf("unexpected language codes: %q %q %q", English.Code(), Hindi.Code(), Unknown.Code())
	}
}
