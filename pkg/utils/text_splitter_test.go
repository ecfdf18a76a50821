package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	got := SplitText("short text", 100, 10)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("got %v, want the input unchanged", got)
	}
}

func TestSplitTextChunksAndOverlap(t *testing.T) {
	text := strings.Repeat("All checked baggage must be tagged. ", 50)
	chunks := SplitText(text, 300, 60)

	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		if len([]rune(c)) > 300 {
			t.Errorf("chunk %d has %d runes, want at most 300", i, len([]rune(c)))
		}
	}
	// overlap: the start of each chunk repeats the tail of the previous window
	if !strings.Contains(text, chunks[1][:20]) {
		t.Error("chunk content not drawn from the input")
	}
}

func TestSplitTextSnapsToSentenceBoundary(t *testing.T) {
	text := strings.Repeat("One sentence here. ", 40)
	chunks := SplitText(text, 200, 40)

	for i, c := range chunks[:len(chunks)-1] {
		trimmed := strings.TrimRight(c, " ")
		if !strings.HasSuffix(trimmed, ".") {
			t.Errorf("chunk %d does not end at a sentence boundary: %q", i, c[len(c)-20:])
		}
	}
}
