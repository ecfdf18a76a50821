package utils

import "unicode"

// SplitText splits a long string into chunks of roughly chunkSize runes,
// carrying an overlap between consecutive chunks to preserve context at the
// boundaries. Chunk ends snap back to the nearest sentence or whitespace
// break when one is close enough, so policy clauses are not cut mid-word.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		end = snapToBreak(runes, start, end)
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// snapToBreak walks back from end looking for a sentence terminator, then a
// whitespace rune, within the last tenth of the chunk. Falls back to the hard
// cut when the chunk has no break at all.
func snapToBreak(runes []rune, start, end int) int {
	limit := end - (end-start)/10
	for i := end - 1; i > limit; i-- {
		if runes[i] == '.' || runes[i] == '!' || runes[i] == '?' || runes[i] == '।' {
			return i + 1
		}
	}
	for i := end - 1; i > limit; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}
