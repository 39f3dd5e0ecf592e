// Package sentence splits and normalizes prose for section refinement.
package sentence

import (
	"strings"
	"unicode"
)

// Split breaks text into sentences at '.', '!' or '?' followed by
// whitespace. Terminal punctuation stays with its sentence and the
// whitespace run between sentences is dropped. Empty pieces are skipped,
// so empty or all-whitespace text yields no sentences.
func Split(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)
		if (r != '.' && r != '!' && r != '?') || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// Normalize trims text and turns line breaks into spaces.
func Normalize(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
