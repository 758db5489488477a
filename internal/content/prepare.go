// Package content normalizes raw document text before summarization.
package content

import "github.com/rs/zerolog/log"

// Prepare caps text at bound characters, returning it unchanged when it
// already fits. Truncation is counted in characters (runes), not bytes, so
// multibyte text is never cut mid-character.
func Prepare(text string, bound int) string {
	runes := []rune(text)
	if len(runes) <= bound {
		return text
	}
	log.Info().Int("chars", len(runes)).Int("bound", bound).Msg("Truncating oversized document content")
	return string(runes[:bound])
}

// Snippet returns the first n characters of text, used for the partial
// content stored alongside each indexed summary.
func Snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
