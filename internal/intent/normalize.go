// Package intent resolves free-text user messages to a closed intent set
// using a deterministic pattern layer with a generative fallback.
package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims, and strips diacritics so that "Promoções"
// and "promocoes" resolve identically.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	folded, _, err := transform.String(foldTransformer, text)
	if err != nil {
		return text
	}
	return folded
}
