// Package tokenizer derives index tokens from raw text: stemmed words,
// character 3-grams, and word-initial markers.
package tokenizer

import (
	"regexp"
	"strings"

	snowballeng "github.com/kljensen/snowball/english"
)

// nonAlphanumericRegex matches a single character outside [A-Za-z0-9].
// Each occurrence is replaced by exactly one space, so runs of separators
// produce empty fields under a single-space split; those are discarded by
// the minimum-length filter.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]`)

// CleanWords converts a string into its stemmed word tokens: strip
// non-alphanumerics, lowercase, split on single spaces, drop words shorter
// than 2 characters, and stem the rest with the Snowball English stemmer.
// Output keeps input order and duplicates; a word occurring twice yields
// two postings and weighs proportionally more.
func CleanWords(text string) []string {
	cleaned := strings.ToLower(nonAlphanumericRegex.ReplaceAllString(text, " "))

	words := make([]string, 0)
	for _, w := range strings.Split(cleaned, " ") {
		if len(w) < 2 {
			continue
		}
		words = append(words, snowballeng.Stem(w, false))
	}
	return words
}

// FirstCharTokens emits one "$x" marker per space-separated word of the raw
// input, where x is the lowercased first character. An empty word (from
// consecutive spaces) degenerates to a bare "$".
func FirstCharTokens(text string) []string {
	words := strings.Split(text, " ")
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			tokens = append(tokens, "$")
			continue
		}
		first := []rune(w)[0]
		tokens = append(tokens, "$"+strings.ToLower(string(first)))
	}
	return tokens
}

// Gramify produces the character-level tokens for a string. Strings of raw
// byte length 1 or 2 yield only padded initial/final markers. Longer
// strings yield every rune-level 3-gram over the stemmed words joined by
// single spaces (the joining space takes part in the sliding window, so
// boundary-straddling grams are produced on purpose), followed by the
// word-initial markers of the raw input.
func Gramify(text string) []string {
	switch len(text) {
	case 0:
		return []string{}
	case 1:
		return []string{"$" + text}
	case 2:
		runes := []rune(text)
		if len(runes) < 2 {
			return []string{"$" + text}
		}
		return []string{"$" + string(runes[0]), string(runes[1]) + "$"}
	}

	prepared := []rune(strings.Join(CleanWords(text), " "))

	tokens := make([]string, 0, len(prepared))
	for i := 0; i+3 <= len(prepared); i++ {
		tokens = append(tokens, string(prepared[i:i+3]))
	}
	tokens = append(tokens, FirstCharTokens(text)...)
	return tokens
}
