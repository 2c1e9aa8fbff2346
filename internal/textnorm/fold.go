// Package textnorm folds free text into a comparable form: decomposed,
// stripped of combining marks, lower-cased and trimmed.
package textnorm

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s without diacritics, lower-cased and trimmed, so that
// "Círculo" and "circulo " compare equal.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	// transform.Chain is stateful, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// ContainsAny reports whether folded text contains any of the keywords.
// Keywords are expected to be folded already.
func ContainsAny(folded string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

// Words splits folded text into runs of letters and digits. Punctuation and
// spaces are both separators, so "pos-encontro" yields [pos encontro].
func Words(folded string) []string {
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// ContainsWords reports whether any keyword occurs in folded text as a run of
// whole words. "missa" matches "missa de domingo" but not "comissao".
func ContainsWords(folded string, keywords ...string) bool {
	words := Words(folded)
	for _, k := range keywords {
		if hasRun(words, Words(k)) {
			return true
		}
	}
	return false
}

func hasRun(words, phrase []string) bool {
	n := len(phrase)
	if n == 0 {
		return false
	}
	for i := 0; i+n <= len(words); i++ {
		if slices.Equal(words[i:i+n], phrase) {
			return true
		}
	}
	return false
}
