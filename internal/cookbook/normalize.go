package cookbook

import (
	"errors"
	"strings"
)

// ErrEmptyName is returned when nothing alphabetic survives normalization
var ErrEmptyName = errors.New("recipe name has no letters")

// NormalizeName cleans a free-text recipe name: hyphens and underscores
// become spaces, every other character that is not an ASCII letter or a
// space is dropped, words are title-cased, and whitespace collapses to
// single spaces.
func NormalizeName(input string) (string, error) {
	var b strings.Builder
	for _, r := range input {
		switch {
		case r == '-' || r == '_':
			b.WriteRune(' ')
		case isASCIILetter(r) || r == ' ':
			b.WriteRune(r)
		}
	}

	// Fields both splits words and collapses runs of whitespace
	words := strings.Fields(b.String())
	if len(words) == 0 {
		return "", ErrEmptyName
	}

	for i, word := range words {
		words[i] = titleCase(word)
	}

	return strings.Join(words, " "), nil
}

// isASCIILetter reports whether r is in [A-Za-z]
func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// titleCase upper-cases the first letter of a word and lower-cases the rest
func titleCase(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}
