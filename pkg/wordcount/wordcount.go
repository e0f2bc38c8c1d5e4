// Package wordcount counts words using Unicode text segmentation.
package wordcount

import (
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// Count returns the number of words in text. Segmentation follows
// UAX #29 word boundaries; tokens carrying no letter or digit
// (whitespace, punctuation) are not counted. CJK text counts per
// segmented token rather than per space-separated run.
func Count(text string) int {
	count := 0

	tokens := words.FromString(text)
	for tokens.Next() {
		if wordlike(tokens.Value()) {
			count++
		}
	}

	return count
}

func wordlike(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}

	return false
}
