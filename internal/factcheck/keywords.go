// Package factcheck holds the text side of claim verification: keyword
// extraction, prompt assembly and parsing of the model's verdict.
package factcheck

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const maxKeywords = 8

var (
	wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	lowerCaser  = cases.Lower(language.Und)

	stopwords = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
		"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
		"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	}
)

// Normalize folds a claim to NFKC lower case with collapsed whitespace.
func Normalize(text string) string {
	folded := lowerCaser.String(norm.NFKC.String(text))
	return strings.Join(strings.Fields(folded), " ")
}

// ExtractKeywords returns up to eight search terms from the claim: words
// longer than two characters that are not stopwords, in original order.
func ExtractKeywords(text string) string {
	words := wordPattern.FindAllString(Normalize(text), -1)
	keywords := make([]string, 0, maxKeywords)
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return strings.Join(keywords, " ")
}
