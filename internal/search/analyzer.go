package search

import (
	"regexp"
	"strings"
)

// wordPattern matches runs of word characters; runs shorter than two
// characters are dropped by Analyzer.Tokenize, giving the usual
// \b\w\w+\b token rule with Unicode word characters.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Analyzer turns raw text into the terms a vocabulary is keyed by.
type Analyzer struct {
	Lowercase bool
	StopWords map[string]struct{}
	// NGramMin and NGramMax bound the word n-gram sizes; zero means 1.
	NGramMin int
	NGramMax int
}

// Tokenize splits text into normalized tokens (words of two or more characters)
func (a Analyzer) Tokenize(text string) []string {
	if a.Lowercase {
		text = strings.ToLower(text)
	}
	var tokens []string
	for _, field := range wordPattern.FindAllString(text, -1) {
		if len([]rune(field)) < 2 {
			continue
		}
		if _, stop := a.StopWords[field]; stop {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// Terms returns the word n-grams of text, unigrams first.
func (a Analyzer) Terms(text string) []string {
	tokens := a.Tokenize(text)
	lo, hi := a.NGramMin, a.NGramMax
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	if lo == 1 && hi == 1 {
		return tokens
	}

	var terms []string
	for n := lo; n <= hi; n++ {
		if n == 1 {
			terms = append(terms, tokens...)
			continue
		}
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}
