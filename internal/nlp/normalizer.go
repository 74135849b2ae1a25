// Package nlp reduces free-text plot descriptions to space-separated lemmas.
package nlp

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/clipperhouse/uax29/v2/words"
)

// maxLemmaSteps bounds lemma chasing; dictionary chains are at most a
// couple of hops long.
const maxLemmaSteps = 4

// clitics are split off the end of a word and emitted as their own token.
var clitics = []string{"n't", "n’t", "'s", "’s", "'re", "’re", "'ve", "’ve", "'ll", "’ll", "'d", "’d", "'m", "’m"}

// Lemmatizer maps a lowercase word to its dictionary base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// baseForms is implemented by lemmatizers that can list every base reading
// of a word. A word listed among its own readings is kept as is.
type baseForms interface {
	Lemmas(word string) []string
}

// dictionary serializes access to golem, whose Lemmas sorts its cached
// slices in place.
type dictionary struct {
	mu  sync.Mutex
	lem *golem.Lemmatizer
}

func (d *dictionary) Lemma(word string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lem.LemmaLower(word)
}

func (d *dictionary) Lemmas(word string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.lem.Lemmas(word))
}

// Normalizer is safe for concurrent use once constructed.
type Normalizer struct {
	lemmatizer Lemmatizer
}

// NewNormalizer loads the English lemma dictionary. Loading takes a
// noticeable moment, so build one Normalizer per process and share it.
func NewNormalizer() (*Normalizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load lemma dictionary: %w", err)
	}
	return NewNormalizerWith(&dictionary{lem: lem}), nil
}

// NewNormalizerWith uses the given lemmatizer instead of the bundled dictionary.
func NewNormalizerWith(l Lemmatizer) *Normalizer {
	return &Normalizer{lemmatizer: l}
}

// Normalize lowercases and trims text, drops stop words and punctuation,
// and joins the lemmas of the remaining tokens with single spaces. A lemma
// is kept even when it is itself a stop word ("went" gives "go"), so a
// second pass may drop it before repeated passes settle. The result may be
// empty.
func (n *Normalizer) Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}

	var lemmas []string
	for _, token := range Tokens(text) {
		if IsStopWord(token) || isPunct(token) {
			continue
		}
		lemma := n.lemma(token)
		if lemma == "" || isPunct(lemma) {
			continue
		}
		lemmas = append(lemmas, lemma)
	}
	return strings.Join(lemmas, " ")
}

// Tokens segments text into words and punctuation on Unicode word
// boundaries, splitting English clitics and dropping whitespace.
func Tokens(text string) []string {
	var tokens []string
	segments := words.FromString(text)
	for segments.Next() {
		seg := segments.Value()
		if strings.TrimSpace(seg) == "" {
			continue
		}
		tokens = append(tokens, splitClitic(seg)...)
	}
	return tokens
}

func (n *Normalizer) lemma(token string) string {
	forms, _ := n.lemmatizer.(baseForms)
	current := token
	for i := 0; i < maxLemmaSteps; i++ {
		if forms != nil && slices.Contains(forms.Lemmas(current), current) {
			break
		}
		next := strings.ToLower(n.lemmatizer.Lemma(current))
		if next == "" || strings.ContainsFunc(next, unicode.IsSpace) {
			return current
		}
		if next == current {
			break
		}
		current = next
	}
	return current
}

func splitClitic(word string) []string {
	for _, c := range clitics {
		if len(word) > len(c) && strings.HasSuffix(word, c) {
			return []string{word[:len(word)-len(c)], c}
		}
	}
	return []string{word}
}

// isPunct reports whether every rune of s is punctuation.
func isPunct(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}
