// Package acronym finds the longest capitalized multi-word phrase in a piece
// of prose and the acronym formed by its initials. It handles
// "Word Like This (WLT)", "Word Like This (W.L.T)" and bare
// "Word Like This" alike; detection is driven purely by capitalization.
package acronym

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrNoPhraseFound is returned when a scan records no candidate phrase.
// It is an expected outcome for ordinary prose.
var ErrNoPhraseFound = errors.New("no phrase found")

// Result is a phrase together with its acronym.
type Result struct {
	Phrase  string `json:"phrase" yaml:"phrase"`
	Acronym string `json:"acronym" yaml:"acronym"`
}

// Options tunes a scan.
type Options struct {
	// LowercaseFirstWord lowercases the first character of the first token so
	// a sentence-initial capital does not seed a phrase.
	LowercaseFirstWord bool
}

// Extract returns the longest phrase found in text. Phrases of equal length
// are resolved in favor of the one encountered first. When nothing is found
// it returns ErrNoPhraseFound.
func Extract(text string, opts Options) (Result, error) {
	return Longest(Candidates(text, opts))
}

// Candidates returns every phrase recorded while scanning text, in the order
// they were first recorded. Duplicate phrases appear once.
func Candidates(text string, opts Options) []Result {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}
	if opts.LowercaseFirstWord {
		tokens[0] = lowerFirst(tokens[0])
	}
	s := newScanner(tokens)
	for i := range tokens {
		s.step(i)
	}
	return s.found
}

// Longest picks the phrase with the most characters. The first of several
// equally long phrases wins.
func Longest(found []Result) (Result, error) {
	if len(found) == 0 {
		return Result{}, ErrNoPhraseFound
	}
	best := found[0]
	bestLen := utf8.RuneCountInString(best.Phrase)
	for _, r := range found[1:] {
		if n := utf8.RuneCountInString(r.Phrase); n > bestLen {
			best, bestLen = r, n
		}
	}
	return best, nil
}

// Initials concatenates the first character of every purely alphabetic word
// in words, preserving case.
func Initials(words []string) string {
	var b strings.Builder
	for _, w := range words {
		if isAlpha(w) {
			b.WriteString(initial(w))
		}
	}
	return b.String()
}
