// Package wordlist holds sets of common words used to score how much of an
// extracted phrase is ordinary vocabulary rather than a proper name.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//go:embed words.txt
var defaultWords string

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases w, strips accents and trims surrounding punctuation so
// "(Hands," and "hands" compare equal.
func Normalize(w string) string {
	w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
	if w == "" {
		return ""
	}
	out, _, err := transform.String(foldAccents, strings.ToLower(w))
	if err != nil {
		return strings.ToLower(w)
	}
	return out
}

// Set is an immutable set of normalized words.
type Set struct {
	words map[string]struct{}
}

// Load reads words separated by spaces or newlines. Lines starting with #
// are comments. Lines may be arbitrarily long.
func Load(r io.Reader) (*Set, error) {
	s := &Set{words: make(map[string]struct{})}
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			for _, field := range strings.Fields(trimmed) {
				if w := Normalize(field); w != "" {
					s.words[w] = struct{}{}
				}
			}
		}
		if err == io.EOF {
			return s, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read word list: %w", err)
		}
	}
}

// LoadFile loads a word list from path.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	return Load(f)
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the built-in English word list.
func Default() *Set {
	defaultOnce.Do(func() {
		s, err := Load(strings.NewReader(defaultWords))
		if err != nil {
			// strings.Reader never fails
			panic(err)
		}
		defaultSet = s
	})
	return defaultSet
}

// Contains reports whether w, after normalization, is in the set. A nil set
// contains nothing.
func (s *Set) Contains(w string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[Normalize(w)]
	return ok
}

// Len returns the number of words in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Count returns how many of the space-separated words in phrase are in the
// set.
func (s *Set) Count(phrase string) int {
	n := 0
	for _, w := range strings.Fields(phrase) {
		if s.Contains(w) {
			n++
		}
	}
	return n
}
