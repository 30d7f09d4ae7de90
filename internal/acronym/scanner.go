package acronym

import "strings"

type state int

const (
	scanning state = iota
	buffering
)

func (s state) String() string {
	if s == buffering {
		return "buffering"
	}
	return "scanning"
}

// scanner walks a token slice once, left to right. Tokens that continue a
// phrase move it into the buffering state; the first token that does not
// flushes the buffer into found and returns it to scanning.
type scanner struct {
	tokens []string
	state  state
	buf    []string
	seen   map[string]struct{}
	found  []Result
}

func newScanner(tokens []string) *scanner {
	return &scanner{tokens: tokens, seen: make(map[string]struct{})}
}

func (s *scanner) step(i int) {
	switch {
	case s.skip(i):
	case s.continuesPhrase(i):
		s.buf = append(s.buf, s.tokens[i])
		s.state = buffering
	default:
		s.flush(i)
	}
}

// skip reports whether token i is plain lowercase prose: a lowercase opening
// token, or a lowercase token followed by another lowercase one.
func (s *scanner) skip(i int) bool {
	tok := s.tokens[i]
	if !isAllLower(tok) {
		return false
	}
	return i == 0 || (s.has(i+1) && startsLower(s.tokens[i+1]))
}

func (s *scanner) continuesPhrase(i int) bool {
	return s.capitalizedPair(i) || s.bridgesJoiner(i) || s.nextIsTitle(i)
}

// capitalizedPair: a title-case token followed by a capitalized one.
func (s *scanner) capitalizedPair(i int) bool {
	return s.has(i+1) && isTitleCase(s.tokens[i]) && startsUpper(s.tokens[i+1])
}

// bridgesJoiner: the next token is a lowercase joining word and the one after
// it is capitalized again, as in "With our Hands".
func (s *scanner) bridgesJoiner(i int) bool {
	return s.has(i+2) && startsLower(s.tokens[i+1]) && startsUpper(s.tokens[i+2])
}

// nextIsTitle: the next token is title case.
func (s *scanner) nextIsTitle(i int) bool {
	return s.has(i+1) && isTitleCase(s.tokens[i+1])
}

// flush closes the buffered phrase at token i. A capitalized terminator is
// the phrase's last word; any other terminator is left out.
func (s *scanner) flush(i int) {
	if s.state != buffering {
		return
	}
	words := s.buf
	if tok := s.tokens[i]; startsUpper(tok) {
		words = append(words, tok)
	}
	s.record(words)
	s.buf = nil
	s.state = scanning
}

func (s *scanner) record(words []string) {
	phrase := strings.TrimSpace(strings.Join(words, " "))
	if phrase == "" {
		return
	}
	if _, ok := s.seen[phrase]; ok {
		return
	}
	s.seen[phrase] = struct{}{}
	s.found = append(s.found, Result{Phrase: phrase, Acronym: Initials(words)})
}

func (s *scanner) has(i int) bool { return i < len(s.tokens) }
