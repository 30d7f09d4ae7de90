package acronym

import (
	"strings"
	"testing"
)

func TestTokenPredicates(t *testing.T) {
	cases := []struct {
		tok                   string
		lower, title, upFirst bool
	}{
		{"song.", true, false, false},
		{"(dwht)", true, false, false},
		{"Tied", false, true, true},
		{"Hands,", false, true, true},
		{"(D.W.O.H.T)", false, true, false},
		{"(DWHT)", false, false, false},
		{"DWHT", false, false, true},
		{"McDonald", false, false, true},
		{"123", false, false, false},
		{"", false, false, false},
		{"École", false, true, true},
	}
	for _, c := range cases {
		if got := isAllLower(c.tok); got != c.lower {
			t.Fatalf("isAllLower(%q) = %v", c.tok, got)
		}
		if got := isTitleCase(c.tok); got != c.title {
			t.Fatalf("isTitleCase(%q) = %v", c.tok, got)
		}
		if got := startsUpper(c.tok); got != c.upFirst {
			t.Fatalf("startsUpper(%q) = %v", c.tok, got)
		}
	}
	if !startsLower("") {
		t.Fatalf("empty token should count as lowercase")
	}
}

func TestLowerFirst(t *testing.T) {
	if got := lowerFirst("Club"); got != "club" {
		t.Fatalf("lowerFirst = %q", got)
	}
	if got := lowerFirst("(Club"); got != "(Club" {
		t.Fatalf("lowerFirst should leave non-letters alone, got %q", got)
	}
	if got := lowerFirst(""); got != "" {
		t.Fatalf("lowerFirst(\"\") = %q", got)
	}
}

func TestScanner_ContinuationRules(t *testing.T) {
	s := newScanner(strings.Fields("Dancing With our Hands Tied (DWHT) is fun"))

	if !s.capitalizedPair(0) {
		t.Fatalf("Dancing With should be a capitalized pair")
	}
	if s.capitalizedPair(1) {
		t.Fatalf("With our is not a capitalized pair")
	}
	if !s.bridgesJoiner(1) {
		t.Fatalf("With should bridge the joiner our")
	}
	if !s.nextIsTitle(2) {
		t.Fatalf("our should see title-case Hands next")
	}
	if s.capitalizedPair(4) || s.bridgesJoiner(4) || s.nextIsTitle(4) {
		t.Fatalf("Tied should end the phrase")
	}
	if s.nextIsTitle(7) || s.capitalizedPair(7) || s.bridgesJoiner(7) {
		t.Fatalf("the last token has no lookahead")
	}
}

func TestScanner_SkipRules(t *testing.T) {
	s := newScanner(strings.Fields("the cat Club is a game"))
	if !s.skip(0) {
		t.Fatalf("lowercase first token should be skipped")
	}
	if s.skip(1) {
		t.Fatalf("lowercase token before a capital is a possible joiner")
	}
	if !s.skip(3) {
		t.Fatalf("lowercase token before lowercase should be skipped")
	}
	if s.skip(5) {
		t.Fatalf("lowercase last token is not skipped")
	}
}

func TestScanner_StateTransitions(t *testing.T) {
	s := newScanner(strings.Fields("Club Penguin is fun"))
	if s.state != scanning {
		t.Fatalf("expected initial state scanning, got %v", s.state)
	}
	s.step(0)
	if s.state != buffering || len(s.buf) != 1 {
		t.Fatalf("expected buffering with one word, got %v %v", s.state, s.buf)
	}
	s.step(1)
	if s.state != scanning || len(s.buf) != 0 {
		t.Fatalf("expected flush back to scanning, got %v %v", s.state, s.buf)
	}
	if len(s.found) != 1 || s.found[0].Phrase != "Club Penguin" {
		t.Fatalf("unexpected found: %+v", s.found)
	}
	s.step(2)
	s.step(3)
	if len(s.found) != 1 {
		t.Fatalf("flushing an empty buffer must not record, got %+v", s.found)
	}
}

func BenchmarkExtract(b *testing.B) {
	text := strings.Repeat("We met at Club Penguin and watched Dancing With our Hands Tied (DWHT) again. ", 50)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Extract(text, Options{})
	}
}
