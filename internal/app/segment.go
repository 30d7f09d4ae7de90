package app

import (
	"fmt"
	"strings"
	"unicode"
)

// Mode selects how a document is cut into snippets before extraction.
type Mode string

const (
	// ModeDocument treats the whole document as one snippet.
	ModeDocument Mode = "document"
	// ModeLine treats every non-blank line as a snippet.
	ModeLine Mode = "line"
	// ModeSentence splits lines after '.', '!' or '?' followed by a space.
	ModeSentence Mode = "sentence"
)

// Modes lists every supported segmentation mode.
var Modes = []Mode{ModeDocument, ModeLine, ModeSentence}

// ParseMode accepts a mode name case-insensitively. Empty means document.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeDocument, nil
	case ModeDocument, ModeLine, ModeSentence:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Segment cuts text into snippets. Blank snippets are dropped, so empty text
// yields none.
func Segment(text string, mode Mode) []string {
	switch mode {
	case ModeLine:
		return lines(text)
	case ModeSentence:
		var out []string
		for _, l := range lines(text) {
			out = append(out, sentences(l)...)
		}
		return out
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []string{text}
}

func lines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func sentences(line string) []string {
	var out []string
	rs := []rune(line)
	start := 0
	for i := 0; i < len(rs)-1; i++ {
		if (rs[i] == '.' || rs[i] == '!' || rs[i] == '?') && unicode.IsSpace(rs[i+1]) {
			if s := strings.TrimSpace(string(rs[start : i+1])); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(rs[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
