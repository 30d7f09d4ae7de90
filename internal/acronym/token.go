package acronym

import (
	"unicode"
	"unicode/utf8"
)

// isCased reports whether r carries letter case.
func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// isAllLower returns true when s has at least one cased rune and none of its
// cased runes are uppercase. Punctuation and digits are ignored, so "song."
// and "(dwht)" are lowercase while "123" is not.
func isAllLower(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

// isTitleCase returns true when every run of cased runes in s starts with an
// uppercase rune followed only by lowercase runes. "Tied", "Hands," and
// "(D.W.O.H.T)" qualify; "DWHT", "McDonald" and "song" do not.
func isTitleCase(s string) bool {
	cased := false
	prevCased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased = true
			cased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
			cased = true
		default:
			prevCased = false
		}
	}
	return cased
}

// startsUpper reports whether the first rune of s is uppercase. Empty tokens
// never start uppercase.
func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return s != "" && (unicode.IsUpper(r) || unicode.IsTitle(r))
}

// startsLower reports whether the first rune of s is lowercase. Empty tokens
// are treated as lowercase.
func startsLower(s string) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}

// isAlpha reports whether s is non-empty and made only of letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// lowerFirst lowercases the first rune of s.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !isCased(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// initial returns the first rune of s as a string.
func initial(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}
