package acronym

import (
	"regexp"
	"strings"
)

// Definition is an acronym declared explicitly in the text, such as
// "Word Like This (WLT)" or "Word Like This (W.L.T)".
type Definition struct {
	LongForm string `json:"long_form" yaml:"long_form"`
	// Acronym is the declared acronym with any dots removed.
	Acronym string `json:"acronym" yaml:"acronym"`
	// Consistent is true when Acronym matches the initials of LongForm,
	// ignoring case.
	Consistent bool `json:"consistent" yaml:"consistent"`
}

// Two or more title-case words, a space, then an all-caps acronym in
// parentheses, optionally dotted.
var definitionRe = regexp.MustCompile(`(\p{Lu}\p{Ll}+(?: \p{Lu}\p{Ll}+)+) \((\p{Lu}(?:\.?\p{Lu})*\.?)\)`)

// Definitions returns the explicit acronym definitions in text in order of
// appearance, keeping the first long form seen for each acronym. It does not
// influence Extract.
func Definitions(text string) []Definition {
	var out []Definition
	seen := map[string]struct{}{}
	for _, m := range definitionRe.FindAllStringSubmatch(text, -1) {
		acro := strings.ReplaceAll(m[2], ".", "")
		if _, ok := seen[acro]; ok {
			continue
		}
		seen[acro] = struct{}{}
		long := m[1]
		out = append(out, Definition{
			LongForm:   long,
			Acronym:    acro,
			Consistent: strings.EqualFold(Initials(strings.Fields(long)), acro),
		})
	}
	return out
}
