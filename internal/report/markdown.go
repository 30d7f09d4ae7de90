package report

import (
	"fmt"
	"strings"
)

// Markdown renders r as a Markdown document with a findings table and, when
// present, a definitions table.
func Markdown(r Report) string {
	var b strings.Builder
	title := r.Title
	if title == "" {
		title = "Abbreviations"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%d inputs (%d failed), %d segments, %d phrases.\n\n",
		r.Summary.Inputs, r.Summary.Failed, r.Summary.Segments, r.Summary.Phrases)

	b.WriteString("| Source | Segment | Phrase | Acronym | Common words |\n")
	b.WriteString("|---|---:|---|---|---:|\n")
	for _, f := range r.Findings {
		phrase, acro := cell(f.Phrase), cell(f.Acronym)
		if !f.Found {
			phrase, acro = "_none_", ""
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %d |\n", cell(f.Source), f.Segment, phrase, acro, f.CommonWords)
	}

	if len(r.Definitions) > 0 {
		b.WriteString("\n## Definitions\n\n")
		b.WriteString("| Source | Long form | Acronym | Origin | Consistent |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, d := range r.Definitions {
			consistent := "no"
			if d.Consistent {
				consistent = "yes"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", cell(d.Source), cell(d.LongForm), cell(d.Acronym), d.Origin, consistent)
		}
	}
	return b.String()
}

// cell escapes pipes so a value cannot split a table row.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
