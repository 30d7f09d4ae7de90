// Package report renders extraction findings as text, JSON, YAML, Markdown
// or PDF.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown, FormatPDF}

// ParseFormat accepts a format name case-insensitively; "md" and "yml" are
// aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Binary reports whether the format must not be written to a terminal.
func (f Format) Binary() bool { return f == FormatPDF }

// Finding is the extraction result for one segment of one input.
type Finding struct {
	Source string `json:"source" yaml:"source"`
	// Segment is 1-based within Source.
	Segment int    `json:"segment" yaml:"segment"`
	Found   bool   `json:"found" yaml:"found"`
	Phrase  string `json:"phrase,omitempty" yaml:"phrase,omitempty"`
	Acronym string `json:"acronym,omitempty" yaml:"acronym,omitempty"`
	// CommonWords counts phrase words found in the word list.
	CommonWords int `json:"common_words" yaml:"common_words"`
}

// Definition is an explicitly declared acronym, either written in prose as
// "Long Form (LF)" or marked up with <abbr title="...">.
type Definition struct {
	Source     string `json:"source" yaml:"source"`
	LongForm   string `json:"long_form" yaml:"long_form"`
	Acronym    string `json:"acronym" yaml:"acronym"`
	Consistent bool   `json:"consistent" yaml:"consistent"`
	Origin     string `json:"origin" yaml:"origin"`
}

// Summary counts what a run looked at.
type Summary struct {
	Inputs   int `json:"inputs" yaml:"inputs"`
	Failed   int `json:"failed" yaml:"failed"`
	Segments int `json:"segments" yaml:"segments"`
	Phrases  int `json:"phrases" yaml:"phrases"`
}

// Report is everything one run produced.
type Report struct {
	Title       string       `json:"title,omitempty" yaml:"title,omitempty"`
	Summary     Summary      `json:"summary" yaml:"summary"`
	Findings    []Finding    `json:"findings" yaml:"findings"`
	Definitions []Definition `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

// Write renders r to w in the given format.
func Write(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatText:
		return writeText(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatPDF:
		return writePDF(w, r)
	}
	return fmt.Errorf("unknown format %q", f)
}

// WriteFile renders r into path, replacing any existing file.
func WriteFile(path string, r Report, f Format) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Write(out, r, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeText(w io.Writer, r Report) error {
	var b strings.Builder
	for _, f := range r.Findings {
		phrase, acro := f.Phrase, f.Acronym
		if !f.Found {
			phrase, acro = "-", "-"
		}
		fmt.Fprintf(&b, "%s:%d\t%s\t%s\n", f.Source, f.Segment, phrase, acro)
	}
	if len(r.Definitions) > 0 {
		b.WriteString("-- definitions\n")
		for _, d := range r.Definitions {
			state := "consistent"
			if !d.Consistent {
				state = "inconsistent"
			}
			fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%s\n", d.Source, d.LongForm, d.Acronym, d.Origin, state)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
