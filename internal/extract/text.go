package extract

import (
	"regexp"
	"strings"
)

// FromText splits plain text into paragraphs on blank lines. Lines inside a
// paragraph stay on their own lines.
func FromText(input []byte) Document {
	var blocks []string
	var para []string
	flush := func() {
		if text := joinLines(para); text != "" {
			blocks = append(blocks, text)
		}
		para = para[:0]
	}
	for _, line := range splitLines(input) {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		para = append(para, line)
	}
	flush()
	return newDocument("", blocks, nil)
}

var (
	mdHeading   = regexp.MustCompile(`^#{1,6}\s+`)
	mdListItem  = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+`)
	mdQuote     = regexp.MustCompile(`^(?:>\s?)+`)
	mdFence     = regexp.MustCompile("^(```|~~~)")
	mdRule      = regexp.MustCompile(`^(?:[-*_]\s*){3,}$`)
	mdImage     = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	mdLink      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdCodeSpan  = regexp.MustCompile("`[^`]*`")
	mdEmphasis  = regexp.MustCompile(`(\*\*|__|\*|_)([^*_]+)(\*\*|__|\*|_)`)
	mdAutolink  = regexp.MustCompile(`<https?://[^>]*>`)
	mdTableRule = regexp.MustCompile(`^\|?(?:\s*:?-+:?\s*\|)+\s*:?-*:?\s*$`)
)

// FromMarkdown strips common Markdown markup and splits the result into
// blocks. Headings and list items are blocks of their own; the first level-1
// heading becomes the title. Fenced code is dropped unless opts.KeepCode.
func FromMarkdown(input []byte, opts Options) Document {
	var (
		title   string
		blocks  []string
		para    []string
		inFence bool
	)
	flush := func() {
		if text := joinLines(para); text != "" {
			blocks = append(blocks, text)
		}
		para = para[:0]
	}
	for _, raw := range splitLines(input) {
		line := strings.TrimSpace(raw)
		if mdFence.MatchString(line) {
			flush()
			inFence = !inFence
			continue
		}
		if inFence {
			if opts.KeepCode && line != "" {
				blocks = append(blocks, collapseSpaces(line))
			}
			continue
		}
		if line == "" || mdRule.MatchString(line) || mdTableRule.MatchString(line) {
			flush()
			continue
		}
		line = mdQuote.ReplaceAllString(line, "")
		if loc := mdHeading.FindStringIndex(line); loc != nil {
			flush()
			text := inlineMarkdown(strings.TrimRight(line[loc[1]:], "# "), opts)
			if title == "" && strings.HasPrefix(line, "# ") {
				title = text
			}
			para = append(para, text)
			flush()
			continue
		}
		if loc := mdListItem.FindStringIndex(line); loc != nil {
			flush()
			line = line[loc[1]:]
		}
		if strings.HasPrefix(line, "|") {
			flush()
			for _, cell := range strings.Split(strings.Trim(line, "|"), "|") {
				para = append(para, inlineMarkdown(cell, opts))
				flush()
			}
			continue
		}
		para = append(para, inlineMarkdown(line, opts))
	}
	flush()
	return newDocument(title, blocks, nil)
}

// joinLines collapses spaces within each line, drops blank lines and joins
// the rest with newlines, so a line break in the source stays a line break.
func joinLines(lines []string) string {
	var out []string
	for _, l := range lines {
		if l = collapseSpaces(strings.TrimSpace(l)); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func inlineMarkdown(s string, opts Options) string {
	s = mdImage.ReplaceAllString(s, "$1")
	s = mdLink.ReplaceAllString(s, "$1")
	s = mdAutolink.ReplaceAllString(s, "")
	if opts.KeepCode {
		s = strings.ReplaceAll(s, "`", "")
	} else {
		s = mdCodeSpan.ReplaceAllString(s, "")
	}
	for {
		next := mdEmphasis.ReplaceAllString(s, "$2")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

func splitLines(input []byte) []string {
	s := strings.TrimPrefix(string(input), "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
