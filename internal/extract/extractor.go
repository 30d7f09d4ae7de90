package extract

import (
	"mime"
	"path/filepath"
	"strings"
)

// Extractor turns raw input bytes into a Document.
type Extractor interface {
	Extract(input []byte) Document
}

// HTMLExtractor wraps FromHTMLWith.
type HTMLExtractor struct{ Options Options }

func (e HTMLExtractor) Extract(input []byte) Document { return FromHTMLWith(input, e.Options) }

// MarkdownExtractor wraps FromMarkdown.
type MarkdownExtractor struct{ Options Options }

func (e MarkdownExtractor) Extract(input []byte) Document { return FromMarkdown(input, e.Options) }

// TextExtractor wraps FromText.
type TextExtractor struct{}

func (TextExtractor) Extract(input []byte) Document { return FromText(input) }

// ForMediaType picks an extractor from a Content-Type header value. Unknown
// or empty types are treated as plain text.
func ForMediaType(contentType string, opts Options) Extractor {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mt {
	case "text/html", "application/xhtml+xml":
		return HTMLExtractor{Options: opts}
	case "text/markdown", "text/x-markdown":
		return MarkdownExtractor{Options: opts}
	default:
		return TextExtractor{}
	}
}

// ForPath picks an extractor from a file name's extension.
func ForPath(path string, opts Options) Extractor {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return HTMLExtractor{Options: opts}
	case ".md", ".markdown", ".mdown":
		return MarkdownExtractor{Options: opts}
	default:
		return TextExtractor{}
	}
}
