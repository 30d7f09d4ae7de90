// Package source turns command-line inputs (stdin, URLs, files and
// directories) into extracted prose documents.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/unicode/norm"

	"github.com/capjamesg/find-abbreviations/internal/extract"
)

// Stdin is the input name that reads standard input.
const Stdin = "-"

// DefaultMaxBytes caps how much of one input is read after decompression.
const DefaultMaxBytes = 32 << 20

// Document is one input's extracted prose.
type Document struct {
	Name   string
	Title  string
	Text   string
	Blocks []string
	Abbrs  []extract.Abbr
}

// Fetcher retrieves a URL and reports its Content-Type.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Loader resolves and reads inputs.
type Loader struct {
	Fetcher Fetcher
	Stdin   io.Reader
	Extract extract.Options
	// Gitignore makes Expand honor .gitignore files inside walked
	// directories.
	Gitignore bool
	// MaxBytes caps one input's decoded size. Zero means DefaultMaxBytes.
	MaxBytes int64
}

// IsURL reports whether name is an http or https URL.
func IsURL(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Read loads and extracts a single input: "-", a URL or a file path.
func (l *Loader) Read(ctx context.Context, name string) (Document, error) {
	var (
		data []byte
		ex   extract.Extractor
		err  error
	)
	switch {
	case name == Stdin:
		if l.Stdin == nil {
			return Document{}, errors.New("stdin not available")
		}
		data, err = io.ReadAll(io.LimitReader(l.Stdin, l.maxBytes()))
		if err != nil {
			return Document{}, fmt.Errorf("read stdin: %w", err)
		}
		ex = extract.ForMediaType(http.DetectContentType(data), l.Extract)
	case IsURL(name):
		if l.Fetcher == nil {
			return Document{}, fmt.Errorf("%s: no fetcher configured", name)
		}
		var ct string
		data, ct, err = l.Fetcher.Get(ctx, name)
		if err != nil {
			return Document{}, err
		}
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		ex = extract.ForMediaType(ct, l.Extract)
	default:
		data, err = l.readFile(name)
		if err != nil {
			return Document{}, err
		}
		ex = extract.ForPath(trimCompressionExt(name), l.Extract)
	}

	data = norm.NFC.Bytes(bytes.ToValidUTF8(data, []byte("\uFFFD")))
	doc := ex.Extract(data)
	return Document{
		Name:   name,
		Title:  doc.Title,
		Text:   doc.Text,
		Blocks: doc.Blocks,
		Abbrs:  doc.Abbrs,
	}, nil
}

func (l *Loader) maxBytes() int64 {
	if l.MaxBytes > 0 {
		return l.MaxBytes
	}
	return DefaultMaxBytes
}

// readFile reads a file, transparently decompressing .gz and .zst.
func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: gzip: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: zstd: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes()))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func trimCompressionExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".zst":
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}
