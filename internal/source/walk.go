package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	gitignore "github.com/sabhiram/go-gitignore"
)

var skippedDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true, "dist": true, "build": true,
	"target": true, "__pycache__": true, ".venv": true, "venv": true,
}

var textExts = map[string]bool{
	".txt": true, ".text": true, ".md": true, ".markdown": true, ".mdown": true,
	".rst": true, ".html": true, ".htm": true, ".xhtml": true,
}

// IsTextFile reports whether a walked file should be read, judging by its
// extension once any .gz or .zst suffix is removed.
func IsTextFile(path string) bool {
	return textExts[strings.ToLower(filepath.Ext(trimCompressionExt(path)))]
}

// Expand resolves inputs into leaf inputs in a stable order. Directories are
// walked in lexical order and contribute their text files; every other input
// is kept as given, so a missing path surfaces as an error from Read.
func (l *Loader) Expand(inputs []string) ([]string, error) {
	var out []string
	for _, in := range inputs {
		if in == Stdin || IsURL(in) {
			out = append(out, in)
			continue
		}
		fi, err := os.Stat(in)
		if err != nil || !fi.IsDir() {
			out = append(out, in)
			continue
		}
		files, err := l.walk(in)
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", in, err)
		}
		out = append(out, files...)
	}
	return out, nil
}

func (l *Loader) walk(root string) ([]string, error) {
	ig := &ignorer{root: root, enabled: l.Gitignore, cache: map[string]*gitignore.GitIgnore{}}
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("skipping unreadable path")
			if d != nil && d.IsDir() && errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if skippedDirs[name] || (strings.HasPrefix(name, ".") && len(name) > 1) {
				return filepath.SkipDir
			}
			if ig.ignored(path, true) {
				log.Debug().Str("path", path).Msg("skipping ignored directory")
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !IsTextFile(path) {
			return nil
		}
		if ig.ignored(path, false) {
			log.Debug().Str("path", path).Msg("skipping ignored file")
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// ignorer applies every .gitignore between the walk root and a path. Each
// file's patterns are matched against the path relative to its directory.
type ignorer struct {
	root    string
	enabled bool
	cache   map[string]*gitignore.GitIgnore
}

func (ig *ignorer) ignored(path string, isDir bool) bool {
	if !ig.enabled {
		return false
	}
	dirs := []string{ig.root}
	if rel, err := filepath.Rel(ig.root, filepath.Dir(path)); err == nil && rel != "." {
		cur := ig.root
		for _, part := range strings.Split(rel, string(filepath.Separator)) {
			cur = filepath.Join(cur, part)
			dirs = append(dirs, cur)
		}
	}
	for _, dir := range dirs {
		g := ig.load(dir)
		if g == nil {
			continue
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if isDir {
			rel += "/"
		}
		if g.MatchesPath(rel) {
			return true
		}
	}
	return false
}

func (ig *ignorer) load(dir string) *gitignore.GitIgnore {
	if g, ok := ig.cache[dir]; ok {
		return g
	}
	var g *gitignore.GitIgnore
	p := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(p); err == nil {
		compiled, err := gitignore.CompileIgnoreFile(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("ignoring unreadable .gitignore")
		} else {
			g = compiled
		}
	}
	ig.cache[dir] = g
	return g
}
