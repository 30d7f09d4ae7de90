// Package app wires sources, segmentation, extraction and reporting into a
// single run.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/capjamesg/find-abbreviations/internal/acronym"
	"github.com/capjamesg/find-abbreviations/internal/cache"
	"github.com/capjamesg/find-abbreviations/internal/extract"
	"github.com/capjamesg/find-abbreviations/internal/fetch"
	"github.com/capjamesg/find-abbreviations/internal/report"
	"github.com/capjamesg/find-abbreviations/internal/robots"
	"github.com/capjamesg/find-abbreviations/internal/source"
	"github.com/capjamesg/find-abbreviations/internal/wordlist"
)

// ErrNoPhrases is returned by Run when no segment of any input produced a
// phrase. The report is still written.
var ErrNoPhrases = errors.New("no phrases found")

// Origins of a report.Definition.
const (
	OriginText   = "text"
	OriginMarkup = "markup"
)

// App runs one extraction over the configured inputs and writes the report.
type App struct {
	cfg    Config
	words  *wordlist.Set
	loader *source.Loader

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// New validates cfg, loads the word list and prepares the fetch cache.
func New(cfg Config) (*App, error) {
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.Mode == "" {
		cfg.Mode = DefaultMode
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	cfg.Format, _ = report.ParseFormat(string(cfg.Format))
	cfg.Mode, _ = ParseMode(string(cfg.Mode))
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	words := wordlist.Default()
	if cfg.WordsPath != "" {
		w, err := wordlist.LoadFile(cfg.WordsPath)
		if err != nil {
			return nil, fmt.Errorf("load word list: %w", err)
		}
		words = w
	}
	log.Debug().Str("stage", "words").Int("count", words.Len()).Msg("word list loaded")

	client := &fetch.Client{
		HTTPClient:        newHTTPClient(cfg.Timeout),
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.Timeout,
		BypassCache:       cfg.NoCache,
		MaxConcurrent:     cfg.Workers,
	}
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("stage", "cache").Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
			if err != nil {
				log.Warn().Err(err).Str("stage", "cache").Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Str("stage", "cache").Int("removed", n).Msg("purged stale cache entries")
			}
		}
		client.Cache = &cache.HTTPCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}

	var fetcher source.Fetcher = client
	if cfg.Robots {
		fetcher = &robots.Guard{
			Getter: client,
			Robots: &robots.Manager{Getter: client, UserAgent: cfg.UserAgent},
		}
	}

	return &App{
		cfg:   cfg,
		words: words,
		loader: &source.Loader{
			Fetcher:   fetcher,
			Extract:   extract.Options{KeepCode: cfg.KeepCode},
			Gitignore: cfg.Gitignore,
		},
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}, nil
}

// Run analyzes every input and writes the report to the output path, or to
// Stdout when none is set.
func (a *App) Run(ctx context.Context) error {
	rep, err := a.Analyze(ctx)
	if err != nil {
		return err
	}
	if a.cfg.OutputPath != "" {
		err = report.WriteFile(a.cfg.OutputPath, rep, a.cfg.Format)
	} else {
		err = report.Write(a.Stdout, rep, a.cfg.Format)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	log.Info().Str("stage", "report").Str("format", string(a.cfg.Format)).
		Int("findings", len(rep.Findings)).Int("definitions", len(rep.Definitions)).Msg("report written")
	if rep.Summary.Phrases == 0 {
		return ErrNoPhrases
	}
	return nil
}

type inputResult struct {
	title    string
	segments int
	phrases  int
	findings []report.Finding
	defs     []report.Definition
	err      error
}

// Analyze reads, segments and extracts every input. Findings keep input
// order regardless of which worker handled an input. Unreadable inputs are
// logged and counted; Analyze fails only when every input failed.
func (a *App) Analyze(ctx context.Context) (report.Report, error) {
	a.loader.Stdin = a.Stdin
	inputs := a.cfg.Inputs
	if len(inputs) == 0 {
		inputs = []string{source.Stdin}
	}
	names, err := a.loader.Expand(inputs)
	if err != nil {
		return report.Report{}, fmt.Errorf("expand inputs: %w", err)
	}
	log.Info().Str("stage", "expand").Int("inputs", len(names)).Msg("inputs resolved")

	results := make([]inputResult, len(names))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(a.cfg.Workers, len(names)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = a.process(ctx, names[i])
			}
		}()
	}
feed:
	for i := range names {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return report.Report{}, err
	}

	rep := report.Report{Findings: []report.Finding{}}
	var firstErr error
	for _, r := range results {
		rep.Summary.Inputs++
		if r.err != nil {
			rep.Summary.Failed++
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		rep.Summary.Segments += r.segments
		rep.Summary.Phrases += r.phrases
		rep.Findings = append(rep.Findings, r.findings...)
		rep.Definitions = append(rep.Definitions, r.defs...)
	}
	if len(results) == 1 {
		rep.Title = results[0].title
	}
	if rep.Summary.Inputs > 0 && rep.Summary.Failed == rep.Summary.Inputs {
		return rep, fmt.Errorf("all %d inputs failed: %w", rep.Summary.Inputs, firstErr)
	}
	log.Info().Str("stage", "extract").Int("segments", rep.Summary.Segments).
		Int("phrases", rep.Summary.Phrases).Int("failed", rep.Summary.Failed).Msg("extraction done")
	return rep, nil
}

func (a *App) process(ctx context.Context, name string) inputResult {
	if err := ctx.Err(); err != nil {
		return inputResult{err: err}
	}
	doc, err := a.loader.Read(ctx, name)
	if err != nil {
		log.Warn().Err(err).Str("stage", "read").Str("source", name).Msg("input skipped")
		return inputResult{err: err}
	}
	segs := Segment(doc.Text, a.cfg.Mode)
	res := inputResult{title: doc.Title, segments: len(segs)}
	opts := acronym.Options{LowercaseFirstWord: a.cfg.LowercaseFirstWord}
	for i, seg := range segs {
		found, err := acronym.Extract(seg, opts)
		if err != nil {
			if a.cfg.IncludeMisses {
				res.findings = append(res.findings, report.Finding{Source: name, Segment: i + 1})
			}
			continue
		}
		res.phrases++
		res.findings = append(res.findings, report.Finding{
			Source:      name,
			Segment:     i + 1,
			Found:       true,
			Phrase:      found.Phrase,
			Acronym:     found.Acronym,
			CommonWords: a.words.Count(found.Phrase),
		})
	}
	if a.cfg.Definitions {
		res.defs = definitions(name, doc)
	}
	log.Debug().Str("stage", "extract").Str("source", name).
		Int("segments", res.segments).Int("phrases", res.phrases).Msg("input processed")
	return res
}

// definitions collects acronyms declared in prose and in <abbr> markup.
func definitions(name string, doc source.Document) []report.Definition {
	var out []report.Definition
	for _, d := range acronym.Definitions(doc.Text) {
		out = append(out, report.Definition{
			Source:     name,
			LongForm:   d.LongForm,
			Acronym:    d.Acronym,
			Consistent: d.Consistent,
			Origin:     OriginText,
		})
	}
	for _, ab := range doc.Abbrs {
		short := strings.ReplaceAll(ab.Short, ".", "")
		out = append(out, report.Definition{
			Source:     name,
			LongForm:   ab.Expansion,
			Acronym:    short,
			Consistent: strings.EqualFold(acronym.Initials(strings.Fields(ab.Expansion)), short),
			Origin:     OriginMarkup,
		})
	}
	return out
}
