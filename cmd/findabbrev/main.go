// Command findabbrev prints the longest capitalized multi-word phrase in each
// input together with the acronym formed from its initials.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/capjamesg/find-abbreviations/internal/app"
	"github.com/capjamesg/find-abbreviations/internal/report"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, showVersion, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	if showVersion {
		fmt.Println(app.VersionString())
		return
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := exitCode(run(ctx, cfg))
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}

// exitCode maps run errors to the process exit status: 2 when no input held
// a phrase, 1 for any other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, app.ErrNoPhrases):
		log.Warn().Msg("no phrases found")
		return 2
	default:
		log.Error().Err(err).Msg("run failed")
		return 1
	}
}

// parseConfig builds the effective configuration. Precedence, lowest first:
// defaults, config file, FINDABBREV_* environment, explicitly set flags.
func parseConfig(args []string, stderr io.Writer) (app.Config, bool, error) {
	fs := flag.NewFlagSet("findabbrev", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: findabbrev [flags] [file|dir|url|- ...]")
		fs.PrintDefaults()
	}

	var (
		configPath  string
		envFiles    string
		format      string
		mode        string
		showVersion bool
	)
	fl := app.DefaultConfig()
	fs.StringVar(&configPath, "config", "", "Path to a YAML, TOML or JSON config file (env FINDABBREV_CONFIG)")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files loaded before reading the environment")
	fs.StringVar(&fl.OutputPath, "o", "", "Write the report to this file instead of stdout")
	fs.StringVar(&format, "format", string(fl.Format), "Report format: text, json, yaml, markdown or pdf")
	fs.StringVar(&mode, "mode", string(fl.Mode), "Segmentation: document, line or sentence")
	fs.BoolVar(&fl.LowercaseFirstWord, "lowercase-first", false, "Lowercase the first letter of each segment before scanning")
	fs.StringVar(&fl.WordsPath, "words", "", "Common-word list, words separated by spaces or newlines (default: built-in list)")
	fs.IntVar(&fl.Workers, "workers", 0, "Inputs processed in parallel (0 = number of CPUs)")
	fs.BoolVar(&fl.IncludeMisses, "include-misses", false, "Report segments without a phrase")
	fs.BoolVar(&fl.Definitions, "definitions", false, "Also report acronyms defined as \"Long Form (LF)\" or <abbr>")
	fs.BoolVar(&fl.Gitignore, "gitignore", fl.Gitignore, "Honor .gitignore files when walking directories")
	fs.BoolVar(&fl.KeepCode, "keep-code", false, "Keep code blocks from HTML and Markdown")
	fs.BoolVar(&fl.Robots, "robots", fl.Robots, "Skip URL inputs disallowed by robots.txt")
	fs.StringVar(&fl.UserAgent, "ua", fl.UserAgent, "User-Agent for URL inputs")
	fs.DurationVar(&fl.Timeout, "timeout", fl.Timeout, "Per-request timeout for URL inputs")
	fs.IntVar(&fl.MaxAttempts, "attempts", fl.MaxAttempts, "Fetch attempts per URL")
	fs.StringVar(&fl.CacheDir, "cache-dir", "", "Cache fetched pages in this directory")
	fs.DurationVar(&fl.CacheMaxAge, "cache-max-age", 0, "Purge cache entries older than this at startup")
	fs.BoolVar(&fl.CacheClear, "cache-clear", false, "Empty the cache directory at startup")
	fs.BoolVar(&fl.CacheStrictPerms, "cache-strict-perms", false, "Create cache files readable by the owner only")
	fs.BoolVar(&fl.NoCache, "no-cache", false, "Do not revalidate against cached pages")
	fs.BoolVar(&fl.Verbose, "v", false, "Verbose (debug) logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, err
	}
	fl.Format = report.Format(strings.ToLower(strings.TrimSpace(format)))
	fl.Mode = app.Mode(strings.ToLower(strings.TrimSpace(mode)))

	if err := app.LoadEnvFiles(splitList(envFiles)...); err != nil {
		return app.Config{}, false, fmt.Errorf("load env: %w", err)
	}
	if configPath == "" {
		configPath = strings.TrimSpace(os.Getenv(app.EnvPrefix + "CONFIG"))
	}

	cfg := app.DefaultConfig()
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, false, fmt.Errorf("load config %s: %w", configPath, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	applyFlags(&cfg, fl, set)
	if fs.NArg() > 0 {
		cfg.Inputs = fs.Args()
	}
	return cfg, showVersion, app.ValidateConfig(cfg)
}

// applyFlags copies the flags that were given on the command line.
func applyFlags(cfg *app.Config, fl app.Config, set map[string]bool) {
	for name := range set {
		switch name {
		case "o":
			cfg.OutputPath = fl.OutputPath
		case "format":
			cfg.Format = fl.Format
		case "mode":
			cfg.Mode = fl.Mode
		case "lowercase-first":
			cfg.LowercaseFirstWord = fl.LowercaseFirstWord
		case "words":
			cfg.WordsPath = fl.WordsPath
		case "workers":
			cfg.Workers = fl.Workers
		case "include-misses":
			cfg.IncludeMisses = fl.IncludeMisses
		case "definitions":
			cfg.Definitions = fl.Definitions
		case "gitignore":
			cfg.Gitignore = fl.Gitignore
		case "keep-code":
			cfg.KeepCode = fl.KeepCode
		case "robots":
			cfg.Robots = fl.Robots
		case "ua":
			cfg.UserAgent = fl.UserAgent
		case "timeout":
			cfg.Timeout = fl.Timeout
		case "attempts":
			cfg.MaxAttempts = fl.MaxAttempts
		case "cache-dir":
			cfg.CacheDir = fl.CacheDir
		case "cache-max-age":
			cfg.CacheMaxAge = fl.CacheMaxAge
		case "cache-clear":
			cfg.CacheClear = fl.CacheClear
		case "cache-strict-perms":
			cfg.CacheStrictPerms = fl.CacheStrictPerms
		case "no-cache":
			cfg.NoCache = fl.NoCache
		case "v":
			cfg.Verbose = fl.Verbose
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
