package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/capjamesg/find-abbreviations/internal/report"
)

// Defaults shared by the CLI flags and the config file overlay.
const (
	DefaultFormat      = report.FormatText
	DefaultMode        = ModeDocument
	DefaultTimeout     = 15 * time.Second
	DefaultMaxAttempts = 3
)

// DefaultUserAgent identifies the fetcher to remote hosts.
var DefaultUserAgent = "findabbrev/" + BuildVersion + " (+https://github.com/capjamesg/find-abbreviations)"

// Config holds runtime configuration for the application.
type Config struct {
	// Inputs are files, directories, URLs or "-" for stdin. Empty means stdin.
	Inputs     []string
	OutputPath string
	Format     report.Format

	// Extraction
	Mode               Mode
	LowercaseFirstWord bool
	WordsPath          string
	Workers            int
	IncludeMisses      bool
	Definitions        bool

	// Sources
	Gitignore bool
	KeepCode  bool

	// Fetch
	// Robots refuses URL inputs the host's robots.txt disallows.
	Robots      bool
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	NoCache          bool

	Verbose bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Format:      DefaultFormat,
		Mode:        DefaultMode,
		Gitignore:   true,
		Robots:      true,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// ValidateConfig rejects values the pipeline cannot run with.
func ValidateConfig(cfg Config) error {
	if _, err := report.ParseFormat(string(cfg.Format)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Workers < 0 {
		return errors.New("config: workers must not be negative")
	}
	if cfg.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	if cfg.MaxAttempts < 0 {
		return errors.New("config: attempts must not be negative")
	}
	if cfg.CacheMaxAge < 0 {
		return errors.New("config: cache max age must not be negative")
	}
	if f, _ := report.ParseFormat(string(cfg.Format)); f.Binary() && cfg.OutputPath == "" {
		return fmt.Errorf("config: format %s requires an output path", f)
	}
	return nil
}
