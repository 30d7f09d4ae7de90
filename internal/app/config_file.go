package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/capjamesg/find-abbreviations/internal/report"
)

// FileConfig is the config file schema. The same keys work in YAML, TOML
// and JSON.
type FileConfig struct {
	Inputs []string `yaml:"inputs" json:"inputs" toml:"inputs"`
	Output string   `yaml:"output" json:"output" toml:"output"`
	Format string   `yaml:"format" json:"format" toml:"format"`

	Extract struct {
		Mode           string `yaml:"mode" json:"mode" toml:"mode"`
		LowercaseFirst bool   `yaml:"lowercaseFirst" json:"lowercaseFirst" toml:"lowercaseFirst"`
		Words          string `yaml:"words" json:"words" toml:"words"`
		Workers        int    `yaml:"workers" json:"workers" toml:"workers"`
		IncludeMisses  bool   `yaml:"includeMisses" json:"includeMisses" toml:"includeMisses"`
		Definitions    bool   `yaml:"definitions" json:"definitions" toml:"definitions"`
	} `yaml:"extract" json:"extract" toml:"extract"`

	Sources struct {
		Gitignore *bool `yaml:"gitignore" json:"gitignore" toml:"gitignore"`
		KeepCode  bool  `yaml:"keepCode" json:"keepCode" toml:"keepCode"`
	} `yaml:"sources" json:"sources" toml:"sources"`

	Fetch struct {
		Robots    *bool  `yaml:"robots" json:"robots" toml:"robots"`
		UserAgent string `yaml:"ua" json:"ua" toml:"ua"`
		Timeout   string `yaml:"timeout" json:"timeout" toml:"timeout"`
		Attempts  int    `yaml:"attempts" json:"attempts" toml:"attempts"`
	} `yaml:"fetch" json:"fetch" toml:"fetch"`

	Cache struct {
		Dir         string `yaml:"dir" json:"dir" toml:"dir"`
		MaxAge      string `yaml:"maxAge" json:"maxAge" toml:"maxAge"`
		Clear       bool   `yaml:"clear" json:"clear" toml:"clear"`
		StrictPerms bool   `yaml:"strictPerms" json:"strictPerms" toml:"strictPerms"`
		Disable     bool   `yaml:"disable" json:"disable" toml:"disable"`
	} `yaml:"cache" json:"cache" toml:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose" toml:"verbose"`

	timeout time.Duration
	maxAge  time.Duration
}

// LoadConfigFile reads YAML, TOML or JSON into FileConfig. Unknown
// extensions are tried as YAML, then TOML, then JSON.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(b), &fc); err != nil {
			return fc, fmt.Errorf("parse toml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if yerr := yaml.Unmarshal(b, &fc); yerr != nil {
			fc = FileConfig{}
			if _, terr := toml.Decode(string(b), &fc); terr != nil {
				fc = FileConfig{}
				if jerr := json.Unmarshal(b, &fc); jerr != nil {
					return fc, fmt.Errorf("parse config: %v (yaml) / %v (toml) / %v (json)", yerr, terr, jerr)
				}
			}
		}
	}
	if fc.timeout, err = parseDuration("fetch.timeout", fc.Fetch.Timeout); err != nil {
		return fc, err
	}
	if fc.maxAge, err = parseDuration("cache.maxAge", fc.Cache.MaxAge); err != nil {
		return fc, err
	}
	return fc, nil
}

func parseDuration(key, v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	return d, nil
}

// ApplyFileConfig overlays values from fc onto fields of cfg that are unset
// or still at their default.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if len(cfg.Inputs) == 0 && len(fc.Inputs) > 0 {
		cfg.Inputs = append([]string{}, fc.Inputs...)
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if (cfg.Format == "" || cfg.Format == DefaultFormat) && fc.Format != "" {
		cfg.Format = report.Format(strings.ToLower(fc.Format))
	}

	if (cfg.Mode == "" || cfg.Mode == DefaultMode) && fc.Extract.Mode != "" {
		cfg.Mode = Mode(strings.ToLower(fc.Extract.Mode))
	}
	if !cfg.LowercaseFirstWord && fc.Extract.LowercaseFirst {
		cfg.LowercaseFirstWord = true
	}
	if cfg.WordsPath == "" && fc.Extract.Words != "" {
		cfg.WordsPath = fc.Extract.Words
	}
	if cfg.Workers == 0 && fc.Extract.Workers > 0 {
		cfg.Workers = fc.Extract.Workers
	}
	if !cfg.IncludeMisses && fc.Extract.IncludeMisses {
		cfg.IncludeMisses = true
	}
	if !cfg.Definitions && fc.Extract.Definitions {
		cfg.Definitions = true
	}

	// Gitignore and robots default to on, so only an explicit value counts.
	if fc.Sources.Gitignore != nil {
		cfg.Gitignore = *fc.Sources.Gitignore
	}
	if !cfg.KeepCode && fc.Sources.KeepCode {
		cfg.KeepCode = true
	}

	if fc.Fetch.Robots != nil {
		cfg.Robots = *fc.Fetch.Robots
	}
	if (cfg.UserAgent == "" || cfg.UserAgent == DefaultUserAgent) && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if (cfg.Timeout == 0 || cfg.Timeout == DefaultTimeout) && fc.timeout > 0 {
		cfg.Timeout = fc.timeout
	}
	if (cfg.MaxAttempts == 0 || cfg.MaxAttempts == DefaultMaxAttempts) && fc.Fetch.Attempts > 0 {
		cfg.MaxAttempts = fc.Fetch.Attempts
	}

	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.maxAge > 0 {
		cfg.CacheMaxAge = fc.maxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if !cfg.NoCache && fc.Cache.Disable {
		cfg.NoCache = true
	}

	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
