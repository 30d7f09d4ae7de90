package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/capjamesg/find-abbreviations/internal/report"
)

// EnvPrefix is prepended to every environment variable the tool reads.
const EnvPrefix = "FINDABBREV_"

// ApplyEnvOverrides overrides cfg fields with FINDABBREV_* environment
// variables that are set. Env takes precedence over the config file; flags
// are applied after it by the CLI. Values that do not parse are logged and
// ignored.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				log.Warn().Str("env", EnvPrefix+key).Str("value", v).Msg("ignoring invalid number")
				return
			}
			*dst = n
		}
	}
	setDuration := func(dst *time.Duration, key string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				log.Warn().Str("env", EnvPrefix+key).Str("value", v).Msg("ignoring invalid duration")
				return
			}
			*dst = d
		}
	}
	setBool := func(dst *bool, key string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(EnvPrefix + key))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			default:
				log.Warn().Str("env", EnvPrefix+key).Str("value", s).Msg("ignoring invalid boolean")
			}
		}
	}

	setString(&cfg.OutputPath, "OUTPUT")
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "FORMAT")); v != "" {
		cfg.Format = report.Format(strings.ToLower(v))
	}
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "MODE")); v != "" {
		cfg.Mode = Mode(strings.ToLower(v))
	}
	setBool(&cfg.LowercaseFirstWord, "LOWERCASE_FIRST")
	setString(&cfg.WordsPath, "WORDS")
	setInt(&cfg.Workers, "WORKERS")
	setBool(&cfg.IncludeMisses, "INCLUDE_MISSES")
	setBool(&cfg.Definitions, "DEFINITIONS")

	setBool(&cfg.Gitignore, "GITIGNORE")
	setBool(&cfg.KeepCode, "KEEP_CODE")

	setBool(&cfg.Robots, "ROBOTS")
	setString(&cfg.UserAgent, "USER_AGENT")
	setDuration(&cfg.Timeout, "TIMEOUT")
	setInt(&cfg.MaxAttempts, "ATTEMPTS")

	setString(&cfg.CacheDir, "CACHE_DIR")
	setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.NoCache, "NO_CACHE")

	setBool(&cfg.Verbose, "VERBOSE")
}
