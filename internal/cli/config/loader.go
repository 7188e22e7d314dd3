package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// EnvPrefix prefixes environment variables read into the configuration.
const EnvPrefix = "SQLDOCLINT_"

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// flagKeys maps flag names to config keys. Flags not listed here are
// command options and never reach the configuration.
var flagKeys = map[string]string{
	"dialect":          "dialect",
	"lang":             "languages",
	"include-untagged": "include_untagged",
	"output":           "output",
	"verbose":          "verbose",
	"log-level":        "log_level",
	"jobs":             "jobs",
	"cache-size":       "cache_size",
	"section-depth":    "report.section_depth",
	"show":             "report.show",
	"record":           "history.enabled",
	"history-path":     "history.path",
	"debounce":         "watch.debounce",
	"min-level":        "toc.min_level",
	"max-level":        "toc.max_level",
}

// envSections are the nested config sections. SQLDOCLINT_REPORT_SHOW maps
// to report.show while SQLDOCLINT_LOG_LEVEL stays log_level.
var envSections = []string{"report", "toc", "history", "watch"}

// configExistsIn returns the config file in dir, if any.
func configExistsIn(dir string) string {
	for _, name := range configFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a config file.
// Returns empty strings if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) (root, cfgFile string) {
	dir := startDir
	for range maxUpwardSearchLevels {
		if f := configExistsIn(dir); f != "" {
			return dir, f
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// envKey turns SQLDOCLINT_REPORT_SECTION_DEPTH into report.section_depth.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from defaults, the config file, .env,
// environment variables and flags.
// Precedence (highest to lowest): flags > env vars > .env > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")
	configFileUsed = ""

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	// 1. Locate the project: an explicit config file anchors it, otherwise
	// search upward from the working directory.
	projectRoot := cwd
	if cfgFile != "" {
		abs, err := filepath.Abs(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config file %s: %w", cfgFile, err)
		}
		configFileUsed = abs
		projectRoot = filepath.Dir(abs)
	} else if root, f := findProjectRootUpward(cwd); root != "" {
		projectRoot, configFileUsed = root, f
	}

	// 2. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 3. Config file
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 4. .env next to the project config. Variables already set in the
	// environment win.
	dotenv := filepath.Join(projectRoot, ".env")
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", dotenv, err)
		}
	}

	// 5. Environment variables (SQLDOCLINT_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 6. Flags the user set explicitly
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.ProjectRoot = projectRoot
	for i, f := range cfg.Files {
		cfg.Files[i] = resolvePathRelativeTo(f, projectRoot)
	}
	cfg.History.Path = resolvePathRelativeTo(cfg.History.Path, projectRoot)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// NewLogger builds the CLI logger: a text handler at the configured level.
// Verbose forces debug.
func NewLogger(w io.Writer, cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		_ = level.UnmarshalText([]byte(cfg.LogLevel))
		if cfg.Verbose {
			level = slog.LevelDebug
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
