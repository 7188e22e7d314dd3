// Package config provides configuration management for the sqldoclint CLI.
//
// Values are layered with koanf: built-in defaults, the project config file,
// a .env file, SQLDOCLINT_ environment variables and finally flags the user
// set explicitly.
package config

import (
	"time"

	"github.com/leapstack-labs/sqldoclint/internal/history"
	"github.com/leapstack-labs/sqldoclint/internal/watch"
	"github.com/leapstack-labs/sqldoclint/pkg/report"
	"github.com/leapstack-labs/sqldoclint/pkg/toc"
)

// Config holds all CLI configuration options.
type Config struct {
	Files           []string      `koanf:"files"`
	Dialect         string        `koanf:"dialect"`
	Languages       []string      `koanf:"languages"`
	IncludeUntagged bool          `koanf:"include_untagged"`
	OutputFormat    string        `koanf:"output"`
	Verbose         bool          `koanf:"verbose"`
	LogLevel        string        `koanf:"log_level"`
	Jobs            int           `koanf:"jobs"`
	CacheSize       int           `koanf:"cache_size"`
	Report          ReportConfig  `koanf:"report"`
	TOC             toc.Options   `koanf:"toc"`
	History         HistoryConfig `koanf:"history"`
	Watch           WatchConfig   `koanf:"watch"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// ReportConfig controls report aggregation and rendering.
type ReportConfig struct {
	SectionDepth int    `koanf:"section_depth"`
	Show         string `koanf:"show"`
}

// HistoryConfig controls run recording.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Default configuration values.
const (
	DefaultFile     = "README.md"
	DefaultOutput   = "auto" // TTY=text, non-TTY=markdown
	DefaultLogLevel = "info"
	DefaultHistory  = history.DefaultPath
)

// Config file names, in lookup order.
var configFileNames = []string{"sqldoclint.yaml", "sqldoclint.yml"}

func defaults() map[string]any {
	opts := toc.DefaultOptions()
	return map[string]any{
		"files":                []string{DefaultFile},
		"dialect":              "",
		"languages":            []string{},
		"include_untagged":     false,
		"output":               DefaultOutput,
		"verbose":              false,
		"log_level":            DefaultLogLevel,
		"jobs":                 0,
		"cache_size":           0,
		"report.section_depth": report.DefaultSectionDepth,
		"report.show":          string(report.ShowAll),
		"toc.min_level":        opts.MinLevel,
		"toc.max_level":        opts.MaxLevel,
		"toc.skip_titles":      opts.SkipTitles,
		"toc.marker_start":     opts.MarkerStart,
		"toc.marker_end":       opts.MarkerEnd,
		"history.enabled":      false,
		"history.path":         DefaultHistory,
		"watch.debounce":       watch.DefaultDebounce.String(),
	}
}
