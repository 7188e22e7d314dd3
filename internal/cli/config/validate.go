package config

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
	_ "github.com/leapstack-labs/sqldoclint/pkg/dialects/all" // register dialects
	"github.com/leapstack-labs/sqldoclint/pkg/report"
)

// OutputFormats are the accepted values of the output setting.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks the configuration for values no command can use.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (want one of %v)", c.OutputFormat, OutputFormats)
	}
	if c.Dialect != "" {
		if _, ok := dialect.Lookup(c.Dialect); !ok {
			return fmt.Errorf("unknown dialect %q (known: %v)", c.Dialect, dialect.Names())
		}
	}
	if c.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return fmt.Errorf("invalid log_level %q", c.LogLevel)
		}
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Report.SectionDepth < 0 {
		return fmt.Errorf("report.section_depth must not be negative, got %d", c.Report.SectionDepth)
	}
	if _, err := report.ParseShow(c.Report.Show); err != nil {
		return err
	}
	if c.TOC.MinLevel < 0 || c.TOC.MinLevel > 6 || c.TOC.MaxLevel < 0 || c.TOC.MaxLevel > 6 {
		return fmt.Errorf("toc levels must be between 1 and 6, got %d..%d", c.TOC.MinLevel, c.TOC.MaxLevel)
	}
	if c.TOC.MinLevel > 0 && c.TOC.MaxLevel > 0 && c.TOC.MinLevel > c.TOC.MaxLevel {
		return fmt.Errorf("toc.min_level %d is greater than toc.max_level %d", c.TOC.MinLevel, c.TOC.MaxLevel)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// Show returns the parsed report.show value.
func (c *Config) Show() report.Show {
	show, _ := report.ParseShow(c.Report.Show)
	return show
}
