package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sqldoclint/internal/cli/config"
	"github.com/leapstack-labs/sqldoclint/internal/watch"
	"github.com/leapstack-labs/sqldoclint/pkg/report"
	"github.com/leapstack-labs/sqldoclint/pkg/toc"
)

// ConfigField represents a configuration key.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
}

// getConfigSchema mirrors internal/cli/config/types.go.
func getConfigSchema() []ConfigField {
	opts := toc.DefaultOptions()
	return []ConfigField{
		{Name: "files", Type: "[]string", Default: config.DefaultFile, Description: "Documents checked when no arguments are given; directories are searched for markdown"},
		{Name: "dialect", Type: "string", Description: "Force every snippet to one dialect instead of classifying it"},
		{Name: "languages", Type: "[]string", Description: "Extra fence languages treated as SQL"},
		{Name: "include_untagged", Type: "bool", Default: "false", Description: "Treat fences without a language tag as SQL"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: " + strings.Join(config.OutputFormats, ", ")},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Log at debug level"},
		{Name: "log_level", Type: "string", Default: config.DefaultLogLevel, Description: "Log level: debug, info, warn, error"},
		{Name: "jobs", Type: "int", Default: "0", Description: "Documents checked concurrently; 0 uses the CPU count"},
		{Name: "cache_size", Type: "int", Default: "0", Description: "Memoised validation results; 0 uses the built-in size and a negative value disables the cache"},
		{Name: "report.section_depth", Type: "int", Default: fmt.Sprint(report.DefaultSectionDepth), Description: "Heading levels that name a summary section"},
		{Name: "report.show", Type: "string", Default: string(report.ShowAll), Description: "Entries listed in reports: all, problems"},
		{Name: "toc.min_level", Type: "int", Default: fmt.Sprint(opts.MinLevel), Description: "Shallowest heading level in the table of contents"},
		{Name: "toc.max_level", Type: "int", Default: fmt.Sprint(opts.MaxLevel), Description: "Deepest heading level in the table of contents"},
		{Name: "toc.skip_titles", Type: "[]string", Default: strings.Join(opts.SkipTitles, ", "), Description: "Heading titles left out of the table of contents"},
		{Name: "toc.marker_start", Type: "string", Default: opts.MarkerStart, Description: "Line that opens the generated region"},
		{Name: "toc.marker_end", Type: "string", Default: opts.MarkerEnd, Description: "Line that closes the generated region"},
		{Name: "history.enabled", Type: "bool", Default: "false", Description: "Record every check run"},
		{Name: "history.path", Type: "string", Default: config.DefaultHistory, Description: "SQLite database holding recorded runs"},
		{Name: "watch.debounce", Type: "duration", Default: watch.DefaultDebounce.String(), Description: "Quiet period before re-checking in watch mode"},
	}
}

// generateConfigDocs writes the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "sqldoclint configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("sqldoclint reads %s from the working directory or the closest parent that has one. "+
		"Relative paths in it are resolved against that directory.", InlineCode("sqldoclint.yaml")))

	var rows [][]string
	for _, f := range getConfigSchema() {
		def := f.Default
		if def != "" {
			def = InlineCode(def)
		}
		env := config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, ".", "_"))
		rows = append(rows, []string{InlineCode(f.Name), f.Type, def, InlineCode(env), f.Description})
	}
	w.Table([]string{"Key", "Type", "Default", "Environment", "Description"}, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `files:
  - README.md
  - docs
report:
  show: problems
toc:
  max_level: 4
history:
  enabled: true`)

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0o600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
