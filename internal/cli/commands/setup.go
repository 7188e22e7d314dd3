package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqldoclint/internal/cli/config"
	"github.com/leapstack-labs/sqldoclint/internal/cli/output"
	"github.com/leapstack-labs/sqldoclint/internal/engine"
	"github.com/leapstack-labs/sqldoclint/internal/history"
	"github.com/spf13/cobra"
)

// ErrCheckFailed is wrapped by errors that report findings rather than
// failures: invalid snippets or a stale table of contents. The CLI exits 1
// for these and 2 for everything else.
var ErrCheckFailed = errors.New("check failed")

var (
	// ErrInvalidSnippets is returned when any snippet is Invalid.
	ErrInvalidSnippets = fmt.Errorf("%w: invalid SQL snippets found", ErrCheckFailed)
	// ErrStaleTOC is returned by toc --check when the TOC is out of date.
	ErrStaleTOC = fmt.Errorf("%w: table of contents is out of date", ErrCheckFailed)
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer

	history *history.Store
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return nil, nil, err
	}

	eng, err := engine.New(engineConfig(cmdCtx.Cfg, cmdCtx.Logger))
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Engine = eng

	cleanup := func() {
		if cmdCtx.history != nil {
			if err := cmdCtx.history.Close(); err != nil {
				cmdCtx.Logger.Warn("failed to close history", "error", err)
			}
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that only read documents or metadata.
func NewCommandContextWithoutEngine(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// History opens the run history store, creating its directory on first
// use. The store is closed by the context cleanup.
func (c *CommandContext) History(cmd *cobra.Command) (*history.Store, error) {
	if c.history != nil {
		return c.history, nil
	}
	path := c.Cfg.History.Path
	if dir := filepath.Dir(path); dir != "." && dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	store, err := history.Open(cmd.Context(), path, c.Logger)
	if err != nil {
		return nil, err
	}
	c.history = store
	return store, nil
}

// WithFormat returns the renderer, replaced by one in the given format when
// the command's --format flag is set.
func (c *CommandContext) WithFormat(cmd *cobra.Command, format string) *output.Renderer {
	if format == "" {
		return c.Renderer
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
}

// Helper functions shared across commands

// getConfig returns the configuration loaded by the root command, or loads
// it with the command's own flags when the command runs on its own.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", cmd.Flags())
}

func engineConfig(cfg *config.Config, logger *slog.Logger) engine.Config {
	return engine.Config{
		Dialect:         cfg.Dialect,
		Languages:       cfg.Languages,
		IncludeUntagged: cfg.IncludeUntagged,
		SectionDepth:    cfg.Report.SectionDepth,
		Jobs:            cfg.Jobs,
		CacheSize:       cfg.CacheSize,
		Logger:          logger,
	}
}

// markdownExts are the file extensions collected from directory arguments.
var markdownExts = []string{".md", ".markdown"}

// resolveFiles returns the documents to process: the arguments, or the
// configured files when there are none. Directories are expanded to the
// markdown files beneath them and duplicates are dropped.
func resolveFiles(args []string, cfg *config.Config) ([]string, error) {
	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.Files
	}
	if len(inputs) == 0 {
		return nil, errors.New("no files to check")
	}

	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		key := filepath.Clean(p)
		if !seen[key] {
			seen[key] = true
			files = append(files, p)
		}
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil || !info.IsDir() {
			// missing files surface as read errors from the engine
			add(in)
			continue
		}
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != in && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if slices.Contains(markdownExts, strings.ToLower(filepath.Ext(path))) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", in, err)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no markdown files found in %s", strings.Join(inputs, ", "))
	}
	return files, nil
}

// singleFile returns the one document a command operates on.
func singleFile(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if len(cfg.Files) == 0 {
		return "", errors.New("no file given")
	}
	return cfg.Files[0], nil
}

// addPipelineFlags registers the flags that shape extraction and
// classification. Their values reach commands through the configuration.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("dialect", "", "Force every snippet to one dialect (name or alias)")
	cmd.Flags().StringSlice("lang", nil, "Extra fence languages treated as SQL")
	cmd.Flags().Bool("include-untagged", false, "Treat fences without a language tag as SQL")
	cmd.Flags().Int("section-depth", 0, "Heading levels that name a report section")
}
