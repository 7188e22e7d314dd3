package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/sqldoclint/internal/cli/output"
	"github.com/leapstack-labs/sqldoclint/internal/watch"
	"github.com/leapstack-labs/sqldoclint/pkg/report"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format string // Output format override
	Watch  bool   // Re-check when documents change
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate SQL snippets in markdown documents",
		Long: `Extract SQL code blocks from markdown documents, decide which dialect
each snippet is written in and check it against that dialect.

Every snippet is reported as valid, invalid or unsupported-dialect.
Directories are searched for .md and .markdown files. Without arguments
the files listed in sqldoclint.yaml are checked (README.md by default).

Exits 1 when any snippet is invalid and 2 on errors.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown report
  - JSON/YAML: Machine-readable format`,
		Example: `  # Check the configured documents
  sqldoclint check

  # Check a guide and every document under docs/
  sqldoclint check GUIDE.md docs/

  # Only list problems, as JSON
  sqldoclint check --show problems --format json

  # Treat every snippet as SQL Server
  sqldoclint check --dialect tsql

  # Record the run and keep checking on save
  sqldoclint check --record --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	addPipelineFlags(cmd)
	cmd.Flags().Int("jobs", 0, "Documents checked concurrently (default: CPU count)")
	cmd.Flags().Int("cache-size", 0, "Memoised validation results (negative disables)")
	cmd.Flags().String("show", "", "Entries to list: all, problems")
	cmd.Flags().Bool("record", false, "Record the run in the history database")
	cmd.Flags().String("history-path", "", "History database path")
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before re-checking in watch mode")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check documents when they change")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	files, err := resolveFiles(args, cmdCtx.Cfg)
	if err != nil {
		return err
	}
	r := cmdCtx.WithFormat(cmd, opts.Format)

	if !opts.Watch {
		return checkOnce(cmd, cmdCtx, r, files)
	}

	return watch.Run(cmd.Context(), files, watch.Options{
		Debounce: cmdCtx.Cfg.Watch.Debounce,
		Logger:   cmdCtx.Logger,
	}, func(_ context.Context, changed []string) error {
		cmdCtx.Logger.Debug("re-checking documents", "changed", changed)
		err := checkOnce(cmd, cmdCtx, r, files)
		if errors.Is(err, ErrCheckFailed) {
			return nil
		}
		return err
	})
}

// checkOnce runs one check over files, renders it and records it when
// history is enabled.
func checkOnce(cmd *cobra.Command, cmdCtx *CommandContext, r *output.Renderer, files []string) error {
	results, err := cmdCtx.Engine.Check(cmd.Context(), files)
	if err != nil {
		return err
	}

	reports := make([]report.Report, len(results))
	for i, res := range results {
		reports[i] = res.Report
	}

	hits, misses := cmdCtx.Engine.CacheStats()
	cmdCtx.Logger.Debug("check complete", "files", len(reports), "cache_hits", hits, "cache_misses", misses)

	if err := renderCheck(r, reports, cmdCtx.Cfg.Show()); err != nil {
		return err
	}

	if cmdCtx.Cfg.History.Enabled {
		store, err := cmdCtx.History(cmd)
		if err != nil {
			return err
		}
		run, err := store.Record(cmd.Context(), reports)
		if err != nil {
			return err
		}
		cmdCtx.Logger.Info("recorded run", "id", run.ID)
	}

	for _, rep := range reports {
		if rep.Failed() {
			return ErrInvalidSnippets
		}
	}
	return nil
}

// checkOutput is the structured form of a check run.
type checkOutput struct {
	Reports []report.Report `json:"reports" yaml:"reports"`
	Total   report.Summary  `json:"total" yaml:"total"`
}

func renderCheck(r *output.Renderer, reports []report.Report, show report.Show) error {
	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		out := checkOutput{Total: report.Combine(reports)}
		for _, rep := range reports {
			rep.Entries = rep.Visible(show)
			out.Reports = append(out.Reports, rep)
		}
		return r.Data(out)
	case output.ModeMarkdown:
		return report.WriteMarkdown(r.Writer(), reports, show)
	default:
		renderCheckText(r, reports, show)
		return nil
	}
}

func renderCheckText(r *output.Renderer, reports []report.Report, show report.Show) {
	styles := r.Styles()

	for _, rep := range reports {
		r.Println(styles.FilePath.Render(rep.Path))
		for _, e := range rep.Visible(show) {
			line := fmt.Sprintf("  %s %4d  %-10s %s",
				styles.OutcomeIcon(e.Result.Outcome),
				e.DocLine(),
				e.Result.Dialect,
				styles.Muted.Render(report.DisplaySection(e.Section)),
			)
			if e.Result.Message != "" {
				line += "  " + styles.Outcome(e.Result.Outcome).Render(e.Result.Message)
			}
			r.Println(line)
		}
		if len(rep.Entries) == 0 {
			r.Muted("  no SQL snippets")
		}
		r.Println("  " + summaryStyle(r, rep.Summary.Counts))
		r.Println()
	}

	if len(reports) < 2 {
		return
	}

	rows := make([][]string, 0, len(reports))
	for _, rep := range reports {
		c := rep.Summary.Counts
		rows = append(rows, []string{
			rep.Path,
			strconv.Itoa(c.Total),
			strconv.Itoa(c.Valid),
			strconv.Itoa(c.Invalid),
			strconv.Itoa(c.Unsupported),
		})
	}
	r.Table([]string{"File", "Total", "Valid", "Invalid", "Unsupported"}, rows)
	r.Println(styles.Bold.Render("Total: ") + summaryStyle(r, report.Combine(reports).Counts))
}

func summaryStyle(r *output.Renderer, c report.Counts) string {
	styles := r.Styles()
	line := report.SummaryLine(c)
	switch {
	case c.Invalid > 0:
		return styles.Error.Render(line)
	case c.Unsupported > 0:
		return styles.Warning.Render(line)
	default:
		return styles.Success.Render(line)
	}
}
