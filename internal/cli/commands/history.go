package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/leapstack-labs/sqldoclint/internal/cli/output"
	"github.com/leapstack-labs/sqldoclint/internal/history"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Format string
	Limit  int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded check runs",
		Long: `List check runs recorded with "check --record", newest first.

Given a run ID, show the per-file counts of that run and every snippet
that was not valid.`,
		Example: `  # List the last 20 runs
  sqldoclint history

  # Show one run
  sqldoclint history 0b6c1f9e-2d4e-4c43-9a1c-1f0b3e6f8a21

  # Export the last 5 runs as JSON
  sqldoclint history -n 5 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRun(cmd, args[0], opts)
			}
			return listRuns(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Number of runs to list (0 for all)")
	cmd.Flags().String("history-path", "", "History database path")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// openHistory opens an existing history database. It does not create one,
// so a typo in --history-path is reported instead of silently listing
// nothing.
func openHistory(cmd *cobra.Command, cmdCtx *CommandContext) (*history.Store, error) {
	path := cmdCtx.Cfg.History.Path
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no history at %s (record runs with check --record or history.enabled)", path)
	}
	return cmdCtx.History(cmd)
}

func listRuns(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	r := cmdCtx.WithFormat(cmd, opts.Format)

	store, err := openHistory(cmd, cmdCtx)
	if err != nil {
		return err
	}
	runs, err := store.List(cmd.Context(), opts.Limit)
	if err != nil {
		return err
	}

	if r.Structured() {
		if runs == nil {
			runs = []history.Run{}
		}
		return r.Data(runs)
	}

	if len(runs) == 0 {
		r.Muted("no recorded runs")
		return nil
	}

	r.Header("Runs")
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			runStatus(r, run),
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			strconv.Itoa(run.FileCount),
			strconv.Itoa(run.Counts.Total),
			strconv.Itoa(run.Counts.Valid),
			strconv.Itoa(run.Counts.Invalid),
			strconv.Itoa(run.Counts.Unsupported),
		})
	}
	r.Table([]string{"Status", "ID", "Started", "Files", "Total", "Valid", "Invalid", "Unsupported"}, rows)
	return nil
}

// runDetail is the structured form of one run.
type runDetail struct {
	history.Run `yaml:",inline"`
	Problems    []history.Entry `json:"problems" yaml:"problems"`
}

func showRun(cmd *cobra.Command, id string, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	r := cmdCtx.WithFormat(cmd, opts.Format)

	store, err := openHistory(cmd, cmdCtx)
	if err != nil {
		return err
	}
	run, err := store.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	problems, err := store.Problems(cmd.Context(), id)
	if err != nil {
		return err
	}

	if r.Structured() {
		if problems == nil {
			problems = []history.Entry{}
		}
		return r.Data(runDetail{Run: *run, Problems: problems})
	}

	r.Header("Run " + run.ID)
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue("Started", run.StartedAt.Format(time.RFC3339)))
		r.Println(output.FormatKeyValue("Files", run.FileCount))
		r.Println()
	} else {
		r.Println(r.Styles().Bold.Render("Started: ") + run.StartedAt.Local().Format(time.DateTime))
	}

	rows := make([][]string, 0, len(run.Files))
	for _, f := range run.Files {
		rows = append(rows, []string{
			f.Path,
			strconv.Itoa(f.Counts.Total),
			strconv.Itoa(f.Counts.Valid),
			strconv.Itoa(f.Counts.Invalid),
			strconv.Itoa(f.Counts.Unsupported),
		})
	}
	r.Table([]string{"File", "Total", "Valid", "Invalid", "Unsupported"}, rows)
	r.Println()

	if len(problems) == 0 {
		r.Success("no problems")
		return nil
	}
	prows := make([][]string, 0, len(problems))
	for _, p := range problems {
		prows = append(prows, []string{
			p.Path,
			strconv.Itoa(p.Index),
			strconv.Itoa(p.Line),
			p.Dialect,
			output.Title(p.Outcome),
			p.Message,
		})
	}
	r.Table([]string{"File", "#", "Line", "Dialect", "Outcome", "Message"}, prows)
	return nil
}

func runStatus(r *output.Renderer, run history.Run) string {
	if r.EffectiveMode() == output.ModeMarkdown {
		if run.Failed() {
			return "fail"
		}
		return "ok"
	}
	if run.Failed() {
		return r.Styles().StatusFailed.String()
	}
	return r.Styles().StatusSuccess.String()
}
