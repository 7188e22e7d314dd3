package commands

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqldoclint/internal/cli/output"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
	"github.com/leapstack-labs/sqldoclint/pkg/report"
	"github.com/spf13/cobra"
)

// ExtractOptions holds options for the extract command.
type ExtractOptions struct {
	Format string
	Text   bool // Include snippet text in text and markdown output
}

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	opts := &ExtractOptions{}
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "List the SQL snippets found in a document",
		Long: `List every SQL snippet in a markdown document with its heading path,
fence line and the dialect it was classified as, without reporting
validation results. Useful when a snippet is not picked up or lands in
the wrong dialect.`,
		Example: `  # List snippets in README.md
  sqldoclint extract

  # Include snippet bodies as JSON
  sqldoclint extract GUIDE.md --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	addPipelineFlags(cmd)
	cmd.Flags().BoolVar(&opts.Text, "text", false, "Print each snippet's SQL")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// extractedSnippet is the structured form of one extracted snippet.
type extractedSnippet struct {
	Index          int                    `json:"index" yaml:"index"`
	Line           int                    `json:"line" yaml:"line"`
	HeadingPath    []string               `json:"heading_path" yaml:"heading_path"`
	Lang           string                 `json:"lang" yaml:"lang"`
	Classification dialect.Classification `json:"classification" yaml:"classification"`
	Text           string                 `json:"text" yaml:"text"`
}

func runExtract(cmd *cobra.Command, args []string, opts *ExtractOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	r := cmdCtx.WithFormat(cmd, opts.Format)

	path, err := singleFile(args, cmdCtx.Cfg)
	if err != nil {
		return err
	}
	res, err := cmdCtx.Engine.CheckFile(cmd.Context(), path)
	if err != nil {
		return err
	}
	entries := res.Report.Entries

	if r.Structured() {
		out := make([]extractedSnippet, 0, len(entries))
		for _, e := range entries {
			out = append(out, extractedSnippet{
				Index:          e.Index,
				Line:           e.Line,
				HeadingPath:    e.Snippet.HeadingPath,
				Lang:           e.Lang,
				Classification: e.Classification,
				Text:           e.Snippet.Text,
			})
		}
		return r.Data(out)
	}

	if len(entries) == 0 {
		r.Muted(path + ": no SQL snippets")
		return nil
	}

	r.Header(path)
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Index),
			strconv.Itoa(e.Line),
			report.DisplaySection(e.Section),
			e.Lang,
			e.Classification.Dialect.String(),
			classificationSource(e.Classification),
		})
	}
	r.Table([]string{"#", "Line", "Section", "Lang", "Dialect", "Source"}, rows)

	if opts.Text {
		for _, e := range entries {
			r.Println()
			if r.EffectiveMode() == output.ModeMarkdown {
				r.Println(output.FormatHeader(3, "Snippet "+strconv.Itoa(e.Index)))
				r.Println()
				r.Println("```" + e.Lang)
				r.Println(strings.TrimSuffix(e.Snippet.Text, "\n"))
				r.Println("```")
				continue
			}
			r.Println(r.Styles().Bold.Render("Snippet " + strconv.Itoa(e.Index)))
			r.Printf("%s", indent(e.Snippet.Text, "    "))
		}
	}
	return nil
}

func classificationSource(c dialect.Classification) string {
	if c.Hint == "" {
		return c.Source.String()
	}
	return c.Source.String() + " (" + c.Hint + ")"
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(l)
	}
	if !strings.HasSuffix(s, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
