package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/leapstack-labs/sqldoclint/pkg/report"
	"github.com/leapstack-labs/sqldoclint/pkg/site"
	"github.com/spf13/cobra"
)

// RenderOptions holds options for the render command.
type RenderOptions struct {
	Out   string // Output file, stdout when empty
	Title string // Page title override
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a document as an annotated HTML page",
		Long: `Render a markdown document as a standalone HTML page.

Each SQL snippet is annotated with its dialect and validation outcome, a
table of contents is placed before the body and a summary follows it.
The rendered markdown is sanitised before it is written.`,
		Example: `  # Render README.md to stdout
  sqldoclint render

  # Write a page for a guide
  sqldoclint render GUIDE.md -o site/guide.html --title "SQL Guide"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, opts)
		},
	}

	addPipelineFlags(cmd)
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Write the page to a file instead of stdout")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Page title (default: frontmatter title or first heading)")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, opts *RenderOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	path, err := singleFile(args, cmdCtx.Cfg)
	if err != nil {
		return err
	}
	res, err := cmdCtx.Engine.CheckFile(cmd.Context(), path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := site.Render(&buf, res.Document, res.Report, site.Options{
		Title: opts.Title,
		TOC:   cmdCtx.Cfg.TOC,
	}); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}

	if opts.Out == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.Out, buf.Bytes(), 0o644); err != nil { //nolint:gosec // G306: rendered pages are meant to be world readable
		return fmt.Errorf("failed to write %s: %w", opts.Out, err)
	}
	cmdCtx.Logger.Debug("rendered page", "path", path, "out", opts.Out)
	cmdCtx.Renderer.Success(fmt.Sprintf("wrote %s (%s)", opts.Out, report.SummaryLine(res.Report.Summary.Counts)))
	return nil
}
