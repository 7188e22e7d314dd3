package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/sqldoclint/internal/cli/output"
	"github.com/leapstack-labs/sqldoclint/pkg/markdown"
	"github.com/leapstack-labs/sqldoclint/pkg/toc"
	"github.com/spf13/cobra"
)

// TOCOptions holds options for the toc command.
type TOCOptions struct {
	Format string
	Write  bool // Rewrite the region between the markers in place
	Check  bool // Fail when the region is out of date
	Insert bool // Add markers when the document has none
}

// NewTOCCommand creates the toc command.
func NewTOCCommand() *cobra.Command {
	opts := &TOCOptions{}
	cmd := &cobra.Command{
		Use:   "toc [file]",
		Short: "Generate a table of contents for a markdown document",
		Long: `Build a table of contents from the document's headings.

Links use GitHub-style anchors. By default the list is printed. With
--write the region between <!-- toc --> and <!-- tocstop --> is replaced
in place; --check fails instead when that region is out of date.`,
		Example: `  # Print the table of contents for README.md
  sqldoclint toc

  # Update the TOC in a guide, adding markers after the title if needed
  sqldoclint toc GUIDE.md --write --insert

  # Fail in CI when the TOC is stale
  sqldoclint toc GUIDE.md --check`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTOC(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Write, "write", false, "Rewrite the TOC region in place")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Exit 1 when the TOC region is out of date")
	cmd.Flags().BoolVar(&opts.Insert, "insert", false, "Insert markers after the first H1 when missing")
	cmd.Flags().Int("min-level", 0, "Shallowest heading level listed")
	cmd.Flags().Int("max-level", 0, "Deepest heading level listed")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.MarkFlagsMutuallyExclusive("write", "check")

	return cmd
}

func runTOC(cmd *cobra.Command, args []string, opts *TOCOptions) error {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.WithFormat(cmd, opts.Format)

	path, err := singleFile(args, cmdCtx.Cfg)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	tocOpts := cmdCtx.Cfg.TOC
	tocOpts.Insert = opts.Insert

	switch {
	case opts.Check:
		stale, err := toc.Stale(src, tocOpts)
		if err != nil {
			return err
		}
		if stale {
			r.Error(path + ": table of contents is out of date")
			return ErrStaleTOC
		}
		r.Success(path + ": table of contents is up to date")
		return nil

	case opts.Write:
		updated, err := toc.Apply(src, tocOpts)
		if err != nil {
			if errors.Is(err, toc.ErrNoMarkers) {
				return fmt.Errorf("%s: %w (use --insert to add them)", path, err)
			}
			return err
		}
		if string(updated) == string(src) {
			r.Muted(path + ": table of contents already up to date")
			return nil
		}
		mode := os.FileMode(0o644)
		if info, err := os.Stat(path); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(path, updated, mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		cmdCtx.Logger.Debug("wrote table of contents", "path", path)
		r.Success(path + ": table of contents updated")
		return nil
	}

	doc, err := markdown.Parse(path, src)
	if err != nil {
		return err
	}

	if r.Structured() {
		entries := toc.Entries(doc.Headings, tocOpts)
		if entries == nil {
			entries = []toc.Entry{}
		}
		return r.Data(entries)
	}

	list := toc.Generate(doc.Headings, tocOpts)
	if list == "" {
		r.Muted("no headings to list")
		return nil
	}
	if r.EffectiveMode() == output.ModeText {
		r.Header("Contents")
	}
	r.Printf("%s", list)
	return nil
}
