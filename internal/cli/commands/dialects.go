package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqldoclint/internal/cli/output"
	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
	_ "github.com/leapstack-labs/sqldoclint/pkg/dialects/all" // register dialects
	"github.com/spf13/cobra"
)

// DialectsOptions holds options for the dialects command.
type DialectsOptions struct {
	Format string
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	opts := &DialectsOptions{}
	cmd := &cobra.Command{
		Use:   "dialects [name]",
		Short: "List supported SQL dialects",
		Long: `List the dialects snippets can be classified as, with the aliases
accepted in fence tags and "-- dialect:" comments.

Given a name or alias, show the hint phrases that select the dialect and
the dialect-specific constructs it accepts.`,
		Example: `  # List dialects
  sqldoclint dialects

  # Show what SQL Server accepts
  sqldoclint dialects tsql

  # Output as JSON
  sqldoclint dialects --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showDialect(cmd, args[0], opts)
			}
			return listDialects(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// dialectInfo is the structured form of a dialect.
type dialectInfo struct {
	Name       string               `json:"name" yaml:"name"`
	Title      string               `json:"title" yaml:"title"`
	Aliases    []string             `json:"aliases" yaml:"aliases"`
	Hints      []string             `json:"hints,omitempty" yaml:"hints,omitempty"`
	Statements []string             `json:"statements,omitempty" yaml:"statements,omitempty"`
	Constructs []core.ConstructInfo `json:"constructs" yaml:"constructs"`
}

func newDialectInfo(d *dialect.Dialect, detail bool) dialectInfo {
	info := dialectInfo{
		Name:       d.Name,
		Title:      d.Title,
		Aliases:    d.Aliases,
		Constructs: []core.ConstructInfo{},
	}
	for _, id := range d.Constructs() {
		if c, ok := dialect.LookupConstruct(id); ok {
			info.Constructs = append(info.Constructs, c)
		}
	}
	if detail {
		info.Hints = d.Hints()
		info.Statements = d.Statements()
	}
	return info
}

func constructIDs(cs []core.ConstructInfo) string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return strings.Join(ids, ", ")
}

func listDialects(cmd *cobra.Command, opts *DialectsOptions) error {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.WithFormat(cmd, opts.Format)

	infos := make([]dialectInfo, 0)
	for _, d := range dialect.List() {
		infos = append(infos, newDialectInfo(d, false))
	}

	if r.Structured() {
		return r.Data(infos)
	}

	r.Header("Dialects")
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			info.Title,
			strings.Join(info.Aliases, ", "),
			constructIDs(info.Constructs),
		})
	}
	r.Table([]string{"Name", "Title", "Aliases", "Constructs"}, rows)
	return nil
}

func showDialect(cmd *cobra.Command, name string, opts *DialectsOptions) error {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.WithFormat(cmd, opts.Format)

	d, ok := dialect.Get(name)
	if !ok {
		return fmt.Errorf("unknown dialect %q (known: %s)", name, strings.Join(dialect.Names(), ", "))
	}
	info := newDialectInfo(d, true)

	if r.Structured() {
		return r.Data(info)
	}

	markdownMode := r.EffectiveMode() == output.ModeMarkdown
	r.Header(fmt.Sprintf("%s (%s)", info.Title, info.Name))
	if markdownMode {
		r.Println(output.FormatKeyValue("Aliases", orNone(info.Aliases)))
		r.Println(output.FormatKeyValue("Hints", orNone(info.Hints)))
		r.Println(output.FormatKeyValue("Statements", orNone(info.Statements)))
		r.Println()
	} else {
		styles := r.Styles()
		r.Println(styles.Bold.Render("Aliases:    ") + orNone(info.Aliases))
		r.Println(styles.Bold.Render("Hints:      ") + orNone(info.Hints))
		r.Println(styles.Bold.Render("Statements: ") + orNone(info.Statements))
		r.Println()
	}

	if len(info.Constructs) == 0 {
		r.Muted("no dialect-specific constructs")
		return nil
	}
	rows := make([][]string, 0, len(info.Constructs))
	for _, c := range info.Constructs {
		rows = append(rows, []string{c.ID, c.Name, c.Description, c.Example})
	}
	r.Table([]string{"ID", "Construct", "Description", "Example"}, rows)
	return nil
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
