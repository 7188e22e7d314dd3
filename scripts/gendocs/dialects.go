package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sqldoclint/internal/engine"
	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
	_ "github.com/leapstack-labs/sqldoclint/pkg/dialects/all" // register dialects
	"github.com/leapstack-labs/sqldoclint/pkg/report"
	"github.com/leapstack-labs/sqldoclint/pkg/toc"
)

// generateDialectDocs writes the dialect reference: classification hints,
// aliases and the construct catalog with an example per construct.
func generateDialectDocs(outDir string) error {
	log.Printf("Generating dialect docs to %s", outDir)

	w := NewMarkdownWriter()
	w.Frontmatter("Dialects", "SQL dialects recognised by sqldoclint")
	w.GeneratedMarker()

	w.Header(1, "Dialects")
	w.Raw(toc.DefaultMarkerStart + "\n" + toc.DefaultMarkerEnd + "\n\n")
	w.Paragraph("A snippet's dialect comes from the first of these that names one: a " +
		InlineCode("-- dialect: name") + " comment, the fence info string, the enclosing headings " +
		"(deepest first) or the document's frontmatter. Anything else is checked as Generic SQL.")

	for _, d := range dialect.List() {
		w.Header(2, d.Title)
		w.Table([]string{"Name", "Aliases", "Hints"}, [][]string{{
			InlineCode(d.Name),
			codeList(d.Aliases),
			strings.Join(d.Hints(), ", "),
		}})

		ids := d.Constructs()
		if len(ids) == 0 {
			w.Paragraph("Only portable SQL is accepted.")
			continue
		}
		for _, id := range ids {
			c, ok := dialect.LookupConstruct(id)
			if !ok || c.Example == "" {
				continue
			}
			w.Header(3, c.Name)
			w.Paragraph(c.Description + ".")
			if !statement(c.Example) {
				w.Paragraph("Fragment: " + InlineCode(c.Example))
				continue
			}
			w.CodeBlock("sql", "-- dialect: "+d.Name+"\n"+c.Example+";")
		}
	}

	w.Header(2, "Constructs")
	var rows [][]string
	for _, c := range dialect.Constructs() {
		rows = append(rows, []string{InlineCode(c.ID), c.Name, dialectNames(c.Dialects)})
	}
	w.Table([]string{"ID", "Construct", "Dialects"}, rows)

	page, err := toc.Apply(w.Bytes(), toc.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to build table of contents: %w", err)
	}

	filename := filepath.Join(outDir, "dialects.md")
	if err := os.WriteFile(filename, page, 0o600); err != nil {
		return err
	}
	log.Printf("  Generated dialects.md")

	// the examples are documentation too
	eng, err := engine.New(engine.Config{})
	if err != nil {
		return err
	}
	res, err := eng.CheckSource(context.Background(), filename, page)
	if err != nil {
		return err
	}
	log.Printf("  Examples: %s", report.SummaryLine(res.Report.Summary.Counts))
	for _, e := range res.Report.Visible(report.ShowProblems) {
		log.Printf("    line %d (%s): %s", e.DocLine(), e.Result.Outcome, e.Result.Message)
	}
	return nil
}

// statement reports whether a construct example is a whole statement that
// can be fenced and checked.
func statement(example string) bool {
	upper := strings.ToUpper(example)
	return strings.HasPrefix(upper, "SELECT ") || strings.HasPrefix(upper, "SET ")
}

func codeList(items []string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = InlineCode(s)
	}
	return strings.Join(out, ", ")
}

func dialectNames(ds []core.Dialect) string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
