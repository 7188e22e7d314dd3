package markdown

import (
	"bytes"
	"errors"
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// DefaultLanguages are the fence language tags treated as SQL.
var DefaultLanguages = []string{
	"sql", "mysql", "mariadb", "postgres", "postgresql", "pgsql", "plpgsql", "psql",
	"tsql", "t-sql", "mssql", "sqlserver", "plsql", "oracle",
}

// Options control which fenced blocks become snippets.
type Options struct {
	// Languages are additional fence tags treated as SQL.
	Languages []string
	// IncludeUntagged treats fences without a language tag as SQL.
	IncludeUntagged bool
}

// Document is a parsed markdown file.
type Document struct {
	Path        string
	Source      []byte
	Frontmatter *Frontmatter // nil when absent
	Headings    []core.Heading
	Blocks      []Block

	opts Options
}

// Parse scans src and collects its frontmatter, headings and fenced blocks.
func Parse(path string, src []byte) (*Document, error) {
	return ParseWithOptions(path, src, Options{})
}

// ParseWithOptions is Parse with snippet selection options.
func ParseWithOptions(path string, src []byte, opts Options) (*Document, error) {
	s := newScanner(src)

	fm, err := parseFrontmatter(s)
	if err != nil {
		var fe *FrontmatterError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}

	doc := &Document{Path: path, Source: src, Frontmatter: fm, opts: opts}
	err = s.run(func(e event) bool {
		switch {
		case e.heading != nil:
			doc.Headings = append(doc.Headings, *e.heading)
		case e.block != nil:
			doc.Blocks = append(doc.Blocks, *e.block)
		}
		return true
	})
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Declared returns the document default dialect name from frontmatter.
func (d *Document) Declared() string {
	if d.Frontmatter == nil {
		return ""
	}
	return d.Frontmatter.Dialect
}

// IsSQL reports whether a fence language tag selects a SQL snippet.
func (d *Document) IsSQL(lang string) bool {
	if lang == "" {
		return d.opts.IncludeUntagged
	}
	lang = strings.ToLower(lang)
	return slices.Contains(DefaultLanguages, lang) || slices.Contains(d.opts.Languages, lang)
}

// Snippets yields the SQL blocks of the document as snippets, numbered in
// document order.
func (d *Document) Snippets() iter.Seq[core.Snippet] {
	return func(yield func(core.Snippet) bool) {
		idx := 0
		for _, b := range d.Blocks {
			if !d.IsSQL(b.Lang) {
				continue
			}
			s := core.Snippet{
				Index:       idx,
				HeadingPath: b.HeadingPath,
				Lang:        b.Lang,
				Info:        b.Info,
				Declared:    d.Declared(),
				Text:        b.Body,
				Span:        b.Span,
				Line:        b.Line,
			}
			idx++
			if !yield(s) {
				return
			}
		}
	}
}

// Edit replaces the bytes covered by Span with Text.
type Edit struct {
	Span token.Span
	Text string
}

// Splice returns the source with edits applied. Edits must not overlap.
// With no edits the source is returned unchanged.
func (d *Document) Splice(edits []Edit) []byte {
	return Splice(d.Source, edits)
}

// Splice applies non-overlapping edits to src.
func Splice(src []byte, edits []Edit) []byte {
	if len(edits) == 0 {
		return bytes.Clone(src)
	}
	sorted := slices.Clone(edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start.Offset < sorted[j].Span.Start.Offset
	})

	var buf bytes.Buffer
	buf.Grow(len(src))
	last := 0
	for _, e := range sorted {
		start, end := e.Span.Start.Offset, e.Span.End.Offset
		if start < last || end < start || end > len(src) {
			continue
		}
		buf.Write(src[last:start])
		buf.WriteString(e.Text)
		last = end
	}
	buf.Write(src[last:])
	return buf.Bytes()
}
