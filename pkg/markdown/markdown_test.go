package markdown_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guide = `---
title: SQL Guide
dialect: postgres
tags: [sql, guide]
owner: docs-team
---
# SQL Guide

Intro text.

## Beginner Level

### Basic Queries

` + "```sql" + `
SELECT * FROM employees;
` + "```" + `

## Advanced Level

### Window Functions in *PostgreSQL*

` + "```sql" + `
SELECT name, ROW_NUMBER() OVER (ORDER BY salary) FROM employees;
` + "```" + `

` + "```bash" + `
# not sql
psql -f query.sql
` + "```" + `

MySQL Specific
--------------

~~~~mysql
SELECT ` + "`id`" + ` FROM t;
~~~~
`

func TestParse(t *testing.T) {
	doc, err := markdown.Parse("guide.md", []byte(guide))
	require.NoError(t, err)

	require.NotNil(t, doc.Frontmatter)
	assert.Equal(t, "SQL Guide", doc.Frontmatter.Title)
	assert.Equal(t, "postgres", doc.Frontmatter.Dialect)
	assert.Equal(t, []string{"sql", "guide"}, doc.Frontmatter.Tags)
	assert.Equal(t, "docs-team", doc.Frontmatter.Meta["owner"])

	var titles []string
	for _, h := range doc.Headings {
		titles = append(titles, h.Title)
	}
	assert.Equal(t, []string{
		"SQL Guide", "Beginner Level", "Basic Queries", "Advanced Level",
		"Window Functions in PostgreSQL", "MySQL Specific",
	}, titles)
	assert.Equal(t, 2, doc.Headings[5].Level)

	require.Len(t, doc.Blocks, 4)
	assert.Equal(t, "bash", doc.Blocks[2].Lang)
	assert.Equal(t, "~~~~", doc.Blocks[3].Fence)
}

func TestSnippets(t *testing.T) {
	doc, err := markdown.Parse("guide.md", []byte(guide))
	require.NoError(t, err)

	snippets := slices.Collect(doc.Snippets())
	require.Len(t, snippets, 3)

	first := snippets[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, []string{"SQL Guide", "Beginner Level", "Basic Queries"}, first.HeadingPath)
	assert.Equal(t, "SELECT * FROM employees;\n", first.Text)
	assert.Equal(t, "postgres", first.Declared)
	assert.Equal(t, first.Text, guide[first.Span.Start.Offset:first.Span.End.Offset])
	assert.Equal(t, first.Line+1, first.Span.Start.Line)

	assert.Equal(t, []string{"SQL Guide", "Advanced Level", "Window Functions in PostgreSQL"}, snippets[1].HeadingPath)
	assert.Equal(t, []string{"SQL Guide", "MySQL Specific"}, snippets[2].HeadingPath)
	assert.Equal(t, "mysql", snippets[2].Lang)
	assert.Equal(t, 2, snippets[2].Index)
}

func TestSnippets_Options(t *testing.T) {
	src := "```\nSELECT 1;\n```\n\n```sqlite\nSELECT 2;\n```\n"

	doc, err := markdown.Parse("a.md", []byte(src))
	require.NoError(t, err)
	assert.Empty(t, slices.Collect(doc.Snippets()))

	doc, err = markdown.ParseWithOptions("a.md", []byte(src), markdown.Options{
		Languages:       []string{"sqlite"},
		IncludeUntagged: true,
	})
	require.NoError(t, err)
	assert.Len(t, slices.Collect(doc.Snippets()), 2)
}

func TestBlocks_Restartable(t *testing.T) {
	seq := markdown.Blocks([]byte(guide))
	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}
	assert.Equal(t, 4, count())
	assert.Equal(t, 4, count())
}

func TestBlocks_HeadingInsideFenceIgnored(t *testing.T) {
	src := "# Top\n\n```sql\n# not a heading\nSELECT 1;\n```\n\n```sql\nSELECT 2;\n```\n"
	var paths [][]string
	for b, err := range markdown.Blocks([]byte(src)) {
		require.NoError(t, err)
		paths = append(paths, b.HeadingPath)
	}
	assert.Equal(t, [][]string{{"Top"}, {"Top"}}, paths)
}

func TestBlocks_BeforeFirstHeading(t *testing.T) {
	for b, err := range markdown.Blocks([]byte("```sql\nSELECT 1;\n```\n# Later\n")) {
		require.NoError(t, err)
		assert.Empty(t, b.HeadingPath)
	}
}

func TestBlocks_Unterminated(t *testing.T) {
	src := "# Title\n\n```sql\nSELECT 1;\n"

	var got error
	for _, err := range markdown.Blocks([]byte(src)) {
		got = err
	}
	var pe *markdown.ParseError
	require.True(t, errors.As(got, &pe))
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, strings.Index(src, "```"), pe.Offset)

	_, err := markdown.Parse("doc.md", []byte(src))
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "doc.md", pe.Path)
	assert.Contains(t, err.Error(), "line 3")
}

func TestBlocks_Fences(t *testing.T) {
	tests := []struct {
		name string
		src  string
		body string
		lang string
	}{
		{"indented in list", "- item\n\n    ```sql\n    SELECT 1;\n    ```\n", "    SELECT 1;\n", "sql"},
		{"longer closing fence", "```sql\nSELECT 1;\n`````\n", "SELECT 1;\n", "sql"},
		{"nested shorter fence", "````md\n```sql\nx\n```\n````\n", "```sql\nx\n```\n", "md"},
		{"info attributes", "```sql {dialect=oracle}\nSELECT 1 FROM dual;\n```\n", "SELECT 1 FROM dual;\n", "sql"},
		{"crlf", "```sql\r\nSELECT 1;\r\n```\r\n", "SELECT 1;\r\n", "sql"},
		{"empty body", "```sql\n```\n", "", "sql"},
		{"no trailing newline", "```sql\nSELECT 1;\n```", "SELECT 1;\n", "sql"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var blocks []markdown.Block
			for b, err := range markdown.Blocks([]byte(tt.src)) {
				require.NoError(t, err)
				blocks = append(blocks, b)
			}
			require.Len(t, blocks, 1)
			assert.Equal(t, tt.body, blocks[0].Body)
			assert.Equal(t, tt.lang, blocks[0].Lang)
			assert.Equal(t, tt.body, tt.src[blocks[0].Span.Start.Offset:blocks[0].Span.End.Offset])
		})
	}
}

func TestParse_InvalidFrontmatter(t *testing.T) {
	_, err := markdown.Parse("bad.md", []byte("---\ntitle: [unclosed\n---\n# Hi\n"))
	var fe *markdown.FrontmatterError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "bad.md", fe.Path)
}

func TestParse_ThematicBreakWithoutFrontmatter(t *testing.T) {
	doc, err := markdown.Parse("a.md", []byte("# A\n\n---\n\n## B\n"))
	require.NoError(t, err)
	assert.Nil(t, doc.Frontmatter)
	require.Len(t, doc.Headings, 2)
	assert.Equal(t, "B", doc.Headings[1].Title)
}

func TestParse_LeadingRulesWithoutFrontmatter(t *testing.T) {
	src := "---\n\nWelcome to the SQL guide.\n\n---\n\n## Basics\n\n```sql\nSELECT 1;\n```\n"
	doc, err := markdown.Parse("README.md", []byte(src))
	require.NoError(t, err)
	assert.Nil(t, doc.Frontmatter)

	require.Len(t, doc.Headings, 1)
	assert.Equal(t, "Basics", doc.Headings[0].Title)

	snippets := slices.Collect(doc.Snippets())
	require.Len(t, snippets, 1)
	assert.Equal(t, "SELECT 1;\n", snippets[0].Text)
	assert.Equal(t, []string{"Basics"}, snippets[0].HeadingPath)
	assert.Equal(t, src, string(doc.Splice(nil)))
}

func TestParse_FrontmatterDetection(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    bool
		wantErr bool
	}{
		{name: "mapping", src: "---\ntitle: Guide\n---\n# A\n", want: true},
		{name: "empty", src: "---\n---\n# A\n", want: true},
		{name: "prose between rules", src: "---\nJust some text.\n---\n# A\n"},
		{name: "malformed mapping", src: "---\n# comment\ntitle: [unclosed\n---\n# A\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := markdown.Parse("a.md", []byte(tt.src))
			if tt.wantErr {
				var fe *markdown.FrontmatterError
				require.ErrorAs(t, err, &fe)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Frontmatter != nil)
		})
	}
}

func TestSplice_RoundTrip(t *testing.T) {
	doc, err := markdown.Parse("guide.md", []byte(guide))
	require.NoError(t, err)

	assert.Equal(t, guide, string(doc.Splice(nil)))

	var edits []markdown.Edit
	for s := range doc.Snippets() {
		edits = append(edits, markdown.Edit{Span: s.Span, Text: s.Text})
	}
	assert.Equal(t, guide, string(doc.Splice(edits)))
}

func TestSplice_Replaces(t *testing.T) {
	doc, err := markdown.Parse("guide.md", []byte(guide))
	require.NoError(t, err)

	s := slices.Collect(doc.Snippets())[0]
	out := string(doc.Splice([]markdown.Edit{{Span: s.Span, Text: "SELECT 1;\n"}}))
	assert.Contains(t, out, "```sql\nSELECT 1;\n```")
	assert.NotContains(t, out, "SELECT * FROM employees;")
	assert.Len(t, out, len(guide)-len(s.Text)+len("SELECT 1;\n"))
}

func TestPlainText(t *testing.T) {
	tests := map[string]string{
		"Window Functions":              "Window Functions",
		"*Emphasis* and **strong**":     "Emphasis and strong",
		"Using `ROW_NUMBER()`":          "Using ROW_NUMBER()",
		"[Joins](#joins) explained":     "Joins explained",
		"1. Introduction":               "1. Introduction",
		"- dash":                        "- dash",
		"":                              "",
		"Inline <span>html</span> text": "Inline html text",
	}
	for in, want := range tests {
		assert.Equal(t, want, markdown.PlainText(in), in)
	}
}

func TestHeadingSpans(t *testing.T) {
	src := "# One #\n\nPara\n===\n"
	doc, err := markdown.Parse("a.md", []byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Headings, 2)

	h := doc.Headings[0]
	assert.Equal(t, core.Heading{Level: 1, Text: "One", Title: "One", Line: 1, Span: h.Span}, h)
	assert.Equal(t, "# One #", src[h.Span.Start.Offset:h.Span.End.Offset])

	h = doc.Headings[1]
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, 3, h.Line)
	assert.Equal(t, "Para\n===\n", src[h.Span.Start.Offset:h.Span.End.Offset])
}
