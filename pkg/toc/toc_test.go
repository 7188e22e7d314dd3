package toc_test

import (
	"testing"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/toc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Window Functions":       "window-functions",
		"C# & .NET":              "c--net",
		"  Trimmed  ":            "trimmed",
		"snake_case and-dash":    "snake_case-and-dash",
		"Überblick (PostgreSQL)": "überblick-postgresql",
		"1. Introduction":        "1-introduction",
		"What's new in 2.0?":     "whats-new-in-20",
	}
	for in, want := range tests {
		assert.Equal(t, want, toc.Slug(in), in)
	}
}

func TestSlugger_Duplicates(t *testing.T) {
	var s toc.Slugger
	assert.Equal(t, "example", s.Slug("Example"))
	assert.Equal(t, "example-1", s.Slug("Example"))
	assert.Equal(t, "example-2", s.Slug("example"))
	assert.Equal(t, "example-1-1", s.Slug("Example 1"))
}

func headings(pairs ...any) []core.Heading {
	var hs []core.Heading
	for i := 0; i+1 < len(pairs); i += 2 {
		hs = append(hs, core.Heading{Level: pairs[i].(int), Title: pairs[i+1].(string)})
	}
	return hs
}

func TestGenerate(t *testing.T) {
	hs := headings(
		1, "Guide",
		2, "Table of Contents",
		2, "Beginner",
		3, "Basic Queries",
		4, "Too Deep",
		2, "Advanced",
		3, "Examples",
		3, "Examples",
	)
	got := toc.Generate(hs, toc.DefaultOptions())
	want := "- [Beginner](#beginner)\n" +
		"  - [Basic Queries](#basic-queries)\n" +
		"- [Advanced](#advanced)\n" +
		"  - [Examples](#examples)\n" +
		"  - [Examples](#examples-1)\n"
	assert.Equal(t, want, got)
}

func TestGenerate_Levels(t *testing.T) {
	hs := headings(1, "A", 2, "B", 3, "C")

	got := toc.Generate(hs, toc.Options{MinLevel: 1, MaxLevel: 2})
	assert.Equal(t, "- [A](#a)\n  - [B](#b)\n", got)

	assert.Empty(t, toc.Generate(headings(1, "Only"), toc.DefaultOptions()))
}

func TestGenerate_EscapesBrackets(t *testing.T) {
	got := toc.Generate(headings(2, "Arrays [PostgreSQL]"), toc.DefaultOptions())
	assert.Equal(t, "- [Arrays \\[PostgreSQL\\]](#arrays-postgresql)\n", got)
}

const withMarkers = `# Guide

<!-- toc -->
- [Stale](#stale)
<!-- tocstop -->

## Setup

` + "```sql" + `
-- <!-- tocstop -->
SELECT 1;
` + "```" + `

## Queries

### Joins
`

func TestApply(t *testing.T) {
	out, err := toc.Apply([]byte(withMarkers), toc.DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, string(out), "<!-- toc -->\n- [Setup](#setup)\n- [Queries](#queries)\n  - [Joins](#joins)\n<!-- tocstop -->\n")
	assert.NotContains(t, string(out), "Stale")
	assert.Contains(t, string(out), "-- <!-- tocstop -->\nSELECT 1;")
}

func TestApply_Idempotent(t *testing.T) {
	docs := map[string]string{
		"markers":     withMarkers,
		"after h1":    "# Guide\n\nIntro.\n\n## One\n\n## Two\n",
		"h1 at eof":   "## One\n\n# Guide",
		"setext h1":   "Guide\n=====\n## One\n",
		"frontmatter": "---\ntitle: x\n---\n## One\n",
		"top":         "## One\n\n## Two\n",
		"no headings": "just text\n",
		"crlf":        "# Guide\r\n\r\n## One\r\n",
	}
	opts := toc.DefaultOptions()
	opts.Insert = true
	for name, src := range docs {
		t.Run(name, func(t *testing.T) {
			once, err := toc.Apply([]byte(src), opts)
			require.NoError(t, err)
			twice, err := toc.Apply(once, opts)
			require.NoError(t, err)
			assert.Equal(t, string(once), string(twice))

			stale, err := toc.Stale(once, opts)
			require.NoError(t, err)
			assert.False(t, stale)
		})
	}
}

func TestApply_Insert(t *testing.T) {
	opts := toc.DefaultOptions()
	opts.Insert = true

	out, err := toc.Apply([]byte("# Guide\n\nIntro.\n\n## One\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "# Guide\n\n<!-- toc -->\n- [One](#one)\n<!-- tocstop -->\n\nIntro.\n\n## One\n", string(out))

	out, err = toc.Apply([]byte("---\ntitle: x\n---\n## One\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: x\n---\n\n<!-- toc -->\n- [One](#one)\n<!-- tocstop -->\n\n## One\n", string(out))

	out, err = toc.Apply([]byte("## One\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "<!-- toc -->\n- [One](#one)\n<!-- tocstop -->\n\n## One\n", string(out))
}

func TestApply_Errors(t *testing.T) {
	_, err := toc.Apply([]byte("# Guide\n\n## One\n"), toc.DefaultOptions())
	assert.ErrorIs(t, err, toc.ErrNoMarkers)

	_, err = toc.Apply([]byte("# Guide\n<!-- toc -->\n## One\n"), toc.DefaultOptions())
	assert.ErrorIs(t, err, toc.ErrUnclosedMarker)
}

func TestStale(t *testing.T) {
	stale, err := toc.Stale([]byte(withMarkers), toc.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestApply_CustomMarkers(t *testing.T) {
	opts := toc.Options{MarkerStart: "<!-- START -->", MarkerEnd: "<!-- END -->"}
	out, err := toc.Apply([]byte("<!-- START -->\n<!-- END -->\n## A\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "<!-- START -->\n- [A](#a)\n<!-- END -->\n## A\n", string(out))
}

func TestSlugger_Reserve(t *testing.T) {
	var s toc.Slugger
	s.Reserve("setup")
	assert.Equal(t, "setup-1", s.Slug("Setup"))
}
