// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqldoclint/internal/cli/output"
)

// GuideDoc is a small SQL guide with one snippet of each outcome.
const GuideDoc = "# SQL Guide\n\n<!-- toc -->\n<!-- tocstop -->\n\n" +
	"## Basics\n\n```sql\nSELECT * FROM employees;\n```\n\n" +
	"## SQL Server\n\n```sql\nSELECT TOP 10 name FROM employees;\n```\n\n" +
	"## PostgreSQL\n\n```sql\nSELECT TOP 10 name FROM employees;\n```\n"

// BrokenDoc adds an invalid snippet to GuideDoc.
const BrokenDoc = GuideDoc + "\n## Broken\n\n```sql\nSELECT (1 FROM t;\n```\n"

// ValidDoc has only valid snippets.
const ValidDoc = "# Valid\n\n## Query\n\n```sql\nSELECT id FROM t;\n```\n"

// UnterminatedDoc has a fence that never closes.
const UnterminatedDoc = "# Bad\n\n```sql\nSELECT 1;\n"

// SetupTestDocs writes files (name to content) into a temporary project
// directory and returns it.
func SetupTestDocs(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences, empty headers and ragged tables.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if fenceCount := strings.Count(md, "```"); fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	columns := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}

		if !strings.HasPrefix(trimmed, "|") {
			columns = 0
			continue
		}
		n := strings.Count(strings.ReplaceAll(trimmed, `\|`, ""), "|")
		if columns == 0 {
			columns = n
		} else if n != columns {
			t.Errorf("table row at line %d has %d separators, header has %d: %q", i+1, n, columns, line)
		}
	}
}
