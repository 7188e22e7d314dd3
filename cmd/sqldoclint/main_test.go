// Package main provides tests for the sqldoclint CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqldoclint/internal/cli"
	"github.com/leapstack-labs/sqldoclint/internal/cli/config"
)

const readme = `# Reporting queries

## Monthly totals

` + "```sql" + `
-- dialect: postgres
SELECT date_trunc('month', created_at) AS month, count(*)
FROM orders
GROUP BY 1;
` + "```" + `

## Top customers (SQL Server)

` + "```sql" + `
SELECT TOP 5 customer_id FROM orders ORDER BY total DESC;
` + "```" + `
`

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(readme), 0o600); err != nil {
		t.Fatalf("failed to write README.md: %v", err)
	}
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "sqldoclint") {
		t.Errorf("version output should contain 'sqldoclint', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := execute(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"check", "extract", "toc", "render", "dialects", "history"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestCheckReadme(t *testing.T) {
	setupProject(t)

	output, err := execute(t, "check")
	if err != nil {
		t.Fatalf("check error = %v\n%s", err, output)
	}
	if code := cli.ExitCode(err); code != cli.ExitOK {
		t.Errorf("exit code = %d, want %d", code, cli.ExitOK)
	}
	if !strings.Contains(output, "2 snippets: 2 valid, 0 invalid, 0 unsupported-dialect") {
		t.Errorf("unexpected report:\n%s", output)
	}
}

func TestCheckFindings(t *testing.T) {
	dir := setupProject(t)
	broken := readme + "\n## Broken\n\n```sql\nSELECT FROM;\n```\n"
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(broken), 0o600); err != nil {
		t.Fatalf("failed to write README.md: %v", err)
	}

	output, err := execute(t, "check", "--show", "problems")
	if code := cli.ExitCode(err); code != cli.ExitFailed {
		t.Fatalf("exit code = %d, want %d (err = %v)\n%s", code, cli.ExitFailed, err, output)
	}
	if !strings.Contains(output, "Reporting queries > Broken") {
		t.Errorf("report should name the section, got:\n%s", output)
	}
}

func TestTOCWrite(t *testing.T) {
	dir := setupProject(t)

	if _, err := execute(t, "toc", "--write", "--insert"); err != nil {
		t.Fatalf("toc error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "- [Top customers (SQL Server)](#top-customers-sql-server)") {
		t.Errorf("README.md should contain the TOC, got:\n%s", data)
	}

	output, err := execute(t, "toc", "--check")
	if err != nil {
		t.Errorf("toc --check after write error = %v\n%s", err, output)
	}
}
