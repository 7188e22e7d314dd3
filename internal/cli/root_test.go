package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sqldoclint/internal/cli/commands"
	"github.com/leapstack-labs/sqldoclint/internal/cli/config"
	"github.com/leapstack-labs/sqldoclint/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"check", "extract", "toc", "render", "dialects", "history", "version", "completion"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "output", "verbose", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Empty(t, cmd.PersistentFlags().Lookup("output").Shorthand, "-o belongs to render --out")
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := run(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"check", "toc", "render", "dialects", "history"} {
		assert.Contains(t, out, name)
	}
}

func TestRootCommand_Version(t *testing.T) {
	out, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqldoclint "+Version)
}

func TestRootCommand_OutputFlag(t *testing.T) {
	dir := testutil.SetupTestDocs(t, map[string]string{"guide.md": testutil.GuideDoc})
	t.Chdir(dir)

	out, _, err := run(t, "--output", "json", "check", "guide.md")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "reports")
	assert.Contains(t, got, "total")
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := testutil.SetupTestDocs(t, map[string]string{
		"docs/guide.md": testutil.BrokenDoc,
		"ci.yaml":       "files: [docs/guide.md]\noutput: markdown\nreport:\n  show: problems\n",
	})
	t.Chdir(t.TempDir())

	out, _, err := run(t, "--config", filepath.Join(dir, "ci.yaml"), "check")
	require.ErrorIs(t, err, commands.ErrInvalidSnippets)
	assert.Contains(t, out, "| 3 | SQL Guide > Broken |")
	assert.NotContains(t, out, "| 0 | SQL Guide > Basics |", "valid snippets are hidden")
}

func TestRootCommand_VerboseLogs(t *testing.T) {
	dir := testutil.SetupTestDocs(t, map[string]string{"guide.md": testutil.ValidDoc})
	t.Chdir(dir)

	_, stderr, err := run(t, "-v", "check", "guide.md")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "checked document")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	dir := testutil.SetupTestDocs(t, map[string]string{"sqldoclint.yaml": "output: xml\n"})
	t.Chdir(dir)

	_, _, err := run(t, "check")
	require.Error(t, err)
	assert.Equal(t, ExitError, ExitCode(err))
}

func TestRootCommand_Completion(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "sqldoclint")

	_, _, err = run(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: ExitOK},
		{name: "invalid snippets", err: commands.ErrInvalidSnippets, want: ExitFailed},
		{name: "stale toc", err: commands.ErrStaleTOC, want: ExitFailed},
		{name: "wrapped finding", err: errors.Join(errors.New("docs"), commands.ErrInvalidSnippets), want: ExitFailed},
		{name: "read error", err: os.ErrNotExist, want: ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
