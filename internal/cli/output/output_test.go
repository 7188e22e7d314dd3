package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTest(mode OutputMode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := map[string]OutputMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"TEXT":     ModeText,
		"markdown": ModeMarkdown,
		"md":       ModeMarkdown,
		"json":     ModeJSON,
		"yaml":     ModeYAML,
		"yml":      ModeYAML,
		"xml":      ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, Mode(in), in)
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		mode OutputMode
		tty  bool
		want OutputMode
	}{
		{name: "auto on terminal", mode: ModeAuto, tty: true, want: ModeText},
		{name: "auto piped", mode: ModeAuto, tty: false, want: ModeMarkdown},
		{name: "empty piped", mode: "", tty: false, want: ModeMarkdown},
		{name: "explicit text piped", mode: ModeText, tty: false, want: ModeText},
		{name: "json on terminal", mode: ModeJSON, tty: true, want: ModeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTest(tt.mode, tt.tty)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}

	r, _, _ := newTest(ModeYAML, false)
	assert.True(t, r.Structured())
	r, _, _ = newTest(ModeMarkdown, false)
	assert.False(t, r.Structured())
}

func TestRenderer_NoANSIWithoutTTY(t *testing.T) {
	r, out, errOut := newTest(ModeText, false)
	r.Header("Report")
	r.Success("all good")
	r.Muted("quiet")
	r.Println(r.Styles().Outcome(core.Invalid).Render("invalid"))
	r.Warning("careful")
	r.Error("broken")

	assert.NotContains(t, out.String(), "\x1b[")
	assert.NotContains(t, errOut.String(), "\x1b[")
	assert.Contains(t, out.String(), "✓ all good")
	assert.Contains(t, errOut.String(), "warning: careful")
	assert.Contains(t, errOut.String(), "error: broken")
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, _ := newTest(ModeAuto, false)
	r.Header("Dialects")
	r.Success("done")
	r.Muted("note")

	assert.Equal(t, "## Dialects\n\ndone\n_note_\n", out.String())
}

func TestTable(t *testing.T) {
	rows := [][]string{{"sqlserver", "tsql, mssql"}, {"mysql", "a|b"}}

	r, out, _ := newTest(ModeMarkdown, false)
	r.Table([]string{"Name", "Aliases"}, rows)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| Name | Aliases |", lines[0])
	assert.Contains(t, lines[3], `a\|b`)

	r, out, _ = newTest(ModeText, false)
	r.Table([]string{"Name", "Aliases"}, rows)
	assert.Contains(t, out.String(), "┌")
	assert.Contains(t, out.String(), "tsql, mssql")
}

func TestStructured(t *testing.T) {
	v := map[string]any{"dialect": "mysql", "count": 2}

	r, out, _ := newTest(ModeJSON, false)
	require.NoError(t, r.Data(v))
	assert.JSONEq(t, `{"dialect":"mysql","count":2}`, out.String())

	r, out, _ = newTest(ModeYAML, false)
	require.NoError(t, r.Data(v))
	assert.Equal(t, "count: 2\ndialect: mysql\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "- **Files**: 2", FormatKeyValue("Files", 2))
	assert.Equal(t, "Unsupported Dialect", Title("unsupported dialect"))
	assert.Equal(t, "?", NewStyles(&bytes.Buffer{}, false).OutcomeIcon(core.UnsupportedDialect))
}
