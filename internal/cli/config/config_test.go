package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp switches to a fresh temp dir and returns its resolved path.
func chdirTemp(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	return wd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	root := chdirTemp(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, []string{filepath.Join(root, DefaultFile)}, cfg.Files)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, 2, cfg.Report.SectionDepth)
	assert.Equal(t, "all", cfg.Report.Show)
	assert.Equal(t, 2, cfg.TOC.MinLevel)
	assert.Equal(t, 3, cfg.TOC.MaxLevel)
	assert.Equal(t, "<!-- toc -->", cfg.TOC.MarkerStart)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(root, DefaultHistory), cfg.History.Path)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FileSearchedUpward(t *testing.T) {
	ResetConfig()
	root := chdirTemp(t)
	writeFile(t, filepath.Join(root, "sqldoclint.yaml"), `files:
  - docs/guide.md
  - README.md
dialect: postgresql
languages: [psql, pgsql]
report:
  section_depth: 3
  show: problems
toc:
  min_level: 1
  max_level: 4
history:
  enabled: true
  path: state/runs.db
watch:
  debounce: 1s
`)
	sub := filepath.Join(root, "docs", "nested")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "sqldoclint.yaml"), GetConfigFileUsed())
	assert.Equal(t, []string{filepath.Join(root, "docs", "guide.md"), filepath.Join(root, "README.md")}, cfg.Files)
	assert.Equal(t, "postgresql", cfg.Dialect)
	assert.Equal(t, []string{"psql", "pgsql"}, cfg.Languages)
	assert.Equal(t, 3, cfg.Report.SectionDepth)
	assert.Equal(t, "problems", string(cfg.Show()))
	assert.Equal(t, 1, cfg.TOC.MinLevel)
	assert.Equal(t, 4, cfg.TOC.MaxLevel)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(root, "state", "runs.db"), cfg.History.Path)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	ResetConfig()
	chdirTemp(t)
	other := t.TempDir()
	cfgPath := filepath.Join(other, "custom.yml")
	writeFile(t, cfgPath, "output: json\n")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, filepath.Dir(GetConfigFileUsed()), cfg.ProjectRoot)

	_, err = LoadConfig(filepath.Join(other, "missing.yaml"), nil)
	assert.ErrorContains(t, err, "error reading config file")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	root := chdirTemp(t)
	writeFile(t, filepath.Join(root, "sqldoclint.yaml"), "dialect: mysql\nreport:\n  show: all\n")

	t.Setenv("SQLDOCLINT_DIALECT", "oracle")
	t.Setenv("SQLDOCLINT_REPORT_SHOW", "problems")
	t.Setenv("SQLDOCLINT_LOG_LEVEL", "debug")
	t.Setenv("SQLDOCLINT_LANGUAGES", "psql,tsql")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "oracle", cfg.Dialect, "env var should override config file")
	assert.Equal(t, "problems", cfg.Report.Show)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"psql", "tsql"}, cfg.Languages)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	ResetConfig()
	root := chdirTemp(t)
	writeFile(t, filepath.Join(root, ".env"), "SQLDOCLINT_JOBS=3\nSQLDOCLINT_OUTPUT=yaml\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("SQLDOCLINT_JOBS")
	})
	// already-set variables win over .env
	t.Setenv("SQLDOCLINT_OUTPUT", "text")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, "text", cfg.OutputFormat)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	root := chdirTemp(t)
	writeFile(t, filepath.Join(root, "sqldoclint.yaml"), "dialect: mysql\njobs: 2\n")
	t.Setenv("SQLDOCLINT_DIALECT", "oracle")
	t.Setenv("SQLDOCLINT_JOBS", "4")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "", "dialect")
	flags.Int("jobs", 0, "jobs")
	flags.String("show", "", "show")
	flags.Bool("record", false, "record")
	flags.Bool("write", false, "command option")
	flags.Duration("debounce", 0, "debounce")
	require.NoError(t, flags.Set("dialect", "tsql"))
	require.NoError(t, flags.Set("record", "true"))
	require.NoError(t, flags.Set("write", "true"))
	require.NoError(t, flags.Set("debounce", "50ms"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "tsql", cfg.Dialect, "flag value should override config file and env var")
	assert.Equal(t, 4, cfg.Jobs, "env var should be used when flag is not set")
	assert.Equal(t, "all", cfg.Report.Show)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadConfig_Invalid(t *testing.T) {
	ResetConfig()
	root := chdirTemp(t)
	writeFile(t, filepath.Join(root, "sqldoclint.yaml"), "dialect: db2\n")

	_, err := LoadConfig("", nil)
	assert.ErrorContains(t, err, `unknown dialect "db2"`)
	assert.Nil(t, GetCurrentConfig())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{OutputFormat: "auto", LogLevel: "info", Report: ReportConfig{Show: "all"}}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "dialect alias", mutate: func(c *Config) { c.Dialect = "tsql" }},
		{name: "bad output", mutate: func(c *Config) { c.OutputFormat = "xml" }, errSubstr: "invalid output format"},
		{name: "bad dialect", mutate: func(c *Config) { c.Dialect = "db2" }, errSubstr: "unknown dialect"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, errSubstr: "invalid log_level"},
		{name: "negative jobs", mutate: func(c *Config) { c.Jobs = -1 }, errSubstr: "jobs must not be negative"},
		{name: "negative depth", mutate: func(c *Config) { c.Report.SectionDepth = -1 }, errSubstr: "section_depth"},
		{name: "bad show", mutate: func(c *Config) { c.Report.Show = "some" }, errSubstr: "invalid show value"},
		{name: "toc level range", mutate: func(c *Config) { c.TOC.MaxLevel = 7 }, errSubstr: "between 1 and 6"},
		{
			name:      "toc levels inverted",
			mutate:    func(c *Config) { c.TOC.MinLevel, c.TOC.MaxLevel = 4, 2 },
			errSubstr: "greater than toc.max_level",
		},
		{name: "negative debounce", mutate: func(c *Config) { c.Watch.Debounce = -time.Second }, errSubstr: "debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SQLDOCLINT_DIALECT":              "dialect",
		"SQLDOCLINT_LOG_LEVEL":            "log_level",
		"SQLDOCLINT_INCLUDE_UNTAGGED":     "include_untagged",
		"SQLDOCLINT_REPORT_SECTION_DEPTH": "report.section_depth",
		"SQLDOCLINT_TOC_MIN_LEVEL":        "toc.min_level",
		"SQLDOCLINT_HISTORY_ENABLED":      "history.enabled",
		"SQLDOCLINT_WATCH_DEBOUNCE":       "watch.debounce",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &Config{LogLevel: "warn"})
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewLogger(&buf, &Config{LogLevel: "warn", Verbose: true}).Debug("debug on")
	assert.Contains(t, buf.String(), "debug on")

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.NotNil(t, GetLogger(context.Background()))
}
