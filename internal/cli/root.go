// Package cli provides the command-line interface for sqldoclint.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/sqldoclint/internal/cli/commands"
	"github.com/leapstack-labs/sqldoclint/internal/cli/config"
	"github.com/leapstack-labs/sqldoclint/internal/cli/output"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1 // invalid snippets or a stale TOC
	ExitError  = 2
)

// skipConfig lists commands that run without loading configuration.
var skipConfig = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
	"version":    true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqldoclint",
		Short: "sqldoclint - validate SQL snippets in markdown documentation",
		Long: `sqldoclint checks the SQL code blocks in markdown documents.

Each snippet is classified into a dialect (Generic, MySQL, PostgreSQL,
SQL Server or Oracle) from its comments, fence tag, enclosing headings or
the document's frontmatter, and then checked against that dialect without
touching a database. It also maintains tables of contents and renders
annotated HTML pages.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfig[cmd.Name()] {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg)
			if f := config.GetConfigFileUsed(); f != "" {
				logger.Debug("using config file", "path", f)
			}
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
` + fmt.Sprintf("commit %s, built %s\n", GitCommit, BuildDate))

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: sqldoclint.yaml, searched upward)")
	rootCmd.PersistentFlags().String("output", "", "Output format (auto|text|markdown|json|yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewExtractCommand())
	rootCmd.AddCommand(commands.NewTOCCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewDialectsCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command until it finishes or the process is
// interrupted. Errors other than findings are printed to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, commands.ErrCheckFailed) {
		r := output.NewRenderer(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), output.ModeAuto)
		r.Error(err.Error())
	}
	return err
}

// ExitCode maps an Execute error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, commands.ErrCheckFailed):
		return ExitFailed
	default:
		return ExitError
	}
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sqldoclint.

To load completions:

Bash:
  $ source <(sqldoclint completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sqldoclint completion bash > /etc/bash_completion.d/sqldoclint
  # macOS:
  $ sqldoclint completion bash > $(brew --prefix)/etc/bash_completion.d/sqldoclint

Zsh:
  $ sqldoclint completion zsh > "${fpath[1]}/_sqldoclint"

Fish:
  $ sqldoclint completion fish | source

PowerShell:
  PS> sqldoclint completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
