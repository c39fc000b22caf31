package main

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	var (
		verbose bool
		noColor bool
	)

	root := &cobra.Command{
		Use:   "clausectl",
		Short: "Flag risky clauses in contracts",
		Long: "clausectl splits a contract into clauses, rates each one High, Medium or Low\n" +
			"risk, and optionally asks an AI provider to explain the risky ones.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelInfo
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			if noColor {
				color.NoColor = true
			}
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	pf.BoolVar(&noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newTemplateCmd())
	root.AddCommand(newRulesCmd())
	return root
}
