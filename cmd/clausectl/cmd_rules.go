package main

import (
	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/clausecheck/internal/config"
	"github.com/kiranshivaraju/clausecheck/internal/rules"
)

func newRulesCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective risk rule set as YAML",
		Long: `Print the rule set that analyze would use. Redirect it to a file,
edit it, and pass it back with --rules or RULES_PATH.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				cfg, err := config.LoadAnalysis()
				if err != nil {
					return err
				}
				path = cfg.RulesPath
			}
			rs, err := rules.Load(path)
			if err != nil {
				return err
			}
			data, err := rs.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&path, "rules", "", "Rule set YAML (default: $RULES_PATH or the built-in rules)")
	return cmd
}
