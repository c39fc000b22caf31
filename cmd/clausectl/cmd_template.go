package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/clausecheck/internal/template"
)

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "List and render built-in contract templates",
	}
	cmd.AddCommand(newTemplateListCmd())
	cmd.AddCommand(newTemplateRenderCmd())
	return cmd
}

func newTemplateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available templates and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := template.New()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTITLE\tPARAMETERS")
			for _, t := range gen.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.Title, strings.Join(t.Params, ", "))
			}
			return tw.Flush()
		},
	}
}

func newTemplateRenderCmd() *cobra.Command {
	var (
		sets   []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render a template to stdout or a file",
		Long: `Render a built-in contract template. Unset parameters take their defaults.

Usage:
  clausectl template render nda --set company_name="Acme Corp" --set duration="2 years"
  clausectl template render partnership --set partner_names="Ann, Bob" -o deed.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseSets(sets)
			if err != nil {
				return err
			}
			gen, err := template.New()
			if err != nil {
				return err
			}
			doc, err := gen.Render(args[0], params)
			if err != nil {
				return err
			}

			if output == "" {
				return template.WriteText(cmd.OutOrStdout(), doc)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := template.WriteText(f, doc); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Template parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the contract to this file")
	return cmd
}

// parseSets turns repeated key=value flags into template parameters.
func parseSets(sets []string) (map[string]string, error) {
	params := make(map[string]string, len(sets))
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --set %q (want key=value)", s)
		}
		params[strings.TrimSpace(k)] = v
	}
	return params, nil
}
