package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/clausecheck/internal/ai"
	"github.com/kiranshivaraju/clausecheck/internal/analysis"
	"github.com/kiranshivaraju/clausecheck/internal/config"
	"github.com/kiranshivaraju/clausecheck/internal/normalize"
	"github.com/kiranshivaraju/clausecheck/internal/risk"
	"github.com/kiranshivaraju/clausecheck/internal/rules"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

type analyzeFlags struct {
	language  string
	explain   bool
	rulesPath string
	format    string
	workers   int
}

func newAnalyzeCmd() *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Classify every clause of a PDF, DOCX or TXT contract",
		Long: `Analyze a contract file and print a per-clause risk report.

Usage:
  clausectl analyze contract.pdf
  clausectl analyze contract.docx --explain            # uses AI_PROVIDER settings
  clausectl analyze contract.txt --format csv > out.csv

With --explain the AI provider is read from the environment (AI_PROVIDER,
OPENAI_API_KEY, ...). Provider failures never abort the analysis; the
affected clauses carry a fallback message instead. A non-English --language
uses the same provider to translate the document first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.language, "language", normalize.DefaultLanguage, "Language the contract is written in")
	fl.BoolVar(&f.explain, "explain", false, "Ask the AI provider for explanations and suggestions")
	fl.StringVar(&f.rulesPath, "rules", "", "Rule set YAML (default: $RULES_PATH or the built-in rules)")
	fl.StringVar(&f.format, "format", "text", "Output format: text, json or csv")
	fl.IntVar(&f.workers, "workers", 0, "Concurrent provider calls (default: $ANALYSIS_WORKERS)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, f analyzeFlags) error {
	switch f.format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unknown format %q (want text, json or csv)", f.format)
	}

	analysisCfg, err := config.LoadAnalysis()
	if err != nil {
		return err
	}
	if f.rulesPath != "" {
		analysisCfg.RulesPath = f.rulesPath
	}
	if f.workers > 0 {
		analysisCfg.Workers = f.workers
	}

	ruleSet, err := rules.Load(analysisCfg.RulesPath)
	if err != nil {
		return err
	}

	opts := []analysis.AnalyzerOption{analysis.WithWorkers(analysisCfg.Workers)}
	var normOpts []normalize.Option
	if f.explain || !normalize.IsEnglish(f.language) {
		aiCfg, err := config.LoadAI()
		if err != nil {
			return err
		}
		provider, err := ai.NewProvider(aiCfg)
		if err != nil {
			return fmt.Errorf("create AI provider: %w", err)
		}
		if f.explain {
			opts = append(opts,
				analysis.WithProvider(provider),
				analysis.WithInferenceTimeout(aiCfg.InferenceTimeout),
			)
		}
		if tr, ok := ai.Translator(provider, aiCfg.InferenceTimeout); ok {
			normOpts = append(normOpts, normalize.WithTranslator(tr))
		} else if !normalize.IsEnglish(f.language) {
			slog.Warn("translation disabled; analyzing untranslated text", "language", f.language, "provider", provider.Name())
		}
	}
	analyzer := analysis.NewAnalyzer(risk.NewClassifier(ruleSet), opts...)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read contract: %w", err)
	}
	filename := filepath.Base(path)
	text, err := normalize.New(normOpts...).Normalize(cmd.Context(), filename, data, f.language)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	report, err := analyzer.Analyze(cmd.Context(), text, analysis.Options{
		Enrich:   f.explain,
		Filename: filename,
		Language: f.language,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch f.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "csv":
		return analysis.WriteCSV(out, report)
	default:
		return writeReport(out, report)
	}
}

var (
	colorHigh   = color.New(color.FgRed, color.Bold)
	colorMedium = color.New(color.FgYellow, color.Bold)
	colorLow    = color.New(color.FgGreen)
	colorLabel  = color.New(color.FgCyan)
)

func levelColor(level models.RiskLevel) *color.Color {
	switch level {
	case models.RiskHigh:
		return colorHigh
	case models.RiskMedium:
		return colorMedium
	default:
		return colorLow
	}
}

func overallColor(overall models.OverallRisk) *color.Color {
	switch overall {
	case models.OverallHigh:
		return colorHigh
	case models.OverallMedium:
		return colorMedium
	default:
		return colorLow
	}
}

// writeReport prints a human-readable report with risk levels coloured.
func writeReport(w io.Writer, r *models.Report) error {
	fmt.Fprintf(w, "Contract: %s\n", r.Filename)
	fmt.Fprint(w, "Overall:  ")
	overallColor(r.Overall).Fprint(w, r.Overall)
	fmt.Fprintf(w, "  (High %d, Medium %d, Low %d)\n", r.Counts.High, r.Counts.Medium, r.Counts.Low)
	if r.Provider != "" {
		fmt.Fprintf(w, "Provider: %s %s\n", r.Provider, r.Model)
	}

	for _, c := range r.Clauses {
		fmt.Fprintf(w, "\n[%d] ", c.Index)
		levelColor(c.RiskLevel).Fprint(w, c.RiskLevel)
		fmt.Fprintf(w, " / %s\n", c.Category)
		fmt.Fprintf(w, "    %s\n", indent(c.Text))
		if c.ExplanationStatus != models.EnrichmentSkipped {
			colorLabel.Fprint(w, "    Explanation: ")
			fmt.Fprintln(w, indent(c.Explanation))
		}
		if c.SuggestionStatus != models.EnrichmentSkipped {
			colorLabel.Fprint(w, "    Suggestion:  ")
			fmt.Fprintln(w, indent(c.Suggestion))
		}
	}
	return nil
}

func indent(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "\n    ")
}
