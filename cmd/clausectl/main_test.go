package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

const employmentContract = "EMPLOYMENT AGREEMENT\n" +
	"1. The Employer may terminate this agreement without cause at any time.\n" +
	"2. Confidentiality obligations of the Employee shall be indefinite in duration.\n" +
	"3. Payment is due monthly on the first business day of each calendar month.\n" +
	"4. Either party may renew this agreement by mutual agreement in writing."

// execute runs clausectl with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RULES_PATH", "")
	t.Setenv("ANALYSIS_WORKERS", "")
	t.Setenv("AI_PROVIDER", "none")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeContract(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employment.txt")
	require.NoError(t, os.WriteFile(path, []byte(employmentContract), 0o644))
	return path
}

func TestAnalyze_TextReport(t *testing.T) {
	out, err := execute(t, "analyze", writeContract(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Contract: employment.txt")
	assert.Contains(t, out, "Medium Risk  (High 1, Medium 1, Low 2)")
	assert.Contains(t, out, "[1] High / Termination")
	assert.Contains(t, out, "[2] Medium / Confidentiality")
	assert.NotContains(t, out, "Explanation:")
}

func TestAnalyze_JSON(t *testing.T) {
	out, err := execute(t, "analyze", writeContract(t), "--format", "json")
	require.NoError(t, err)

	var report models.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, models.OverallMedium, report.Overall)
	assert.Equal(t, models.RiskCounts{High: 1, Medium: 1, Low: 2}, report.Counts)
	assert.Equal(t, "English", report.Language)
}

func TestAnalyze_CSV(t *testing.T) {
	out, err := execute(t, "analyze", writeContract(t), "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Clause #,Clause Text,Risk Level,Category,Explanation,Suggestion", lines[0])
}

func TestAnalyze_ExplainWithoutProvider(t *testing.T) {
	out, err := execute(t, "analyze", writeContract(t), "--explain")
	require.NoError(t, err)

	// Unconfigured providers degrade per clause instead of failing.
	assert.Contains(t, out, "Explanation:")
	assert.Contains(t, out, "Suggestion:")
}

func TestAnalyze_CustomRules(t *testing.T) {
	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte(`
levels:
  - level: High
    patterns: ["payment is due"]
categories:
  - name: Payment
    keywords: ["payment"]
`), 0o644))

	out, err := execute(t, "analyze", writeContract(t), "--rules", rulesPath, "--format", "json")
	require.NoError(t, err)

	var report models.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Clauses, 4)
	assert.Equal(t, models.RiskLow, report.Clauses[0].RiskLevel)
	assert.Equal(t, models.RiskHigh, report.Clauses[2].RiskLevel)
	assert.Equal(t, "Payment", report.Clauses[2].Category)
}

func TestAnalyze_Errors(t *testing.T) {
	path := writeContract(t)
	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("  \n "), 0o644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown format", []string{"analyze", path, "--format", "xml"}, "unknown format"},
		{"missing file", []string{"analyze", filepath.Join(t.TempDir(), "nope.txt")}, "read contract"},
		{"empty document", []string{"analyze", empty}, "empty.txt"},
		{"no args", []string{"analyze"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTemplateList(t *testing.T) {
	out, err := execute(t, "template", "list")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "NAME"))
	for _, name := range []string{"employment", "vendor", "lease", "partnership", "service", "nda", "consultancy"} {
		assert.Contains(t, out, name)
	}
}

func TestTemplateRender_ToFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "nda.txt")

	stdout, err := execute(t, "template", "render", "nda", "--set", "company_name=Acme Corp", "-o", outPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "NON-DISCLOSURE AGREEMENT"))
	assert.Contains(t, string(data), "Acme Corp")
}

func TestTemplateRender_Errors(t *testing.T) {
	_, err := execute(t, "template", "render", "franchise")
	require.Error(t, err)

	_, err = execute(t, "template", "render", "nda", "--set", "company_name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key=value")
}

func TestRules_PrintsYAML(t *testing.T) {
	out, err := execute(t, "rules")
	require.NoError(t, err)

	assert.Contains(t, out, "levels:")
	assert.Contains(t, out, "without cause")
	assert.Contains(t, out, "Penalty Clauses")
}

func TestParseSets(t *testing.T) {
	params, err := parseSets([]string{"company_name=Acme", " duration =2 years", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"company_name": "Acme",
		"duration":     "2 years",
		"note":         "a=b",
	}, params)

	_, err = parseSets([]string{"=x"})
	assert.Error(t, err)
}
