package analysis

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// ExportClauseRunes is the clause text length kept in CSV exports.
const ExportClauseRunes = 100

var csvHeader = []string{"Clause #", "Clause Text", "Risk Level", "Category", "Explanation", "Suggestion"}

// WriteCSV writes one row per clause. Clause text longer than
// ExportClauseRunes is cut and marked with "...".
func WriteCSV(w io.Writer, report *models.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range report.Clauses {
		row := []string{
			strconv.Itoa(c.Index),
			truncateRunes(c.Text, ExportClauseRunes),
			string(c.RiskLevel),
			c.Category,
			c.Explanation,
			c.Suggestion,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
