// Package risk assigns a risk level and category to each clause and scores a
// whole contract from its clause levels.
package risk

import (
	"strings"

	"github.com/kiranshivaraju/clausecheck/internal/rules"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// Classifier applies a rule set to single clauses. It holds no mutable state
// and is safe for concurrent use.
type Classifier struct {
	rules *rules.RuleSet
}

// NewClassifier returns a Classifier over rs. A nil rs uses the embedded defaults.
func NewClassifier(rs *rules.RuleSet) *Classifier {
	if rs == nil {
		rs = rules.MustDefault()
	}
	return &Classifier{rules: rs}
}

// Level returns High if any High pattern matches, else Medium if any Medium
// pattern matches, else Low.
func (c *Classifier) Level(clause string) models.RiskLevel {
	lower := strings.ToLower(clause)
	for _, re := range c.rules.High() {
		if re.MatchString(lower) {
			return models.RiskHigh
		}
	}
	for _, re := range c.rules.Medium() {
		if re.MatchString(lower) {
			return models.RiskMedium
		}
	}
	return models.RiskLow
}

// Category returns the first category, in rule order, with a keyword contained
// in the clause. Clauses with no match are General.
func (c *Classifier) Category(clause string) string {
	lower := strings.ToLower(clause)
	for _, cat := range c.rules.Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat.Name
			}
		}
	}
	return models.CategoryGeneral
}

// Classify returns both the level and the category of a clause.
func (c *Classifier) Classify(clause string) (models.RiskLevel, string) {
	return c.Level(clause), c.Category(clause)
}
