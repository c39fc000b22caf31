// Package rules loads the risk rule set used to classify contract clauses.
// A RuleSet is built once at startup and is read-only afterwards, so it can be
// shared by concurrent analyses without locking.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kiranshivaraju/clausecheck/pkg/models"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRuleSet is returned when rule data is missing or malformed.
// Callers treat it as fatal: the classifier cannot run without rules.
var ErrInvalidRuleSet = errors.New("invalid risk rule set")

//go:embed default_rules.yaml
var defaultRules []byte

// LevelRules lists the patterns for one risk level, in evaluation order.
type LevelRules struct {
	Level    models.RiskLevel `yaml:"level"`
	Patterns []string         `yaml:"patterns"`
}

// CategoryRule maps a category name to its keywords, in evaluation order.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// RuleSet is the validated, compiled rule data.
type RuleSet struct {
	Levels     []LevelRules   `yaml:"levels"`
	Categories []CategoryRule `yaml:"categories"`

	high   []*regexp.Regexp
	medium []*regexp.Regexp
}

// Default returns the rule set embedded in the binary.
func Default() (*RuleSet, error) {
	return Parse(defaultRules)
}

// MustDefault is Default for package init and tests. It panics on error.
func MustDefault() *RuleSet {
	rs, err := Default()
	if err != nil {
		panic(err)
	}
	return rs
}

// Load reads a rule set from a YAML file. An empty path loads the embedded defaults.
func Load(path string) (*RuleSet, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidRuleSet, path, err)
	}
	return Parse(data)
}

// Parse decodes, validates, and compiles YAML rule data.
func Parse(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidRuleSet, err)
	}
	if err := rs.compile(); err != nil {
		return nil, err
	}
	return &rs, nil
}

func (rs *RuleSet) compile() error {
	if len(rs.Levels) == 0 {
		return fmt.Errorf("%w: no risk levels defined", ErrInvalidRuleSet)
	}
	if len(rs.Categories) == 0 {
		return fmt.Errorf("%w: no categories defined", ErrInvalidRuleSet)
	}

	seen := make(map[models.RiskLevel]bool, len(rs.Levels))
	for _, lr := range rs.Levels {
		if seen[lr.Level] {
			return fmt.Errorf("%w: level %q defined twice", ErrInvalidRuleSet, lr.Level)
		}
		seen[lr.Level] = true

		var compiled []*regexp.Regexp
		for _, p := range lr.Patterns {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("%w: empty pattern under level %q", ErrInvalidRuleSet, lr.Level)
			}
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return fmt.Errorf("%w: pattern %q: %v", ErrInvalidRuleSet, p, err)
			}
			compiled = append(compiled, re)
		}

		switch lr.Level {
		case models.RiskHigh:
			rs.high = compiled
		case models.RiskMedium:
			rs.medium = compiled
		case models.RiskLow:
			// Low patterns document benign wording; they never change a verdict.
		default:
			return fmt.Errorf("%w: unknown level %q (want High, Medium or Low)", ErrInvalidRuleSet, lr.Level)
		}
	}
	if len(rs.high) == 0 && len(rs.medium) == 0 {
		return fmt.Errorf("%w: no High or Medium patterns defined", ErrInvalidRuleSet)
	}

	names := make(map[string]bool, len(rs.Categories))
	for i, c := range rs.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: category %d has no name", ErrInvalidRuleSet, i+1)
		}
		if names[c.Name] {
			return fmt.Errorf("%w: category %q defined twice", ErrInvalidRuleSet, c.Name)
		}
		names[c.Name] = true
		if len(c.Keywords) == 0 {
			return fmt.Errorf("%w: category %q has no keywords", ErrInvalidRuleSet, c.Name)
		}
		for j, kw := range c.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("%w: category %q has an empty keyword", ErrInvalidRuleSet, c.Name)
			}
			rs.Categories[i].Keywords[j] = strings.ToLower(kw)
		}
	}
	return nil
}

// High returns the compiled High-risk patterns in evaluation order.
func (rs *RuleSet) High() []*regexp.Regexp { return rs.high }

// Medium returns the compiled Medium-risk patterns in evaluation order.
func (rs *RuleSet) Medium() []*regexp.Regexp { return rs.medium }

// YAML renders the rule set in the same format Load accepts.
func (rs *RuleSet) YAML() ([]byte, error) {
	return yaml.Marshal(rs)
}
