// Package segment splits normalized contract text into clauses.
//
// Structural markers (numbered clauses, lettered sub-clauses, SECTION and
// ARTICLE headers, nested numbering) are tried first, in a fixed order. The
// first marker that yields more than MinStructuralClauses fragments longer
// than MinClauseLength wins. When none does, sentences are grouped instead.
package segment

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	// MinClauseLength is the exclusive lower bound on a structural fragment's trimmed length in characters.
	MinClauseLength = 50
	// MinStructuralClauses is the exclusive lower bound on surviving fragments for a marker to be accepted.
	MinStructuralClauses = 3
	// MaxSentencesPerClause closes a sentence group once it holds this many sentences.
	MaxSentencesPerClause = 3
)

// Structural split markers, compiled once and tried in this order.
var structuralMarkers = []*regexp.Regexp{
	regexp.MustCompile(`\n\d+\.\s`),       // 1. Clause
	regexp.MustCompile(`\n\([a-z]\)\s`),   // (a) Sub-clause
	regexp.MustCompile(`\nSECTION\s+\d+`), // SECTION 1
	regexp.MustCompile(`\nARTICLE\s+\d+`), // ARTICLE 1
	regexp.MustCompile(`\n\d+\.\d+\.`),    // 1.1. Numbering
}

// Segmenter splits contract text into clauses. The zero value is not usable; call New.
type Segmenter struct {
	sentences SentenceTokenizer
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithTokenizer replaces the default English punkt tokenizer used by the sentence fallback.
func WithTokenizer(t SentenceTokenizer) Option {
	return func(s *Segmenter) { s.sentences = t }
}

// New builds a Segmenter. Without options it uses the English punkt tokenizer.
func New(opts ...Option) (*Segmenter, error) {
	s := &Segmenter{}
	for _, opt := range opts {
		opt(s)
	}
	if s.sentences == nil {
		tok, err := NewPunktTokenizer()
		if err != nil {
			return nil, err
		}
		s.sentences = tok
	}
	return s, nil
}

var (
	defaultOnce      sync.Once
	defaultSegmenter *Segmenter
	defaultErr       error
)

// Segment splits text with a shared default Segmenter. Empty or whitespace-only
// text, or a failure to load the default tokenizer, yields an empty slice.
func Segment(text string) []string {
	defaultOnce.Do(func() {
		defaultSegmenter, defaultErr = New()
	})
	if defaultErr != nil {
		return []string{}
	}
	return defaultSegmenter.Segment(text)
}

// Segment splits text into clauses in document order. It never fails; empty
// input produces an empty, non-nil slice.
func (s *Segmenter) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	if clauses, ok := splitStructural(text); ok {
		return clauses
	}
	return groupSentences(s.sentences.Tokenize(text))
}

// splitStructural returns the fragments of the first marker that qualifies.
func splitStructural(text string) ([]string, bool) {
	for _, marker := range structuralMarkers {
		parts := marker.Split(text, -1)
		if len(parts) <= 1 {
			continue
		}
		var kept []string
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if utf8.RuneCountInString(p) > MinClauseLength {
				kept = append(kept, p)
			}
		}
		if len(kept) > MinStructuralClauses {
			return kept, true
		}
	}
	return nil, false
}

// groupSentences joins sentences into clauses of up to MaxSentencesPerClause,
// closing a group early after a sentence ending in ':' or ';'.
func groupSentences(sentences []string) []string {
	clauses := []string{}
	var group []string
	for _, sent := range sentences {
		sent = strings.TrimSpace(sent)
		if sent == "" {
			continue
		}
		group = append(group, sent)
		if len(group) >= MaxSentencesPerClause || strings.HasSuffix(sent, ":") || strings.HasSuffix(sent, ";") {
			clauses = append(clauses, strings.Join(group, " "))
			group = nil
		}
	}
	if len(group) > 0 {
		clauses = append(clauses, strings.Join(group, " "))
	}
	return clauses
}
